//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Rate-limited wrapper around the Spotify API client.
//

package spotify

import (
	"context"

	spotifyLib "github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"
)

// ThrottledClient waits on a shared limiter before every API call so a busy
// remote-control server stays under Spotify's request rate.
type ThrottledClient struct {
	client  Client
	limiter *rate.Limiter
}

// NewThrottledClient allows perSecond requests per second with a burst of one.
func NewThrottledClient(client Client, perSecond float64) *ThrottledClient {
	return &ThrottledClient{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (t *ThrottledClient) CurrentUser(ctx context.Context) (*spotifyLib.PrivateUser, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.client.CurrentUser(ctx)
}

func (t *ThrottledClient) Search(ctx context.Context, query string, st spotifyLib.SearchType, opts ...spotifyLib.RequestOption) (*spotifyLib.SearchResult, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.client.Search(ctx, query, st, opts...)
}

func (t *ThrottledClient) PlayerDevices(ctx context.Context) ([]spotifyLib.PlayerDevice, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.client.PlayerDevices(ctx)
}

func (t *ThrottledClient) PlayerState(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.PlayerState, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.client.PlayerState(ctx, opts...)
}

func (t *ThrottledClient) GetPlaylist(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.FullPlaylist, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.client.GetPlaylist(ctx, playlistID, opts...)
}

func (t *ThrottledClient) PlayOpt(ctx context.Context, opts *spotifyLib.PlayOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.client.PlayOpt(ctx, opts)
}

func (t *ThrottledClient) QueueSongOpt(ctx context.Context, trackID spotifyLib.ID, opt *spotifyLib.PlayOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.client.QueueSongOpt(ctx, trackID, opt)
}

func (t *ThrottledClient) PauseOpt(ctx context.Context, opt *spotifyLib.PlayOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.client.PauseOpt(ctx, opt)
}

func (t *ThrottledClient) ShuffleOpt(ctx context.Context, shuffle bool, opt *spotifyLib.PlayOptions) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	return t.client.ShuffleOpt(ctx, shuffle, opt)
}
