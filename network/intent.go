//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Intents accepted by the dispatcher.
//

package network

import (
	"context"

	spotifyLib "github.com/zmb3/spotify/v2"
)

// Intent is one user-triggered operation against the Spotify API. The set of
// intents is closed: each one routes itself to its intentHandler method, and
// Network must implement every method, so a new intent without a handler
// fails to compile.
type Intent interface {
	accept(ctx context.Context, h intentHandler)
}

type intentHandler interface {
	startPlayback(ctx context.Context, i StartPlayback)
	addItemToQueue(ctx context.Context, i AddItemToQueue)
	getSearchResults(ctx context.Context, i GetSearchResults)
	getDevices(ctx context.Context, i GetDevices)
	getCurrentPlayback(ctx context.Context, i GetCurrentPlayback)
	pausePlayback(ctx context.Context, i PausePlayback)
	setShuffle(ctx context.Context, i SetShuffle)
}

var _ intentHandler = (*Network)(nil)

// StartPlayback plays a context (album, playlist, artist, show) or a list of
// tracks. When RandomOffset is set and ContextURI is a playlist, the start
// position is drawn at random from the playlist's tracks and Offset is ignored.
type StartPlayback struct {
	ContextURI   *spotifyLib.URI
	TrackURIs    []spotifyLib.URI
	Offset       *int
	RandomOffset bool
}

// AddItemToQueue appends a track to the playback queue.
type AddItemToQueue struct {
	URI spotifyLib.URI
}

// GetSearchResults searches tracks, albums, artists, shows and playlists.
// Market optionally restricts results to a country code.
type GetSearchResults struct {
	Query  string
	Market string
}

// GetDevices refreshes the device list.
type GetDevices struct{}

// GetCurrentPlayback refreshes the playback state.
type GetCurrentPlayback struct{}

// PausePlayback pauses the current device.
type PausePlayback struct{}

// SetShuffle turns shuffle on or off.
type SetShuffle struct {
	State bool
}

func (i StartPlayback) accept(ctx context.Context, h intentHandler)      { h.startPlayback(ctx, i) }
func (i AddItemToQueue) accept(ctx context.Context, h intentHandler)     { h.addItemToQueue(ctx, i) }
func (i GetSearchResults) accept(ctx context.Context, h intentHandler)   { h.getSearchResults(ctx, i) }
func (i GetDevices) accept(ctx context.Context, h intentHandler)         { h.getDevices(ctx, i) }
func (i GetCurrentPlayback) accept(ctx context.Context, h intentHandler) { h.getCurrentPlayback(ctx, i) }
func (i PausePlayback) accept(ctx context.Context, h intentHandler)      { h.pausePlayback(ctx, i) }
func (i SetShuffle) accept(ctx context.Context, h intentHandler)         { h.setShuffle(ctx, i) }
