//
// Date: 2026-10-12
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Type definitions and interfaces for the Spotify API client.
//

package spotify

import (
	"context"

	spotifyLib "github.com/zmb3/spotify/v2"
)

// Client defines the subset of Spotify Web API operations used by the app.
// This allows for mocking in tests.
type Client interface {
	CurrentUser(ctx context.Context) (*spotifyLib.PrivateUser, error)
	Search(ctx context.Context, query string, t spotifyLib.SearchType, opts ...spotifyLib.RequestOption) (*spotifyLib.SearchResult, error)
	PlayerDevices(ctx context.Context) ([]spotifyLib.PlayerDevice, error)
	PlayerState(ctx context.Context, opts ...spotifyLib.RequestOption) (*spotifyLib.PlayerState, error)
	GetPlaylist(ctx context.Context, playlistID spotifyLib.ID, opts ...spotifyLib.RequestOption) (*spotifyLib.FullPlaylist, error)
	PlayOpt(ctx context.Context, opts *spotifyLib.PlayOptions) error
	QueueSongOpt(ctx context.Context, trackID spotifyLib.ID, opt *spotifyLib.PlayOptions) error
	PauseOpt(ctx context.Context, opt *spotifyLib.PlayOptions) error
	ShuffleOpt(ctx context.Context, shuffle bool, opt *spotifyLib.PlayOptions) error
}

var _ Client = (*spotifyLib.Client)(nil)

// APIResponse represents a standard JSON response for the remote-control API.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
