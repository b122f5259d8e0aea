//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Mock Spotify client and fixtures shared by package tests.
//

package spotifytest

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/zmb3/spotify/v2"
)

// MockClient is a mock implementation of the spotify.Client interface for testing.
// A nil Func field falls back to a canned success response.
type MockClient struct {
	CurrentUserFunc   func(ctx context.Context) (*spotify.PrivateUser, error)
	SearchFunc        func(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error)
	PlayerDevicesFunc func(ctx context.Context) ([]spotify.PlayerDevice, error)
	PlayerStateFunc   func(ctx context.Context, opts ...spotify.RequestOption) (*spotify.PlayerState, error)
	GetPlaylistFunc   func(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.FullPlaylist, error)
	PlayOptFunc       func(ctx context.Context, opts *spotify.PlayOptions) error
	QueueSongOptFunc  func(ctx context.Context, trackID spotify.ID, opt *spotify.PlayOptions) error
	PauseOptFunc      func(ctx context.Context, opt *spotify.PlayOptions) error
	ShuffleOptFunc    func(ctx context.Context, shuffle bool, opt *spotify.PlayOptions) error

	// Calls counts invocations per method name.
	Calls map[string]int
}

func (m *MockClient) record(name string) {
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// CurrentUser returns the current user.
func (m *MockClient) CurrentUser(ctx context.Context) (*spotify.PrivateUser, error) {
	m.record("CurrentUser")
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(ctx)
	}
	return &spotify.PrivateUser{
		User: spotify.User{
			DisplayName: "Test User",
			ID:          "testuser123",
		},
	}, nil
}

// Search returns an empty result set.
func (m *MockClient) Search(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, t, opts...)
	}
	return &spotify.SearchResult{}, nil
}

// PlayerDevices returns available devices.
func (m *MockClient) PlayerDevices(ctx context.Context) ([]spotify.PlayerDevice, error) {
	m.record("PlayerDevices")
	if m.PlayerDevicesFunc != nil {
		return m.PlayerDevicesFunc(ctx)
	}
	return []spotify.PlayerDevice{
		{
			ID:     "device123",
			Name:   "Living Room Speaker",
			Type:   "Speaker",
			Active: true,
		},
		{
			ID:     "device456",
			Name:   "Kitchen Speaker",
			Type:   "Speaker",
			Active: false,
		},
	}, nil
}

// PlayerState returns an idle player.
func (m *MockClient) PlayerState(ctx context.Context, opts ...spotify.RequestOption) (*spotify.PlayerState, error) {
	m.record("PlayerState")
	if m.PlayerStateFunc != nil {
		return m.PlayerStateFunc(ctx, opts...)
	}
	return &spotify.PlayerState{}, nil
}

// GetPlaylist returns a playlist by ID.
func (m *MockClient) GetPlaylist(ctx context.Context, playlistID spotify.ID, opts ...spotify.RequestOption) (*spotify.FullPlaylist, error) {
	m.record("GetPlaylist")
	if m.GetPlaylistFunc != nil {
		return m.GetPlaylistFunc(ctx, playlistID, opts...)
	}
	return FullPlaylist(string(playlistID), "Test Playlist", 50), nil
}

// PlayOpt starts playback with options.
func (m *MockClient) PlayOpt(ctx context.Context, opts *spotify.PlayOptions) error {
	m.record("PlayOpt")
	if m.PlayOptFunc != nil {
		return m.PlayOptFunc(ctx, opts)
	}
	return nil
}

// QueueSongOpt adds a track to the queue.
func (m *MockClient) QueueSongOpt(ctx context.Context, trackID spotify.ID, opt *spotify.PlayOptions) error {
	m.record("QueueSongOpt")
	if m.QueueSongOptFunc != nil {
		return m.QueueSongOptFunc(ctx, trackID, opt)
	}
	return nil
}

// PauseOpt pauses playback.
func (m *MockClient) PauseOpt(ctx context.Context, opt *spotify.PlayOptions) error {
	m.record("PauseOpt")
	if m.PauseOptFunc != nil {
		return m.PauseOptFunc(ctx, opt)
	}
	return nil
}

// ShuffleOpt sets shuffle mode.
func (m *MockClient) ShuffleOpt(ctx context.Context, shuffle bool, opt *spotify.PlayOptions) error {
	m.record("ShuffleOpt")
	if m.ShuffleOptFunc != nil {
		return m.ShuffleOptFunc(ctx, shuffle, opt)
	}
	return nil
}

// FullPlaylist creates a FullPlaylist with the track total set via JSON
// unmarshaling, since the page base struct is unexported.
func FullPlaylist(id, name string, total int) *spotify.FullPlaylist {
	jsonStr := `{"id":"` + id + `","name":"` + name + `","uri":"spotify:playlist:` + id + `","tracks":{"total":` + strconv.Itoa(total) + `}}`
	var playlist spotify.FullPlaylist
	if err := json.Unmarshal([]byte(jsonStr), &playlist); err != nil {
		panic(err)
	}
	return &playlist
}

// SearchResult decodes a search response body as the Web API would return it.
func SearchResult(body string) *spotify.SearchResult {
	var result spotify.SearchResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		panic(err)
	}
	return &result
}
