//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Shared application state written by the dispatcher and read
// by commands between dispatches.
//

package app

import (
	"sync"

	"github.com/zmb3/spotify/v2"
)

// SearchResults holds the latest search response, one page per category.
// A nil page means the category was absent from the response.
type SearchResults struct {
	// Query is the search text the pages answer.
	Query string

	Tracks    *spotify.FullTrackPage
	Albums    *spotify.SimpleAlbumPage
	Artists   *spotify.FullArtistPage
	Shows     *spotify.SimpleShowPage
	Playlists *spotify.SimplePlaylistPage
}

// State is the record shared between the dispatcher and commands.
// Slices and pages are replaced wholesale on write and never mutated in
// place, so a copied State stays consistent after the lock is released.
type State struct {
	Devices         []spotify.PlayerDevice
	PlaybackContext *spotify.PlayerState
	SearchResults   SearchResults
	LastError       error
}

// App guards the one State of the process.
type App struct {
	mu    sync.Mutex
	state State
}

// New returns an App with every field empty.
func New() *App {
	return &App{}
}

// Update runs fn with exclusive access to the state. fn must not block.
func (a *App) Update(fn func(s *State)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fn(&a.state)
}

// Snapshot returns a copy of the state taken under the lock.
func (a *App) Snapshot() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// HandleError records err as the last error.
func (a *App) HandleError(err error) {
	a.Update(func(s *State) {
		s.LastError = err
	})
}

// TakeError returns the last error and clears it.
func (a *App) TakeError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.state.LastError
	a.state.LastError = nil
	return err
}
