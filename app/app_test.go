//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Unit tests for the shared application state.
//

package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/zmb3/spotify/v2"
)

// TestNew_Empty tests that a new App starts with every field empty.
func TestNew_Empty(t *testing.T) {
	s := New().Snapshot()

	if s.Devices != nil {
		t.Errorf("expected nil devices, got %v", s.Devices)
	}
	if s.PlaybackContext != nil {
		t.Errorf("expected nil playback, got %v", s.PlaybackContext)
	}
	if s.SearchResults != (SearchResults{}) {
		t.Errorf("expected empty search results, got %+v", s.SearchResults)
	}
	if s.LastError != nil {
		t.Errorf("expected no error, got %v", s.LastError)
	}
}

// TestUpdate_OnlyTouchesWrittenFields tests that an update leaves other fields alone.
func TestUpdate_OnlyTouchesWrittenFields(t *testing.T) {
	a := New()
	tracks := &spotify.FullTrackPage{}
	a.Update(func(s *State) {
		s.SearchResults.Tracks = tracks
	})

	a.Update(func(s *State) {
		s.Devices = []spotify.PlayerDevice{{ID: "d1"}}
	})

	s := a.Snapshot()
	if s.SearchResults.Tracks != tracks {
		t.Error("search results were cleared by a devices update")
	}
	if len(s.Devices) != 1 || s.Devices[0].ID != "d1" {
		t.Errorf("unexpected devices: %v", s.Devices)
	}
}

// TestSnapshot_IsolatedFromLaterWrites tests that a snapshot does not change
// when the state is written afterward.
func TestSnapshot_IsolatedFromLaterWrites(t *testing.T) {
	a := New()
	a.Update(func(s *State) {
		s.Devices = []spotify.PlayerDevice{{ID: "old"}}
	})

	snap := a.Snapshot()

	a.Update(func(s *State) {
		s.Devices = []spotify.PlayerDevice{{ID: "new"}, {ID: "newer"}}
	})

	if len(snap.Devices) != 1 || snap.Devices[0].ID != "old" {
		t.Errorf("snapshot changed after write: %v", snap.Devices)
	}
}

// TestTakeError tests that TakeError returns and clears the last error.
func TestTakeError(t *testing.T) {
	a := New()
	want := errors.New("boom")
	a.HandleError(want)

	if err := a.TakeError(); !errors.Is(err, want) {
		t.Errorf("expected %v, got %v", want, err)
	}
	if err := a.TakeError(); err != nil {
		t.Errorf("expected error to be cleared, got %v", err)
	}
}

// TestConcurrentAccess tests that readers never observe a half-written state.
func TestConcurrentAccess(t *testing.T) {
	a := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			a.Update(func(s *State) {
				// Devices and error are always written together here.
				s.Devices = make([]spotify.PlayerDevice, i)
				s.LastError = errors.New(string(rune('a' + i%26)))
			})
		}(i)
		go func() {
			defer wg.Done()
			s := a.Snapshot()
			if (s.Devices == nil) != (s.LastError == nil) {
				t.Errorf("torn read: devices=%v err=%v", s.Devices, s.LastError)
			}
		}()
	}
	wg.Wait()
}
