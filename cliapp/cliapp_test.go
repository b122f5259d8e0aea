//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Unit tests for the play commands.
//

package cliapp

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"

	"github.com/cloudmanic/spt-play/app"
	"github.com/cloudmanic/spt-play/network"
	"github.com/cloudmanic/spt-play/spotify/spotifytest"
)

// newTestCliApp wires a CliApp to a real dispatcher around mock.
func newTestCliApp(mock *spotifytest.MockClient) (*CliApp, *app.App) {
	state := app.New()
	net := network.New(mock, state, network.WithLogger(log.New(io.Discard)))
	return New(net, state), state
}

// searchReturning returns a SearchFunc answering every query with body.
func searchReturning(body string) func(context.Context, string, spotify.SearchType, ...spotify.RequestOption) (*spotify.SearchResult, error) {
	return func(ctx context.Context, query string, t spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
		return spotifytest.SearchResult(body), nil
	}
}

// TestParseItemType tests parsing of item type names.
func TestParseItemType(t *testing.T) {
	tests := []struct {
		input    string
		expected ItemType
		wantErr  bool
	}{
		{input: "track", expected: Track},
		{input: "Album", expected: Album},
		{input: "ARTIST", expected: Artist},
		{input: "show", expected: Show},
		{input: "playlist", expected: Playlist},
		{input: "device", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseItemType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("ParseItemType(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestPlayURI_QueueTrack tests that a queued track makes one queue call and no play call.
func TestPlayURI_QueueTrack(t *testing.T) {
	var gotID spotify.ID
	mock := &spotifytest.MockClient{
		QueueSongOptFunc: func(ctx context.Context, id spotify.ID, opt *spotify.PlayOptions) error {
			gotID = id
			return nil
		},
	}
	c, _ := newTestCliApp(mock)

	c.PlayURI(context.Background(), "spotify:track:T", true, false)

	if mock.Calls["QueueSongOpt"] != 1 {
		t.Errorf("expected one queue call, got %d", mock.Calls["QueueSongOpt"])
	}
	if gotID != "T" {
		t.Errorf("expected track T, got %q", gotID)
	}
	if mock.Calls["PlayOpt"] != 0 {
		t.Error("queueing a track started playback")
	}
}

// TestPlayURI_Track tests that an unqueued track plays alone from offset 0.
func TestPlayURI_Track(t *testing.T) {
	var got *spotify.PlayOptions
	mock := &spotifytest.MockClient{
		PlayOptFunc: func(ctx context.Context, opts *spotify.PlayOptions) error {
			got = opts
			return nil
		},
	}
	c, _ := newTestCliApp(mock)

	c.PlayURI(context.Background(), "spotify:track:T", false, true)

	if got == nil {
		t.Fatal("PlayOpt was not called")
	}
	if len(got.URIs) != 1 || got.URIs[0] != "spotify:track:T" {
		t.Errorf("unexpected URIs: %v", got.URIs)
	}
	if got.PlaybackContext != nil {
		t.Error("track played as a context")
	}
	if got.PlaybackOffset == nil || *got.PlaybackOffset.Position != 0 {
		t.Errorf("expected offset 0, got %+v", got.PlaybackOffset)
	}
	if mock.Calls["GetPlaylist"] != 0 {
		t.Error("random track play read a playlist")
	}
}

// TestPlayURI_RandomPlaylist tests one track-count read followed by one play in range.
func TestPlayURI_RandomPlaylist(t *testing.T) {
	var gotID spotify.ID
	var got *spotify.PlayOptions
	mock := &spotifytest.MockClient{
		GetPlaylistFunc: func(ctx context.Context, id spotify.ID, opts ...spotify.RequestOption) (*spotify.FullPlaylist, error) {
			gotID = id
			return spotifytest.FullPlaylist(string(id), "Mix", 7), nil
		},
		PlayOptFunc: func(ctx context.Context, opts *spotify.PlayOptions) error {
			got = opts
			return nil
		},
	}
	c, _ := newTestCliApp(mock)

	c.PlayURI(context.Background(), "spotify:playlist:P", false, true)

	if mock.Calls["GetPlaylist"] != 1 || mock.Calls["PlayOpt"] != 1 {
		t.Fatalf("expected one read and one play, got %v", mock.Calls)
	}
	if gotID != "P" {
		t.Errorf("expected playlist P, got %s", gotID)
	}
	if got.PlaybackContext == nil || *got.PlaybackContext != "spotify:playlist:P" {
		t.Errorf("unexpected context: %v", got.PlaybackContext)
	}
	if pos := *got.PlaybackOffset.Position; pos < 0 || pos >= 7 {
		t.Errorf("offset %d out of range [0, 7)", pos)
	}
}

// TestPlayURI_AlbumIgnoresRandom tests that random has no effect on a non-playlist context.
func TestPlayURI_AlbumIgnoresRandom(t *testing.T) {
	var got *spotify.PlayOptions
	mock := &spotifytest.MockClient{
		PlayOptFunc: func(ctx context.Context, opts *spotify.PlayOptions) error {
			got = opts
			return nil
		},
	}
	c, _ := newTestCliApp(mock)

	c.PlayURI(context.Background(), "spotify:album:A", false, true)

	if mock.Calls["GetPlaylist"] != 0 {
		t.Error("album play read a playlist")
	}
	if got == nil || got.PlaybackOffset != nil {
		t.Errorf("expected play with no offset, got %+v", got)
	}
}

// TestPlayURI_Link tests that open.spotify.com links are played as URIs.
func TestPlayURI_Link(t *testing.T) {
	var gotID spotify.ID
	mock := &spotifytest.MockClient{
		QueueSongOptFunc: func(ctx context.Context, id spotify.ID, opt *spotify.PlayOptions) error {
			gotID = id
			return nil
		},
	}
	c, _ := newTestCliApp(mock)

	c.PlayURI(context.Background(), "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc", true, false)

	if gotID != "4uLU6hMCjMI75M1A2tKUQC" {
		t.Errorf("expected track id from link, got %q", gotID)
	}
}

// TestPlayURI_ErrorInState tests that a failed play is observed through LastError.
func TestPlayURI_ErrorInState(t *testing.T) {
	mock := &spotifytest.MockClient{
		PlayOptFunc: func(ctx context.Context, opts *spotify.PlayOptions) error {
			return errors.New("no active device")
		},
	}
	c, state := newTestCliApp(mock)

	c.PlayURI(context.Background(), "spotify:album:A", false, false)

	var apiErr *network.APIError
	if !errors.As(state.Snapshot().LastError, &apiErr) {
		t.Errorf("expected APIError in state, got %v", state.Snapshot().LastError)
	}
}

// TestPlay_TrackNotFound tests that an empty track category returns NotFound
// and leaves playback untouched.
func TestPlay_TrackNotFound(t *testing.T) {
	mock := &spotifytest.MockClient{
		SearchFunc: searchReturning(`{"tracks": {"items": []}}`),
	}
	c, state := newTestCliApp(mock)
	before := state.Snapshot().PlaybackContext

	err := c.Play(context.Background(), "X", Track, false, false)

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Query != "X" {
		t.Errorf("expected query X, got %q", notFound.Query)
	}
	if err.Error() != "no tracks with name 'X'" {
		t.Errorf("unexpected message: %s", err)
	}
	if state.Snapshot().PlaybackContext != before {
		t.Error("playback state changed")
	}
	if mock.Calls["PlayOpt"] != 0 || mock.Calls["QueueSongOpt"] != 0 {
		t.Error("playback call issued for a missing track")
	}
}

// TestPlay_CategoryAbsent tests NotFound for every type when the category is missing.
func TestPlay_CategoryAbsent(t *testing.T) {
	mock := &spotifytest.MockClient{
		SearchFunc: searchReturning(`{}`),
	}

	for _, item := range []ItemType{Track, Album, Artist, Show, Playlist} {
		t.Run(item.String(), func(t *testing.T) {
			c, _ := newTestCliApp(mock)

			err := c.Play(context.Background(), "nothing", item, false, false)

			var notFound *NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected NotFoundError, got %v", err)
			}
			if notFound.Type != item {
				t.Errorf("expected type %v, got %v", item, notFound.Type)
			}
		})
	}
}

// TestPlay_AlbumMissingURI tests that an album without a URI returns MissingURI.
func TestPlay_AlbumMissingURI(t *testing.T) {
	mock := &spotifytest.MockClient{
		SearchFunc: searchReturning(`{"albums": {"items": [{"name": "Lost Album"}]}}`),
	}
	c, _ := newTestCliApp(mock)

	err := c.Play(context.Background(), "Y", Album, false, false)

	var missing *MissingURIError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingURIError, got %v", err)
	}
	if missing.Name != "Lost Album" {
		t.Errorf("expected album name, got %q", missing.Name)
	}
	if mock.Calls["PlayOpt"] != 0 {
		t.Error("playback started for an album without a URI")
	}
}

// TestPlay_FirstResult tests that the first result of each type is played.
func TestPlay_FirstResult(t *testing.T) {
	body := `{
		"tracks": {"items": [{"name": "t1", "uri": "spotify:track:t1"}, {"name": "t2", "uri": "spotify:track:t2"}]},
		"albums": {"items": [{"name": "a1", "uri": "spotify:album:a1"}]},
		"artists": {"items": [{"name": "r1", "uri": "spotify:artist:r1"}]},
		"shows": {"items": [{"name": "s1", "uri": "spotify:show:s1"}]},
		"playlists": {"items": [{"name": "p1", "uri": "spotify:playlist:p1"}]}
	}`

	tests := []struct {
		item        ItemType
		wantContext string
		wantTrack   string
	}{
		{item: Track, wantTrack: "spotify:track:t1"},
		{item: Album, wantContext: "spotify:album:a1"},
		{item: Artist, wantContext: "spotify:artist:r1"},
		{item: Show, wantContext: "spotify:show:s1"},
		{item: Playlist, wantContext: "spotify:playlist:p1"},
	}

	for _, tt := range tests {
		t.Run(tt.item.String(), func(t *testing.T) {
			var got *spotify.PlayOptions
			mock := &spotifytest.MockClient{
				SearchFunc: searchReturning(body),
				PlayOptFunc: func(ctx context.Context, opts *spotify.PlayOptions) error {
					got = opts
					return nil
				},
			}
			c, _ := newTestCliApp(mock)

			if err := c.Play(context.Background(), "query", tt.item, false, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got == nil {
				t.Fatal("PlayOpt was not called")
			}
			if tt.wantTrack != "" && (len(got.URIs) != 1 || string(got.URIs[0]) != tt.wantTrack) {
				t.Errorf("expected track %s, got %v", tt.wantTrack, got.URIs)
			}
			if tt.wantContext != "" && (got.PlaybackContext == nil || string(*got.PlaybackContext) != tt.wantContext) {
				t.Errorf("expected context %s, got %v", tt.wantContext, got.PlaybackContext)
			}
		})
	}
}

// TestPlay_QueueTrackByName tests that a named track is queued when asked.
func TestPlay_QueueTrackByName(t *testing.T) {
	mock := &spotifytest.MockClient{
		SearchFunc: searchReturning(`{"tracks": {"items": [{"name": "Anchor", "uri": "spotify:track:anchor"}]}}`),
	}
	c, _ := newTestCliApp(mock)

	if err := c.Play(context.Background(), "Anchor", Track, true, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls["QueueSongOpt"] != 1 || mock.Calls["PlayOpt"] != 0 {
		t.Errorf("expected one queue call and no play, got %v", mock.Calls)
	}
}

// TestPlay_UnsupportedTypePanics tests that an out-of-range type is a programming error.
func TestPlay_UnsupportedTypePanics(t *testing.T) {
	c, _ := newTestCliApp(&spotifytest.MockClient{})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for unsupported item type")
		}
	}()

	_ = c.Play(context.Background(), "x", ItemType(42), false, false)
}

// TestPlay_SearchFails tests that a failed search plays nothing, even when an
// earlier search left results in the state, and leaves the API error there.
func TestPlay_SearchFails(t *testing.T) {
	fail := false
	mock := &spotifytest.MockClient{
		SearchFunc: func(ctx context.Context, query string, st spotify.SearchType, opts ...spotify.RequestOption) (*spotify.SearchResult, error) {
			if fail {
				return nil, errors.New("timeout")
			}
			return spotifytest.SearchResult(`{"tracks": {"items": [{"name": "A", "uri": "spotify:track:AAA"}]}}`), nil
		},
	}
	c, state := newTestCliApp(mock)

	if err := c.Play(context.Background(), "A", Track, false, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls["PlayOpt"] != 1 {
		t.Fatalf("expected one play, got %d", mock.Calls["PlayOpt"])
	}

	fail = true
	if err := c.Play(context.Background(), "B", Track, false, false); err != nil {
		t.Errorf("expected the failure to be left in the state, got %v", err)
	}

	if mock.Calls["PlayOpt"] != 1 {
		t.Errorf("failed search started playback, PlayOpt called %d times", mock.Calls["PlayOpt"])
	}
	var apiErr *network.APIError
	if !errors.As(state.Snapshot().LastError, &apiErr) {
		t.Errorf("expected APIError in state, got %v", state.Snapshot().LastError)
	}
}

// TestPlay_NoClientRepeated tests that an unauthenticated dispatcher never
// plays, even when its error is already in the state.
func TestPlay_NoClientRepeated(t *testing.T) {
	state := app.New()
	net := network.New(nil, state, network.WithLogger(log.New(io.Discard)))
	state.Update(func(s *app.State) {
		s.SearchResults = app.SearchResults{Query: "A"}
	})
	c := New(net, state)

	for range 2 {
		if err := c.Play(context.Background(), "B", Track, false, false); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	if !errors.Is(state.TakeError(), network.ErrNoClient) {
		t.Error("expected ErrNoClient in state")
	}
}
