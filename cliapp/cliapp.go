//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Play commands built from dispatched intents. Each command
// awaits a dispatch, then reads the shared state to choose its next step.
//

package cliapp

import (
	"context"
	"fmt"
	"strings"

	spotifyLib "github.com/zmb3/spotify/v2"

	"github.com/cloudmanic/spt-play/app"
	"github.com/cloudmanic/spt-play/network"
	"github.com/cloudmanic/spt-play/spotify"
)

// ItemType is the search category a name is resolved against.
type ItemType int

const (
	Track ItemType = iota
	Album
	Artist
	Show
	Playlist
)

// ItemTypes lists the names accepted by ParseItemType.
var ItemTypes = []string{"track", "album", "artist", "show", "playlist"}

func (t ItemType) String() string {
	if t < 0 || int(t) >= len(ItemTypes) {
		return fmt.Sprintf("ItemType(%d)", int(t))
	}
	return ItemTypes[t]
}

// ParseItemType maps a name like "album" to its ItemType.
func ParseItemType(s string) (ItemType, error) {
	for i, name := range ItemTypes {
		if strings.EqualFold(s, name) {
			return ItemType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown type %q, expected one of %s", s, strings.Join(ItemTypes, ", "))
}

// Dispatcher submits an intent and returns once its outcome is in the state.
type Dispatcher interface {
	Dispatch(ctx context.Context, intent network.Intent)
}

// StateReader exposes the shared state to commands.
type StateReader interface {
	Snapshot() app.State
}

// CliApp runs play commands. It never writes the shared state.
type CliApp struct {
	net   Dispatcher
	state StateReader
}

// New creates a CliApp dispatching through net and reading state.
func New(net Dispatcher, state StateReader) *CliApp {
	return &CliApp{net: net, state: state}
}

// PlayURI plays or queues uri. Tracks are queued when queue is set, otherwise
// played on their own. Any other URI is played as a context; random picks a
// random start position for playlists. Failures are left in the state's
// LastError.
func (c *CliApp) PlayURI(ctx context.Context, uri string, queue, random bool) {
	normalized := spotify.NormalizeURI(uri)

	switch spotify.KindOf(normalized) {
	case spotify.KindTrack:
		if queue {
			c.net.Dispatch(ctx, network.AddItemToQueue{URI: normalized})
			return
		}
		offset := 0
		c.net.Dispatch(ctx, network.StartPlayback{
			TrackURIs: []spotifyLib.URI{normalized},
			Offset:    &offset,
		})
	default:
		c.net.Dispatch(ctx, network.StartPlayback{
			ContextURI:   &normalized,
			RandomOffset: random && spotify.KindOf(normalized) == spotify.KindPlaylist,
		})
	}
}

// Play searches for name and plays the first result of type item. When the
// search itself fails nothing is played and nil is returned; the failure is
// the state's LastError.
func (c *CliApp) Play(ctx context.Context, name string, item ItemType, queue, random bool) error {
	before := c.state.Snapshot().LastError
	c.net.Dispatch(ctx, network.GetSearchResults{Query: name})

	snap := c.state.Snapshot()
	// A failed search leaves older results in place; the error is left in
	// the state for the caller.
	if snap.LastError != nil && snap.LastError != before {
		return nil
	}
	if snap.SearchResults.Query != name {
		return nil
	}
	results := snap.SearchResults

	var uri spotifyLib.URI
	switch item {
	case Track:
		if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
			return &NotFoundError{Type: item, Query: name}
		}
		uri = results.Tracks.Tracks[0].URI
	case Album:
		if results.Albums == nil || len(results.Albums.Albums) == 0 {
			return &NotFoundError{Type: item, Query: name}
		}
		album := results.Albums.Albums[0]
		if album.URI == "" {
			return &MissingURIError{Name: album.Name}
		}
		uri = album.URI
	case Artist:
		if results.Artists == nil || len(results.Artists.Artists) == 0 {
			return &NotFoundError{Type: item, Query: name}
		}
		uri = results.Artists.Artists[0].URI
	case Show:
		if results.Shows == nil || len(results.Shows.Shows) == 0 {
			return &NotFoundError{Type: item, Query: name}
		}
		uri = results.Shows.Shows[0].URI
	case Playlist:
		if results.Playlists == nil || len(results.Playlists.Playlists) == 0 {
			return &NotFoundError{Type: item, Query: name}
		}
		uri = results.Playlists.Playlists[0].URI
	default:
		panic(fmt.Sprintf("cliapp: unsupported item type %v", item))
	}

	c.PlayURI(ctx, string(uri), queue, random)
	return nil
}
