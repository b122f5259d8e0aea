//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Spotify URI and open.spotify.com link handling.
//

package spotify

import (
	"strings"

	spotifyLib "github.com/zmb3/spotify/v2"
)

// URI kinds embedded in spotify:<kind>:<id> identifiers.
const (
	KindTrack    = "track"
	KindAlbum    = "album"
	KindArtist   = "artist"
	KindShow     = "show"
	KindPlaylist = "playlist"
	KindEpisode  = "episode"
)

// NormalizeURI turns an open.spotify.com link into a spotify:<kind>:<id> URI.
// Anything else is returned trimmed but otherwise unchanged.
func NormalizeURI(input string) spotifyLib.URI {
	input = strings.TrimSpace(input)

	// A full URL like https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=xxx
	if _, rest, ok := strings.Cut(input, "open.spotify.com/"); ok {
		// Remove any query parameters or fragment
		rest, _, _ = strings.Cut(rest, "?")
		rest, _, _ = strings.Cut(rest, "#")

		parts := strings.Split(strings.Trim(rest, "/"), "/")
		// Localized links carry a leading intl-xx segment
		if len(parts) > 2 && strings.HasPrefix(parts[0], "intl-") {
			parts = parts[1:]
		}
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			return spotifyLib.URI("spotify:" + parts[0] + ":" + parts[1])
		}
	}

	return spotifyLib.URI(input)
}

// ParseURI splits a spotify:<kind>:<id> URI. User playlist URIs of the form
// spotify:user:<user>:playlist:<id> are reported as playlists.
func ParseURI(uri spotifyLib.URI) (kind string, id spotifyLib.ID, ok bool) {
	parts := strings.Split(string(uri), ":")
	if len(parts) < 3 || parts[0] != "spotify" {
		return "", "", false
	}

	kind = parts[len(parts)-2]
	id = spotifyLib.ID(parts[len(parts)-1])
	if kind == "" || id == "" {
		return "", "", false
	}
	return kind, id, true
}

// KindOf returns the kind of uri, or "" when it is not a Spotify URI.
func KindOf(uri spotifyLib.URI) string {
	kind, _, _ := ParseURI(uri)
	return kind
}
