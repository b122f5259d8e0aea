//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Errors recorded in the shared state by the dispatcher.
//

package network

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPlaylist   = errors.New("playlist has no tracks")
	ErrEmptyResponse   = errors.New("empty response from Spotify")
	ErrInvalidTrackURI = errors.New("not a track URI")
	ErrNoClient        = errors.New("spotify not authenticated")
)

// APIError is a failed call to the Spotify Web API.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}
