//
// Date: 2026-10-13
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Dispatcher that turns intents into Spotify API calls and
// records the outcome in the shared application state.
//

package network

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"
	spotifyLib "github.com/zmb3/spotify/v2"

	"github.com/cloudmanic/spt-play/app"
	"github.com/cloudmanic/spt-play/spotify"
)

// DefaultSearchLimit is the number of results requested per category.
const DefaultSearchLimit = 20

// searchTypes are the categories requested by GetSearchResults.
const searchTypes = spotifyLib.SearchTypeTrack |
	spotifyLib.SearchTypeAlbum |
	spotifyLib.SearchTypeArtist |
	spotifyLib.SearchTypeShow |
	spotifyLib.SearchTypePlaylist

// Network is the only component that talks to the Spotify client. Dispatches
// run one at a time; the state lock is only taken after a call returns.
type Network struct {
	mu          sync.Mutex
	client      spotify.Client
	deviceID    string
	market      string
	searchLimit int

	app    *app.App
	logger *log.Logger
	intn   func(n int) int
}

// Option configures a Network.
type Option func(*Network)

// WithDeviceID sets the device playback calls are sent to.
func WithDeviceID(id string) Option {
	return func(n *Network) { n.deviceID = id }
}

// WithMarket sets the default search market.
func WithMarket(market string) Option {
	return func(n *Network) { n.market = market }
}

// WithSearchLimit sets the number of results requested per category.
func WithSearchLimit(limit int) Option {
	return func(n *Network) { n.searchLimit = limit }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(n *Network) { n.logger = logger }
}

// WithRandom replaces the source of random playlist offsets. intn must
// return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(n *Network) { n.intn = intn }
}

// New creates a dispatcher writing into state. client may be nil until
// authentication completes; dispatches then record ErrNoClient.
func New(client spotify.Client, state *app.App, opts ...Option) *Network {
	n := &Network{
		client:      client,
		app:         state,
		searchLimit: DefaultSearchLimit,
		logger:      log.Default(),
		intn:        rand.IntN,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// App returns the state the dispatcher writes into.
func (n *Network) App() *app.App {
	return n.app
}

// SetClient swaps the API client, waiting for any in-flight dispatch.
func (n *Network) SetClient(client spotify.Client) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.client = client
}

// SetDeviceID changes the device playback calls are sent to.
func (n *Network) SetDeviceID(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deviceID = id
}

// DeviceID returns the device playback calls are sent to.
func (n *Network) DeviceID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.deviceID
}

// Dispatch performs intent and returns once its outcome is in the state.
// Failures are recorded as the state's LastError, never returned.
func (n *Network) Dispatch(ctx context.Context, intent Intent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.logger.Debug("Dispatching", "intent", fmt.Sprintf("%T", intent))

	if n.client == nil {
		n.app.HandleError(ErrNoClient)
		return
	}

	intent.accept(ctx, n)
}

// fail records a failed API call.
func (n *Network) fail(op string, err error) {
	n.logger.Debug("Spotify call failed", "op", op, "err", err)
	n.app.HandleError(&APIError{Op: op, Err: err})
}

// playOptions targets the configured device, if any.
func (n *Network) playOptions() *spotifyLib.PlayOptions {
	opts := &spotifyLib.PlayOptions{}
	if n.deviceID != "" {
		id := spotifyLib.ID(n.deviceID)
		opts.DeviceID = &id
	}
	return opts
}

func (n *Network) startPlayback(ctx context.Context, i StartPlayback) {
	offset := i.Offset

	if i.RandomOffset {
		var ok bool
		offset, ok = n.randomOffset(ctx, i.ContextURI)
		if !ok {
			return
		}
	}

	opts := n.playOptions()
	opts.PlaybackContext = i.ContextURI
	opts.URIs = i.TrackURIs
	if offset != nil {
		opts.PlaybackOffset = &spotifyLib.PlaybackOffset{Position: offset}
	}

	if err := n.client.PlayOpt(ctx, opts); err != nil {
		n.fail("start playback", err)
	}
}

// randomOffset picks a start position in [0, total) for a playlist context.
// Other contexts get no offset. ok is false when the error has been recorded
// and the intent must stop.
func (n *Network) randomOffset(ctx context.Context, uri *spotifyLib.URI) (offset *int, ok bool) {
	if uri == nil {
		return nil, true
	}

	kind, id, valid := spotify.ParseURI(*uri)
	if !valid || kind != spotify.KindPlaylist {
		return nil, true
	}

	playlist, err := n.client.GetPlaylist(ctx, id, spotifyLib.Fields("tracks.total"))
	if err != nil {
		n.fail("get playlist", err)
		return nil, false
	}
	if playlist == nil {
		n.fail("get playlist", ErrEmptyResponse)
		return nil, false
	}

	total := int(playlist.Tracks.Total)
	if total <= 0 {
		n.app.HandleError(fmt.Errorf("%w: %s", ErrEmptyPlaylist, id))
		return nil, false
	}

	pos := n.intn(total)
	return &pos, true
}

func (n *Network) addItemToQueue(ctx context.Context, i AddItemToQueue) {
	kind, id, ok := spotify.ParseURI(i.URI)
	if !ok || kind != spotify.KindTrack {
		n.app.HandleError(fmt.Errorf("%w: %s", ErrInvalidTrackURI, i.URI))
		return
	}

	if err := n.client.QueueSongOpt(ctx, id, n.playOptions()); err != nil {
		n.fail("add item to queue", err)
	}
}

func (n *Network) getSearchResults(ctx context.Context, i GetSearchResults) {
	opts := []spotifyLib.RequestOption{spotifyLib.Limit(n.searchLimit)}

	market := i.Market
	if market == "" {
		market = n.market
	}
	if market != "" {
		opts = append(opts, spotifyLib.Market(market))
	}

	result, err := n.client.Search(ctx, i.Query, searchTypes, opts...)
	if err != nil {
		n.fail("search", err)
		return
	}
	if result == nil {
		n.fail("search", ErrEmptyResponse)
		return
	}

	n.app.Update(func(s *app.State) {
		s.SearchResults = app.SearchResults{
			Query:     i.Query,
			Tracks:    result.Tracks,
			Albums:    result.Albums,
			Artists:   result.Artists,
			Shows:     result.Shows,
			Playlists: result.Playlists,
		}
	})
}

func (n *Network) getDevices(ctx context.Context, _ GetDevices) {
	devices, err := n.client.PlayerDevices(ctx)
	if err != nil {
		n.fail("get devices", err)
		return
	}
	if devices == nil {
		devices = []spotifyLib.PlayerDevice{}
	}

	n.app.Update(func(s *app.State) {
		s.Devices = devices
	})
}

func (n *Network) getCurrentPlayback(ctx context.Context, _ GetCurrentPlayback) {
	playback, err := n.client.PlayerState(ctx)
	if err != nil {
		n.fail("get current playback", err)
		return
	}

	n.app.Update(func(s *app.State) {
		s.PlaybackContext = playback
	})
}

func (n *Network) pausePlayback(ctx context.Context, _ PausePlayback) {
	if err := n.client.PauseOpt(ctx, n.playOptions()); err != nil {
		n.fail("pause playback", err)
	}
}

func (n *Network) setShuffle(ctx context.Context, i SetShuffle) {
	if err := n.client.ShuffleOpt(ctx, i.State, n.playOptions()); err != nil {
		n.fail("set shuffle", err)
	}
}
