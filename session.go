//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Session bootstrap: config, authentication, shared state,
// dispatcher and device selection.
//

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/charmbracelet/log"
	spotifyLib "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/cloudmanic/spt-play/app"
	"github.com/cloudmanic/spt-play/cliapp"
	"github.com/cloudmanic/spt-play/network"
	"github.com/cloudmanic/spt-play/spotify"
)

// session holds everything one process needs to run commands.
type session struct {
	cfg    *spotify.ClientConfig
	auth   *spotify.Authenticator
	state  *app.App
	net    *network.Network
	cli    *cliapp.CliApp
	logger *log.Logger

	// device is a name or id from the command line; it wins over the config.
	device string
}

// newSession loads the config and builds an unauthenticated session.
func newSession(configPath, device string, logger *log.Logger) (*session, error) {
	if configPath == "" {
		var err error
		configPath, err = spotify.DefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := spotify.LoadClientConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	state := app.New()
	netw := network.New(nil, state,
		network.WithDeviceID(cfg.DeviceID),
		network.WithMarket(cfg.Market),
		network.WithLogger(logger),
	)

	return &session{
		cfg:    cfg,
		auth:   spotify.NewAuthenticator(cfg, logger),
		state:  state,
		net:    netw,
		cli:    cliapp.New(netw, state),
		logger: logger,
		device: device,
	}, nil
}

// redirectAddr is the listen address for the OAuth redirect.
func (s *session) redirectAddr() string {
	return net.JoinHostPort("127.0.0.1", strconv.Itoa(s.cfg.Port))
}

// login authenticates interactively (or from the token cache), verifies the
// token with a user lookup, and installs the client. A rejected cached token
// triggers one fresh login.
func (s *session) login(ctx context.Context, in io.Reader, out io.Writer) (*spotifyLib.PrivateUser, error) {
	tok, err := s.auth.Authenticate(ctx, s.redirectAddr(), in, out)
	if err != nil {
		return nil, fmt.Errorf("spotify auth failed: %w", err)
	}

	client := s.auth.Client(ctx, tok)
	user, err := client.CurrentUser(ctx)
	if err != nil {
		s.logger.Warn("Token may be expired, re-authenticating", "err", err)

		tok, err = s.auth.Login(ctx, s.redirectAddr(), in, out)
		if err != nil {
			return nil, fmt.Errorf("spotify auth failed: %w", err)
		}
		client = s.auth.Client(ctx, tok)
		user, err = client.CurrentUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get user info: %w", err)
		}
	}

	s.useClient(client)
	return user, nil
}

// resume installs a client from the token cache without prompting. It
// reports false when there is no cached token.
func (s *session) resume(ctx context.Context) bool {
	tok, err := s.auth.CachedToken()
	if err != nil {
		return false
	}
	s.useToken(ctx, tok)
	return true
}

// useToken installs a client for tok.
func (s *session) useToken(ctx context.Context, tok *oauth2.Token) {
	s.useClient(s.auth.Client(ctx, tok))
}

func (s *session) useClient(client spotify.Client) {
	s.net.SetClient(spotify.NewThrottledClient(client, s.cfg.RateLimit))
}

// prepare loads devices and playback, then picks the device playback
// commands target.
func (s *session) prepare(ctx context.Context) {
	s.net.Dispatch(ctx, network.GetDevices{})
	s.net.Dispatch(ctx, network.GetCurrentPlayback{})

	if err := s.state.TakeError(); err != nil {
		s.logger.Warn("Failed to load player state", "err", err)
	}

	want := s.device
	if want == "" {
		want = s.cfg.DeviceID
	}

	devices := s.state.Snapshot().Devices
	id := selectDevice(devices, want)
	switch {
	case id == "":
		s.logger.Warn("No Spotify Connect devices found, playback will target the active device")
	case want != "" && !hasDevice(devices, want):
		s.logger.Warn("Device not found, using first available device", "device", want, "using", deviceName(devices, id))
	}

	s.net.SetDeviceID(id)

	// A --device override applies to this run only.
	if s.device == "" && id != "" && id != s.cfg.DeviceID {
		if err := s.cfg.SetDeviceID(id); err != nil {
			s.logger.Warn("Failed to save device", "err", err)
		}
	}
}

// selectDevice returns the id of the device matching want by id or name.
// Otherwise it falls back to the first listed device. With no devices listed
// want is kept as-is, which may be empty: playback calls then carry no device.
func selectDevice(devices []spotifyLib.PlayerDevice, want string) string {
	if len(devices) == 0 {
		return want
	}

	for _, device := range devices {
		if want != "" && (string(device.ID) == want || device.Name == want) {
			return string(device.ID)
		}
	}

	return string(devices[0].ID)
}

// hasDevice reports whether want names a listed device by id or name.
func hasDevice(devices []spotifyLib.PlayerDevice, want string) bool {
	for _, device := range devices {
		if string(device.ID) == want || device.Name == want {
			return true
		}
	}
	return false
}

// deviceName returns the name of the device with id, or id itself.
func deviceName(devices []spotifyLib.PlayerDevice, id string) string {
	for _, device := range devices {
		if string(device.ID) == id {
			return device.Name
		}
	}
	return id
}
