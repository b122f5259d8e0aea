//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Spotify command-line player. Authenticates with Spotify and
// plays, queues or pauses tracks, albums, artists, shows and playlists on a
// Spotify Connect device, from the terminal or over a small HTTP API.
//

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cloudmanic/spt-play/cliapp"
	"github.com/cloudmanic/spt-play/network"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	device     string
	debug      bool
	logger     *log.Logger
}

// playOptions are the flags of the play command.
type playOptions struct {
	uri      string
	name     string
	itemType string
	queue    bool
	random   bool
	shuffle  bool
}

// main is the entry point for the application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree reading from in and writing to out.
func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "spt-play",
		Short: "Play Spotify from the command line",
		Long:  "spt-play searches Spotify and plays or queues the result on a Spotify Connect device.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.debug)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "client config file (default: <user config dir>/spt-play/client.yml)")
	root.PersistentFlags().StringVarP(&opts.device, "device", "d", "", "device name or ID to play on")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newPlayCmd(opts),
		newPauseCmd(opts),
		newDevicesCmd(opts),
		newStatusCmd(opts),
		newServeCmd(opts),
	)

	return root
}

// startSession loads config, logs in and prepares the device.
func startSession(cmd *cobra.Command, opts *rootOptions) (*session, error) {
	sess, err := newSession(opts.configPath, opts.device, opts.logger)
	if err != nil {
		return nil, err
	}

	user, err := sess.login(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	opts.logger.Debug("Authenticated", "user", user.DisplayName)

	sess.prepare(cmd.Context())
	return sess, nil
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	p := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play or queue a URI, or the first search result for a name",
		Example: `  spt-play play --uri spotify:playlist:37i9dQZF1DXcBWIGoYBM5M --random
  spt-play play --name "Anchor - Josh Garrels" --type track --queue`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if (p.uri == "") == (p.name == "") {
				return errors.New("exactly one of --uri or --name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := cliapp.ParseItemType(p.itemType)
			if err != nil {
				return err
			}

			sess, err := startSession(cmd, opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if p.uri != "" {
				sess.cli.PlayURI(ctx, p.uri, p.queue, p.random)
			} else if err := sess.cli.Play(ctx, p.name, item, p.queue, p.random); err != nil {
				return err
			}
			if err := sess.state.TakeError(); err != nil {
				return err
			}

			if p.shuffle {
				sess.net.Dispatch(ctx, network.SetShuffle{State: true})
				if err := sess.state.TakeError(); err != nil {
					opts.logger.Warn("Failed to enable shuffle", "err", err)
				}
			}

			target := deviceName(sess.state.Snapshot().Devices, sess.net.DeviceID())
			printResult(cmd.OutOrStdout(), p, target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&p.uri, "uri", "u", "", "Spotify URI or open.spotify.com link to play")
	cmd.Flags().StringVarP(&p.name, "name", "n", "", "name to search for")
	cmd.Flags().StringVarP(&p.itemType, "type", "t", "track", "type to search for: track, album, artist, show or playlist")
	cmd.Flags().BoolVarP(&p.queue, "queue", "q", false, "add the track to the queue instead of playing it")
	cmd.Flags().BoolVarP(&p.random, "random", "r", false, "start a playlist at a random track")
	cmd.Flags().BoolVarP(&p.shuffle, "shuffle", "s", false, "enable shuffle after playback starts")

	return cmd
}

func newPauseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause playback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := startSession(cmd, opts)
			if err != nil {
				return err
			}

			sess.net.Dispatch(cmd.Context(), network.PausePlayback{})
			if err := sess.state.TakeError(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Playback paused")
			return nil
		},
	}
}

func newDevicesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List available Spotify Connect devices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := startSession(cmd, opts)
			if err != nil {
				return err
			}

			printDevicesTable(cmd.OutOrStdout(), sess.state.Snapshot().Devices, sess.net.DeviceID())
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is currently playing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := startSession(cmd, opts)
			if err != nil {
				return err
			}

			printPlayback(cmd.OutOrStdout(), sess.state.Snapshot().PlaybackContext)
			return nil
		},
	}
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the remote-control HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(opts.configPath, opts.device, opts.logger)
			if err != nil {
				return err
			}
			if sess.cfg.APIAccessToken == "" {
				return errors.New("API_ACCESS_TOKEN is required to run the API server")
			}

			ctx := cmd.Context()
			if sess.resume(ctx) {
				sess.prepare(ctx)
			} else {
				opts.logger.Warn("Spotify not authenticated, visit /auth to authenticate")
			}

			return newAPIServer(ctx, sess).ListenAndServe(ctx, fmt.Sprintf(":%d", sess.cfg.Port))
		},
	}
}
