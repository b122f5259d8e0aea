//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Logger setup and terminal output for devices, playback status
// and command results.
//

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/zmb3/spotify/v2"
)

// newLogger creates a logger writing to w with timestamps.
func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "spt-play",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger
}

// printResult reports what a successful play command did.
func printResult(w io.Writer, p *playOptions, device string) {
	green := color.New(color.FgGreen, color.Bold)

	what := p.uri
	if what == "" {
		what = fmt.Sprintf("%s \"%s\"", p.itemType, p.name)
	}

	switch {
	case p.queue:
		green.Fprintf(w, "Added %s to the queue\n", what)
	case device != "":
		green.Fprintf(w, "Now playing %s on %s\n", what, device)
	default:
		green.Fprintf(w, "Now playing %s\n", what)
	}
}

// printDevicesTable displays available Spotify devices in a formatted table
// with colors to indicate active status and the selected device.
func printDevicesTable(w io.Writer, devices []spotify.PlayerDevice, selected string) {
	green := color.New(color.FgGreen, color.Bold)
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(w)
	cyan.Fprintln(w, "🎵 Available Spotify Connect Devices")
	fmt.Fprintln(w)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Name", "Type", "Status", "Device ID"})

	for i, device := range devices {
		status := "Inactive"
		if device.Active {
			status = color.GreenString("● Active")
		}

		name := color.New(color.Bold).Sprint(device.Name)
		if string(device.ID) == selected {
			name += color.CyanString(" (selected)")
		}

		t.AppendRow(table.Row{
			i + 1,
			name,
			device.Type,
			status,
			color.HiBlackString(string(device.ID)),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()

	fmt.Fprintln(w)
	green.Fprintf(w, "Total devices: %d\n", len(devices))
}

// printPlayback displays the current playback state.
func printPlayback(w io.Writer, state *spotify.PlayerState) {
	if state == nil || state.Item == nil {
		color.New(color.FgYellow).Fprintln(w, "Nothing is playing")
		return
	}

	artists := make([]string, 0, len(state.Item.Artists))
	for _, artist := range state.Item.Artists {
		artists = append(artists, artist.Name)
	}

	status := "Paused"
	if state.Playing {
		status = color.GreenString("▶ Playing")
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Track", color.New(color.Bold).Sprint(state.Item.Name)},
		{"Artist", strings.Join(artists, ", ")},
		{"Album", state.Item.Album.Name},
		{"Status", status},
		{"Device", state.Device.Name},
		{"Shuffle", state.ShuffleState},
		{"Repeat", state.RepeatState},
		{"Context", color.HiBlackString(string(state.PlaybackContext.URI))},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
