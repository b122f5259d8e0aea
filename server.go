//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: HTTP API server and request handlers.
//

package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cloudmanic/spt-play/cliapp"
	"github.com/cloudmanic/spt-play/network"
	"github.com/cloudmanic/spt-play/spotify"
)

// apiServer exposes the session's commands over HTTP. Commands run one at a
// time so each one reads back the state its own dispatches wrote.
type apiServer struct {
	sess *session
	// base outlives requests; clients built in /callback refresh with it.
	base context.Context

	mu sync.Mutex
}

func newAPIServer(base context.Context, sess *session) *apiServer {
	return &apiServer{sess: sess, base: base}
}

// loggingResponseWriter wraps http.ResponseWriter to capture the status code.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it.
func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware wraps an http.Handler and logs each request.
func (s *apiServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap the response writer to capture status code
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		s.sess.logger.Info("Request", "method", r.Method, "path", r.URL.Path, "status", lrw.statusCode, "duration", time.Since(start))
	})
}

// Handler returns the routed, logged API handler.
func (s *apiServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/auth", s.handleAuth)
	mux.HandleFunc("/callback", s.handleCallback)
	mux.HandleFunc("/api/v1/play", s.handlePlay)
	mux.HandleFunc("/api/v1/pause", s.handlePause)
	mux.HandleFunc("/api/v1/devices", s.handleDevices)

	return s.loggingMiddleware(mux)
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *apiServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.sess.logger.Info("Starting API server", "addr", addr)
	s.sess.logger.Info("Endpoints",
		"play", "GET /api/v1/play?uri=<uri>|name=<name>&type=<type>&queue=<bool>&random=<bool>",
		"pause", "GET /api/v1/pause",
		"devices", "GET /api/v1/devices",
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start API server: %w", err)
	}
	return nil
}

// authorized checks the access token from the query or a Bearer header.
func (s *apiServer) authorized(r *http.Request) bool {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}

	want := s.sess.cfg.APIAccessToken
	return want != "" && subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
}

// writeJSON writes an APIResponse with the given status.
func writeJSON(w http.ResponseWriter, status int, resp spotify.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, spotify.APIResponse{Success: false, Error: msg})
}

// handleRoot handles requests to the root path with a simple message.
func (s *apiServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "spt-play remote control")
}

// handleAuth redirects the user to Spotify's authorization page.
// Requires the API access token for security.
func (s *apiServer) handleAuth(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		http.Error(w, "Unauthorized: Invalid or missing access token", http.StatusUnauthorized)
		return
	}

	http.Redirect(w, r, s.sess.auth.AuthURL(), http.StatusTemporaryRedirect)
}

// handleCallback handles the OAuth callback from Spotify after user authorization.
func (s *apiServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	tok, err := s.sess.auth.Exchange(r.Context(), r.URL.Query())
	if err != nil {
		http.Error(w, "Failed to get token: "+err.Error(), http.StatusForbidden)
		return
	}

	s.mu.Lock()
	s.sess.useToken(s.base, tok)
	s.sess.prepare(r.Context())
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "Authentication successful! You can close this window.")
}

// handlePlay handles /api/v1/play, by URI or by searching for a name.
func (s *apiServer) handlePlay(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Invalid or missing access token")
		return
	}

	q := r.URL.Query()
	uri := q.Get("uri")
	name := q.Get("name")
	queue := strings.EqualFold(q.Get("queue"), "true")
	random := strings.EqualFold(q.Get("random"), "true")

	if (uri == "") == (name == "") {
		writeError(w, http.StatusBadRequest, "exactly one of uri or name is required")
		return
	}

	itemType := q.Get("type")
	if itemType == "" {
		itemType = "track"
	}
	item, err := cliapp.ParseItemType(itemType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if uri != "" {
		s.sess.cli.PlayURI(r.Context(), uri, queue, random)
	} else if err := s.sess.cli.Play(r.Context(), name, item, queue, random); err != nil {
		if stateErr := s.sess.state.TakeError(); stateErr != nil {
			writeError(w, commandErrorStatus(stateErr), stateErr.Error())
			return
		}
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	if err := s.sess.state.TakeError(); err != nil {
		writeError(w, commandErrorStatus(err), err.Error())
		return
	}

	msg := "Now playing"
	if queue {
		msg = "Added to queue"
	}
	if uri != "" {
		msg += " " + uri
	} else {
		msg += fmt.Sprintf(" %s \"%s\"", item, name)
	}

	writeJSON(w, http.StatusOK, spotify.APIResponse{Success: true, Message: msg})
}

// handlePause handles the /api/v1/pause endpoint to pause playback.
func (s *apiServer) handlePause(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Invalid or missing access token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.net.Dispatch(r.Context(), network.PausePlayback{})
	if err := s.sess.state.TakeError(); err != nil {
		writeError(w, commandErrorStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, spotify.APIResponse{Success: true, Message: "Playback paused"})
}

// handleDevices refreshes and returns the device list.
func (s *apiServer) handleDevices(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Invalid or missing access token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.net.Dispatch(r.Context(), network.GetDevices{})
	if err := s.sess.state.TakeError(); err != nil {
		writeError(w, commandErrorStatus(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sess.state.Snapshot().Devices)
}

// commandErrorStatus maps an error recorded by the dispatcher to a status.
func commandErrorStatus(err error) int {
	var apiErr *network.APIError
	switch {
	case errors.Is(err, network.ErrNoClient):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
