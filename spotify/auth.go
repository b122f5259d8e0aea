//
// Date: 2026-10-12
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Authentication logic for Spotify OAuth flow.
//

package spotify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	spotifyLib "github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

var (
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrMissingCode   = errors.New("authorization code missing from redirect")
)

// Scopes are the permissions requested from the Spotify account.
var Scopes = []string{
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserModifyPlaybackState,
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserReadPrivate,
	spotifyauth.ScopePlaylistReadPrivate,
	spotifyauth.ScopePlaylistReadCollaborative,
}

// Authenticator runs the authorization-code flow and builds API clients
// whose refreshed tokens are written back to the token file.
type Authenticator struct {
	config    *oauth2.Config
	tokenFile string
	logger    *log.Logger

	mu    sync.Mutex
	state string
}

// NewAuthenticator initializes the OAuth config from the client config.
func NewAuthenticator(cfg *ClientConfig, logger *log.Logger) *Authenticator {
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyauth.AuthURL,
				TokenURL: spotifyauth.TokenURL,
			},
		},
		tokenFile: cfg.TokenFile,
		logger:    logger,
	}
}

// AuthURL returns the Spotify authorization page URL with a fresh state nonce.
func (a *Authenticator) AuthURL() string {
	a.mu.Lock()
	a.state = uuid.New().String()
	state := a.state
	a.mu.Unlock()

	return a.config.AuthCodeURL(state)
}

// Exchange validates the redirect query and trades the code for a token,
// which is saved to the token file.
func (a *Authenticator) Exchange(ctx context.Context, query url.Values) (*oauth2.Token, error) {
	a.mu.Lock()
	state := a.state
	a.mu.Unlock()

	if state == "" || query.Get("state") != state {
		return nil, ErrStateMismatch
	}
	if e := query.Get("error"); e != "" {
		return nil, fmt.Errorf("authorization denied: %s", e)
	}

	code := query.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	if err := SaveToken(a.tokenFile, tok); err != nil {
		a.logger.Warn("Failed to save token", "err", err)
	}

	return tok, nil
}

// Client builds a Spotify API client for tok. The token is refreshed as it
// expires and every new token is persisted.
func (a *Authenticator) Client(ctx context.Context, tok *oauth2.Token) *spotifyLib.Client {
	src := NewPersistingTokenSource(a.config.TokenSource(ctx, tok), tok, a.tokenFile, a.logger)
	return spotifyLib.New(oauth2.NewClient(ctx, src))
}

// CachedToken returns the token saved by a previous session.
func (a *Authenticator) CachedToken() (*oauth2.Token, error) {
	return LoadToken(a.tokenFile)
}

// Authenticate returns a token, from the cache when possible, otherwise by
// running the browser flow. A local listener on addr captures the redirect;
// when it cannot bind, the user pastes the redirect URL into in.
func (a *Authenticator) Authenticate(ctx context.Context, addr string, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	if tok, err := a.CachedToken(); err == nil {
		return tok, nil
	}
	return a.Login(ctx, addr, in, out)
}

// Login always runs the browser flow, ignoring any cached token.
func (a *Authenticator) Login(ctx context.Context, addr string, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.logger.Warn("Starting redirect listener failed, continuing with manual authentication", "addr", addr, "err", err)
		return a.manualLogin(ctx, in, out)
	}

	type result struct {
		tok *oauth2.Token
		err error
	}
	results := make(chan result, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		tok, err := a.Exchange(r.Context(), r.URL.Query())
		if err != nil {
			http.Error(w, "Couldn't get token: "+err.Error(), http.StatusForbidden)
		} else {
			fmt.Fprint(w, "Authentication successful! You can close this window.")
		}
		select {
		case results <- result{tok, err}:
		default:
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		a.logger.Debug("Got request", "url", r.URL.String())
		http.NotFound(w, r)
	})

	srv := &http.Server{Handler: mux}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("Redirect listener stopped", "err", err)
		}
	}()
	defer srv.Close()

	fmt.Fprintln(out, "Please visit this URL to authenticate:")
	fmt.Fprintln(out, a.AuthURL())

	// Wait for auth to complete
	select {
	case res := <-results:
		return res.tok, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// manualLogin prints the authorization URL and reads the redirect URL back.
func (a *Authenticator) manualLogin(ctx context.Context, in io.Reader, out io.Writer) (*oauth2.Token, error) {
	fmt.Fprintln(out, "Please visit this URL to authenticate:")
	fmt.Fprintln(out, a.AuthURL())
	fmt.Fprintln(out, "Enter the URL you were redirected to: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read redirect URL: %w", err)
	}

	redirect, err := url.Parse(strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URL: %w", err)
	}

	return a.Exchange(ctx, redirect.Query())
}
