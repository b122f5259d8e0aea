//
// Date: 2026-10-12
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: OAuth token persistence and the refreshing token source.
//

package spotify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// SaveToken saves the OAuth token to a file for reuse in future sessions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}

// LoadToken loads a previously saved OAuth token from disk.
func LoadToken(path string) (*oauth2.Token, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var token oauth2.Token
	if err := json.NewDecoder(file).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}

// persistingTokenSource writes every new access token it hands out to disk,
// so a refresh made mid-session survives the process.
type persistingTokenSource struct {
	src    oauth2.TokenSource
	path   string
	logger *log.Logger

	mu     sync.Mutex
	access string
}

// NewPersistingTokenSource wraps src. initial is the token src started from;
// it is not rewritten unless src returns a different access token.
func NewPersistingTokenSource(src oauth2.TokenSource, initial *oauth2.Token, path string, logger *log.Logger) oauth2.TokenSource {
	s := &persistingTokenSource{src: src, path: path, logger: logger}
	if initial != nil {
		s.access = initial.AccessToken
	}
	return s
}

// Token returns the current token, saving it if it changed since last call.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}

	if tok.AccessToken != s.access {
		s.access = tok.AccessToken
		s.logger.Debug("Access token refreshed", "expiry", tok.Expiry)
		if err := SaveToken(s.path, tok); err != nil {
			s.logger.Warn("Failed to save refreshed token", "err", err)
		}
	}

	return tok, nil
}
