package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultTokenPath = "~/.config/syna/tokens.toml"

// TokenStore holds the access/refresh token pair in memory, mirrored to a
// durable TOML file so sessions survive restarts. All mutation goes through
// SetTokens/setAccessToken/Clear; resource clients never touch it directly.
type TokenStore struct {
	mu      sync.Mutex
	path    string
	access  string
	refresh string
}

// tokenFile is the on-disk shape of the token store.
type tokenFile struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
}

// NewTokenStore creates a store backed by the given file path. An empty path
// uses the default ~/.config/syna/tokens.toml.
func NewTokenStore(path string) (*TokenStore, error) {
	resolved, err := resolveTokenPath(path)
	if err != nil {
		return nil, err
	}
	return &TokenStore{path: resolved}, nil
}

// Load reads tokens from durable storage. A missing file is not an error;
// the store simply starts anonymous.
func (s *TokenStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read tokens: %w", err)
	}

	var file tokenFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse tokens: %w", err)
	}
	s.access = file.AccessToken
	s.refresh = file.RefreshToken
	return nil
}

// SetTokens atomically updates both tokens in memory and on disk.
func (s *TokenStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return s.persistLocked()
}

// setAccessToken replaces only the access token; used by the refresh flow,
// which leaves the refresh token unchanged.
func (s *TokenStore) setAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return s.persistLocked()
}

// Clear removes both tokens from memory and durable storage. Idempotent.
func (s *TokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// AccessToken returns the currently held access token, or "".
func (s *TokenStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access
}

// RefreshToken returns the currently held refresh token, or "".
func (s *TokenStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// IsAuthenticated reports whether an access token is held. It does not
// validate expiry; validity is determined lazily by the next response code.
func (s *TokenStore) IsAuthenticated() bool {
	return s.AccessToken() != ""
}

func (s *TokenStore) persistLocked() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := toml.Marshal(tokenFile{AccessToken: s.access, RefreshToken: s.refresh})
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}
	// 0600: the file holds live credentials.
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write tokens: %w", err)
	}
	return nil
}

func resolveTokenPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultTokenPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
