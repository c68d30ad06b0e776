package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/kjartanf/syna/internal/api"
)

// Session owns the authenticated user's state. Tokens live in the API
// client's store; Session caches only the profile. Invariant: a non-nil user
// implies an access token is held (the reverse is permitted transiently
// while a refresh settles).
type Session struct {
	client *api.Client

	mu   sync.Mutex
	user *api.User

	changeMu sync.Mutex
	changes  []chan struct{}
}

// New creates a Session over client. Call Watch to wire the logout broadcast
// and Init to restore a persisted session.
func New(client *api.Client) *Session {
	return &Session{client: client}
}

// Watch subscribes to the client's logout broadcast until ctx is cancelled.
// A broadcast means the tokens are already gone, so the cached user is
// cleared unconditionally.
func (s *Session) Watch(ctx context.Context) {
	logouts := s.client.LogoutNotifications()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-logouts:
				s.setUser(nil)
			}
		}
	}()
}

// Init restores the session from durable tokens. When the stored token is
// rejected, tokens are cleared so no dangling invalid credential survives;
// the session simply starts anonymous and Init reports no error.
func (s *Session) Init(ctx context.Context) error {
	if !s.client.IsAuthenticated() {
		return nil
	}
	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil {
		if clearErr := s.client.ClearTokens(); clearErr != nil {
			return fmt.Errorf("clear stale tokens: %w", clearErr)
		}
		return nil
	}
	s.setUser(user)
	return nil
}

// Login authenticates, stores tokens, and caches the profile. The profile is
// returned so the caller can decide post-authentication navigation.
func (s *Session) Login(ctx context.Context, email, password string) (*api.User, error) {
	if _, err := s.client.Auth.Login(ctx, email, password); err != nil {
		return nil, err
	}
	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	return user, nil
}

// Register creates an account, then logs in with the same credentials.
func (s *Session) Register(ctx context.Context, email, password, kennitala string) (*api.User, error) {
	req := api.RegisterRequest{
		Email:     email,
		Password:  password,
		Kennitala: kennitala,
	}
	if _, err := s.client.Auth.Register(ctx, req); err != nil {
		return nil, err
	}
	return s.Login(ctx, email, password)
}

// Logout clears tokens and the cached user. Safe to call when anonymous.
func (s *Session) Logout() error {
	err := s.client.ClearTokens()
	s.setUser(nil)
	return err
}

// RefreshUser re-fetches the profile when authenticated; used after profile
// edits so the cache reflects server-confirmed state.
func (s *Session) RefreshUser(ctx context.Context) (*api.User, error) {
	if !s.client.IsAuthenticated() {
		return nil, nil
	}
	user, err := s.client.Auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.setUser(user)
	return user, nil
}

// VerifyEmail submits a verification code and reports whether the account is
// now verified.
func (s *Session) VerifyEmail(ctx context.Context, code string) (bool, error) {
	resp, err := s.client.Auth.VerifyEmail(ctx, code)
	if err != nil {
		return false, err
	}
	return resp.IsVerified, nil
}

// ResendVerification requests a fresh verification email.
func (s *Session) ResendVerification(ctx context.Context) error {
	_, err := s.client.Auth.ResendVerification(ctx)
	return err
}

// User returns the cached profile, or nil when anonymous.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// LoggedIn reports whether a user profile is cached.
func (s *Session) LoggedIn() bool {
	return s.User() != nil
}

// Changes returns a channel that receives a value whenever the cached user
// changes. The channel is buffered; a slow receiver coalesces signals.
func (s *Session) Changes() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.changeMu.Lock()
	s.changes = append(s.changes, ch)
	s.changeMu.Unlock()
	return ch
}

func (s *Session) setUser(user *api.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.changeMu.Lock()
	defer s.changeMu.Unlock()
	for _, ch := range s.changes {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
