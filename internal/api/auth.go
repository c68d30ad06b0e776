package api

import (
	"context"
	"fmt"
	"net/http"
)

// AuthClient covers registration, login, and the current-user profile.
type AuthClient struct {
	c *Client
}

// Register creates a new account. It does not log the user in; callers
// normally follow up with Login using the same credentials.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/register", req, &user); err != nil {
		return nil, fmt.Errorf("auth.Register: %w", err)
	}
	return &user, nil
}

// Login exchanges credentials for a token pair and stores it.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*Token, error) {
	var token Token
	body := map[string]string{"email": email, "password": password}
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/login", body, &token); err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := a.c.SetTokens(token.AccessToken, token.RefreshToken); err != nil {
		return nil, fmt.Errorf("auth.Login: store tokens: %w", err)
	}
	return &token, nil
}

// CurrentUser fetches the authenticated user's profile.
func (a *AuthClient) CurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := a.c.get(ctx, "/api/auth/me", &user); err != nil {
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}
	return &user, nil
}

// UpdateCurrentUser edits profile fields and returns the updated profile.
func (a *AuthClient) UpdateCurrentUser(ctx context.Context, update UserUpdate) (*User, error) {
	var user User
	if err := a.c.do(ctx, http.MethodPut, "/api/auth/me", update, &user); err != nil {
		return nil, fmt.Errorf("auth.UpdateCurrentUser: %w", err)
	}
	return &user, nil
}

// VerifyEmail submits a verification code.
func (a *AuthClient) VerifyEmail(ctx context.Context, code string) (*VerifyEmailResponse, error) {
	var out VerifyEmailResponse
	body := map[string]string{"code": code}
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/verify-email", body, &out); err != nil {
		return nil, fmt.Errorf("auth.VerifyEmail: %w", err)
	}
	return &out, nil
}

// ResendVerification requests a fresh verification email.
func (a *AuthClient) ResendVerification(ctx context.Context) (*ResendVerificationResponse, error) {
	var out ResendVerificationResponse
	if err := a.c.do(ctx, http.MethodPost, "/api/auth/resend-verification", nil, &out); err != nil {
		return nil, fmt.Errorf("auth.ResendVerification: %w", err)
	}
	return &out, nil
}
