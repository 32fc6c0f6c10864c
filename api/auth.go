package api

import (
	"context"
	"net/http"
	"net/url"

	"go-storefront/models"
)

// AuthAPI wraps /auth. It is meant to run on an unbound client so a failed
// login never triggers a token refresh.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Register creates an account. It does not sign the user in.
func (a *AuthAPI) Register(ctx context.Context, p models.Profile) error {
	var msg string
	return a.c.Do(ctx, http.MethodPost, "/auth/register", nil, p, &msg)
}

// Login exchanges credentials for a token pair
func (a *AuthAPI) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair
	err := a.c.Do(ctx, http.MethodPost, "/auth/login", nil, creds, &pair)
	return pair, err
}

// Refresh exchanges a refresh token for a new pair
func (a *AuthAPI) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	return a.c.exchangeRefreshToken(ctx, refreshToken)
}

// Logout revokes the refresh token server-side
func (a *AuthAPI) Logout(ctx context.Context, refreshToken string) error {
	var msg string
	return a.c.Do(ctx, http.MethodPost, "/auth/logout", url.Values{"refreshToken": {refreshToken}}, nil, &msg)
}
