package utils

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"go-storefront/models"
)

// Claims represents the access token claims the storefront cares about.
// The backend puts the email in sub and the role in role.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.StandardClaims
}

// DecodeClaims reads the claims of an access token without checking its signature.
// The backend is the only party that can verify it; the storefront only needs the
// identity to decide what to show.
func DecodeClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("empty token")
	}
	claims := &Claims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, errors.Wrap(err, "decode access token")
	}
	if claims.Subject == "" && claims.Email == "" {
		return nil, errors.New("access token has no subject")
	}
	return claims, nil
}

// User maps the claims to the identity stored in a session
func (c *Claims) User() models.User {
	email := c.Email
	if email == "" {
		email = c.Subject
	}
	return models.User{
		UserID: email,
		Email:  email,
		Role:   models.ParseRole(c.Role),
	}
}

// Expired reports whether exp is set and in the past
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt != 0 && now.Unix() > c.ExpiresAt
}
