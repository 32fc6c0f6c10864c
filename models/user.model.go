package models

import "strings"

// Role is the account role carried in the access token
type Role string

const (
	RoleBuyer  Role = "USER"
	RoleSeller Role = "SELLER"
)

// ParseRole normalizes a role claim. Anything that is not a seller is a buyer.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleSeller)) {
		return RoleSeller
	}
	return RoleBuyer
}

// IsSeller reports whether the role is the seller role
func (r Role) IsSeller() bool {
	return r == RoleSeller
}

// Credentials is the login form
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the registration form
type Profile struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// TokenPair is returned by login and refresh
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// User is the identity decoded from the access token
type User struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

// Session represents the signed-in browser: who it is and the tokens it holds
type Session struct {
	User
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}
