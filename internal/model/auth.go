package model

import "time"

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_2"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type LoginResponse struct {
	Access  string   `json:"access"`
	Refresh string   `json:"refresh"`
	User    UserInfo `json:"user"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair is what a successful login hands back to the client.
type TokenPair struct {
	Access  string
	Refresh string
}

// AuthUser is the identity resolved from a verified access token.
type AuthUser struct {
	ID       int64
	Username string
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is a ledger entry keyed by the token's jti claim.
// Revoked entries are kept so that revocation stays idempotent.
type RefreshToken struct {
	TokenID   string
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
	Revoked   bool
}
