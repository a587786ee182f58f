package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the signed-in user attached to a session.
type Identity struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the caller resolved from a bearer token.
type Session struct {
	ID       string
	Identity *Identity
}

// Authenticated reports whether an identity is attached.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil
}

// SessionClaims is the JWT payload of a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionToken is returned whenever a session is issued or renewed.
type SessionToken struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Identity  *Identity `json:"identity,omitempty"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
