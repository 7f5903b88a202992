package model

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Session is the opaque credential bundle returned by the auth backend.
// It is superseded wholesale on sign-in/refresh and cleared wholesale on
// sign-out; the User payload is never interpreted by this client.
type Session struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	TokenType    string          `json:"token_type"`
	ExpiresIn    int             `json:"expires_in"`
	User         json.RawMessage `json:"user"`
}

// Expired reads the access token's exp claim without verifying the
// signature; verification belongs to the backend. A token that cannot be
// parsed is treated as expired so the caller attempts a refresh.
func (s *Session) Expired() bool {
	if s.AccessToken == "" {
		return true
	}
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.AccessToken, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
