package session

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

// Backend is the credential/session service. Only called when reachable;
// the manager handles offline continuation from the cached session.
type Backend interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// GetSession validates accessToken and returns the live session, or
	// nil when the backend knows no session for it.
	GetSession(ctx context.Context, accessToken string) (*model.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*model.Session, error)
}
