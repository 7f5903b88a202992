package session

import (
	"context"

	"github.com/fekuna/omnipos-terminal/internal/model"
)

// Manager owns the session: it signs in/out against the backend, mirrors
// the session into the local store, and continues from the last persisted
// session when offline.
type Manager interface {
	SignIn(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*model.Session, error)
	RefreshSession(ctx context.Context) (*model.Session, error)
}
