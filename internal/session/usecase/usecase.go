package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/internal/connectivity"
	"github.com/fekuna/omnipos-terminal/internal/localstore"
	"github.com/fekuna/omnipos-terminal/internal/model"
	"github.com/fekuna/omnipos-terminal/internal/session"
	"github.com/fekuna/omnipos-terminal/pkg/apperror"
	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type sessionManager struct {
	backend session.Backend
	store   *localstore.Store
	probe   connectivity.Probe
	logger  logger.Logger
}

func NewSessionManager(backend session.Backend, store *localstore.Store, probe connectivity.Probe, log logger.Logger) session.Manager {
	return &sessionManager{
		backend: backend,
		store:   store,
		probe:   probe,
		logger:  log,
	}
}

// SignIn authenticates remotely and persists the session. If the attempt
// fails while offline, the last persisted session continues a prior
// authenticated state instead of surfacing the error.
func (m *sessionManager) SignIn(ctx context.Context, email, password string) (*model.Session, error) {
	if email == "" || password == "" {
		return nil, apperror.Validation("credentials", "email and password are required")
	}

	s, err := m.backend.SignIn(ctx, email, password)
	if err == nil {
		m.persist(s)
		return s, nil
	}

	if !m.probe.IsOnline(ctx) {
		if cached := m.cached(); cached != nil {
			m.logger.Warn("sign-in unreachable, continuing with cached session", zap.Error(err))
			return cached, nil
		}
		return nil, apperror.ErrNetworkUnavailable
	}
	return nil, apperror.Remote("sign in", err)
}

// SignOut clears the local session unconditionally; the remote sign-out is
// best effort.
func (m *sessionManager) SignOut(ctx context.Context) error {
	if cached := m.cached(); cached != nil && m.probe.IsOnline(ctx) {
		if err := m.backend.SignOut(ctx, cached.AccessToken); err != nil {
			m.logger.Warn("remote sign-out failed, clearing local session anyway", zap.Error(err))
		}
	}

	if err := m.store.Remove(localstore.KeySession); err != nil {
		return err
	}
	return m.store.Remove(localstore.KeyAuthToken)
}

// GetSession prefers a live remote session and mirrors it into the cache.
// The cached session is the fallback, but only connectivity being down
// turns a remote error into that fallback; an online error with no session
// means no session.
func (m *sessionManager) GetSession(ctx context.Context) (*model.Session, error) {
	cached := m.cached()

	if !m.probe.IsOnline(ctx) {
		return cached, nil
	}

	if cached == nil {
		return nil, nil
	}
	if cached.Expired() {
		return m.RefreshSession(ctx)
	}

	s, err := m.backend.GetSession(ctx, cached.AccessToken)
	if err != nil {
		if !m.probe.IsOnline(ctx) {
			return cached, nil
		}
		m.logger.Warn("session lookup failed while online, treating as no session", zap.Error(err))
		return nil, nil
	}
	if s == nil {
		return nil, nil
	}
	if s.RefreshToken == "" {
		s.RefreshToken = cached.RefreshToken
	}
	m.persist(s)
	return s, nil
}

// RefreshSession is best effort: any failure falls back to the cached
// session without surfacing the error.
func (m *sessionManager) RefreshSession(ctx context.Context) (*model.Session, error) {
	cached := m.cached()
	if cached == nil || cached.RefreshToken == "" {
		return cached, nil
	}
	if !m.probe.IsOnline(ctx) {
		return cached, nil
	}

	s, err := m.backend.Refresh(ctx, cached.RefreshToken)
	if err != nil {
		m.logger.Warn("session refresh failed, keeping cached session", zap.Error(err))
		return cached, nil
	}
	m.persist(s)
	return s, nil
}

func (m *sessionManager) cached() *model.Session {
	var s model.Session
	found, err := m.store.Get(localstore.KeySession, &s)
	if err != nil {
		m.logger.Error("failed to read cached session", zap.Error(err))
		return nil
	}
	if !found {
		return nil
	}
	return &s
}

func (m *sessionManager) persist(s *model.Session) {
	if err := m.store.Set(localstore.KeySession, s); err != nil {
		m.logger.Error("failed to persist session", zap.Error(err))
	}
	// The raw token is duplicated under its own key for convenience.
	if err := m.store.Set(localstore.KeyAuthToken, s.AccessToken); err != nil {
		m.logger.Error("failed to persist auth token", zap.Error(err))
	}
}
