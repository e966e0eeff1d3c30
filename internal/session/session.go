// Package session holds the one cross-view shared resource: the
// authenticated-user object. It is initialized by a single auth probe at
// application start, invalidated by sign-out, and refreshed only by explicit
// calls — views read it, never mutate it.
package session

import (
	"context"
	"sync"

	"github.com/groophq/groopsync/internal/api"
	"github.com/groophq/groopsync/internal/model"
	"github.com/groophq/groopsync/pkg/logger"
	"go.uber.org/zap"
)

type API interface {
	ProbeSession(ctx context.Context) (*model.Profile, error)
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
}

type Session struct {
	api API

	mu      sync.Mutex
	profile *model.Profile
}

func New(a API) *Session {
	return &Session{api: a}
}

// Start probes the backend once for an existing browser session. A 401 is
// the normal signed-out answer and is not an error; dependent state simply
// starts empty.
func (s *Session) Start(ctx context.Context) error {
	l := logger.FromContext(ctx)

	profile, err := s.api.ProbeSession(ctx)
	if api.IsUnauthorized(err) {
		l.Info("no active session")
		s.Invalidate()
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()

	if profile != nil {
		l.Info("session established", zap.String("username", profile.Username))
	}
	return nil
}

func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.Username
}

// Current returns the profile snapshot, nil when signed out.
func (s *Session) Current() *model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Refresh re-fetches the profile, e.g. after an avatar or bio edit. A 401
// invalidates the session instead of erroring.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	profile := s.profile
	s.mu.Unlock()
	if profile == nil {
		return nil
	}

	fresh, err := s.api.GetProfile(ctx, profile.Username)
	if api.IsUnauthorized(err) {
		s.Invalidate()
		return nil
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.profile = fresh
	s.mu.Unlock()
	return nil
}

// Invalidate drops the session locally. Called after navigating the user
// through the sign-out redirect.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}
