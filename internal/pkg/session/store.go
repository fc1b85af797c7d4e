// internal/pkg/session/store.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"taskdesk/internal/domain/auth"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/storage"

	"go.uber.org/zap"
)

// Store owns the process-wide session. SetAuth and ClearAuth are the only
// mutators; every other component reads through the accessors.
type Store struct {
	mu      sync.RWMutex
	state   auth.Session
	storage storage.Storage
	logger  *zap.Logger
}

func NewStore(st storage.Storage, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{storage: st, logger: logger}
}

// SetAuth persists the session and the raw token, then publishes the new
// state. On a storage error the in-memory state is left untouched and the
// previously persisted session, if any, is put back.
func (s *Store) SetAuth(ctx context.Context, user auth.User, token string) error {
	if token == "" {
		return fmt.Errorf("cannot set session with empty token")
	}

	u := user
	next := auth.Session{User: &u, Token: token, IsAuthenticated: true}

	blob, err := json.Marshal(PersistedRecord{State: next, Version: persistedVersion})
	if err != nil {
		return xerrors.Wrap(err, "failed to marshal session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev, err := storage.Lookup(ctx, s.storage, storage.KeySession)
	if err != nil {
		return xerrors.Wrap(err, "failed to read persisted session")
	}

	if err := s.storage.Set(ctx, storage.KeySession, string(blob)); err != nil {
		return xerrors.Wrap(err, "failed to persist session")
	}
	if err := s.storage.Set(ctx, storage.KeyToken, token); err != nil {
		// the old token key is still in place; pair it with its blob again
		s.restoreSession(ctx, prev, hadPrev)
		return xerrors.Wrap(err, "failed to persist token")
	}

	s.state = next
	s.logger.Info("session established", zap.String("user_id", u.ID))
	return nil
}

func (s *Store) restoreSession(ctx context.Context, prev string, hadPrev bool) {
	var err error
	if hadPrev {
		err = s.storage.Set(ctx, storage.KeySession, prev)
	} else {
		err = s.storage.Delete(ctx, storage.KeySession)
	}
	if err != nil {
		s.logger.Warn("failed to restore persisted session", zap.Error(err))
	}
}

// ClearAuth resets the session and deletes both durable keys. Memory is
// reset even when the delete fails. Safe to call repeatedly.
func (s *Store) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasAuthenticated := s.state.IsAuthenticated
	s.state = auth.Session{}

	if err := s.storage.Delete(ctx, storage.KeySession, storage.KeyToken); err != nil {
		return xerrors.Wrap(err, "failed to delete persisted session")
	}
	if wasAuthenticated {
		s.logger.Info("session cleared")
	}
	return nil
}

// Rehydrate restores the session persisted by an earlier process. A record
// that cannot be decoded, or that breaks the session invariant, is dropped.
func (s *Store) Rehydrate(ctx context.Context) error {
	raw, ok, err := storage.Lookup(ctx, s.storage, storage.KeySession)
	if err != nil {
		return xerrors.Wrap(err, "failed to read persisted session")
	}
	if !ok {
		return nil
	}

	var rec PersistedRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || !rec.State.Valid() {
		s.logger.Warn("discarding unreadable persisted session", zap.Error(err))
		return s.ClearAuth(ctx)
	}

	if rec.State.IsAuthenticated {
		tok, found, err := storage.Lookup(ctx, s.storage, storage.KeyToken)
		if err != nil {
			return xerrors.Wrap(err, "failed to read persisted token")
		}
		if !found || tok != rec.State.Token {
			s.logger.Warn("persisted session does not match stored token, discarding")
			return s.ClearAuth(ctx)
		}
	}

	s.mu.Lock()
	s.state = rec.State
	s.mu.Unlock()

	if rec.State.IsAuthenticated {
		s.logger.Info("session restored", zap.String("user_id", rec.State.User.ID))
	}
	return nil
}

// IsAuthenticated reports the in-memory flag.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// Token returns the in-memory token, "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

// User returns a copy of the current user, nil when signed out.
func (s *Store) User() *auth.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Snapshot returns a copy of the whole session.
func (s *Store) Snapshot() auth.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}
