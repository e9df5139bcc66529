package local

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/avillega/rimario/internal/kv"
	"github.com/avillega/rimario/internal/model"
)

// Sessions persists the device-wide active session as one JSON blob. The
// blob is a cache: both register and login overwrite it even when the remote
// path succeeded, so the fallback always has a copy.
type Sessions struct {
	mu sync.Mutex
	kv kv.Store
}

// NewSessions constructs a local session store.
func NewSessions(s kv.Store) *Sessions { return &Sessions{kv: s} }

// Save unconditionally overwrites the active session.
func (s *Sessions) Save(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, kv.KeySession, string(raw))
}

// Load returns the active session, or errs.ErrNotFound.
func (s *Sessions) Load(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.kv.Get(ctx, kv.KeySession)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Clear removes the session; clearing an absent session succeeds.
func (s *Sessions) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, kv.KeySession)
}
