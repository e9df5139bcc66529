package local

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/kv"
	"github.com/avillega/rimario/internal/model"
)

// Users is the local-fallback registration registry: one JSON object mapping
// email (exactly as provided) to the user record. The duplicate check here is
// a plain map-key test and is not atomic across processes; the remote
// backend's uniqueness constraint is a different check and the two are not
// reconciled.
type Users struct {
	mu sync.Mutex
	kv kv.Store
}

// NewUsers constructs a local user registry.
func NewUsers(s kv.Store) *Users { return &Users{kv: s} }

func (u *Users) load(ctx context.Context) (map[string]model.User, error) {
	raw, err := u.kv.Get(ctx, kv.KeyUsers)
	if errors.Is(err, errs.ErrNotFound) {
		return map[string]model.User{}, nil
	}
	if err != nil {
		return nil, err
	}
	var users map[string]model.User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Create inserts a user keyed by email; errs.ErrAlreadyExists when taken.
func (u *Users) Create(ctx context.Context, user model.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	users, err := u.load(ctx)
	if err != nil {
		return err
	}
	if _, exists := users[user.Email]; exists {
		return errs.ErrAlreadyExists
	}
	users[user.Email] = user
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return u.kv.Set(ctx, kv.KeyUsers, string(raw))
}

// FindByEmail returns the registered user, or errs.ErrNotFound.
func (u *Users) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	users, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &user, nil
}
