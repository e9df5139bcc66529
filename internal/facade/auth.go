package facade

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/store"
)

// RemoteAuth is the slice of the backend client the auth facade depends on.
type RemoteAuth interface {
	Register(ctx context.Context, email, password, username string) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (model.User, error)
	Authenticated() bool
}

// Auth is the authentication facade. When no remote backend is configured
// (remote == nil) registration and login run entirely against the local
// registry; when one is configured, auth operations target it and only cache
// the session locally.
type Auth struct {
	remote   RemoteAuth // nil when no backend is configured
	sessions store.Sessions
	users    store.Users
	log      *zap.Logger
}

// NewAuth constructs the auth facade. Pass remote == nil for local-only mode.
func NewAuth(remote RemoteAuth, sessions store.Sessions, users store.Users, log *zap.Logger) *Auth {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auth{remote: remote, sessions: sessions, users: users, log: log}
}

// Register creates an account and persists the created session as the active
// one. Fails with errs.ErrAlreadyExists when the email is taken in whichever
// backend is targeted.
func (a *Auth) Register(ctx context.Context, email, password, username string) (model.User, error) {
	if email == "" || password == "" || username == "" {
		return model.User{}, errors.New("empty email/password/username")
	}

	if a.remote != nil {
		u, err := a.remote.Register(ctx, email, password, username)
		if err != nil {
			return model.User{}, err
		}
		a.cacheSession(ctx, u)
		return u, nil
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.User{}, err
	}
	u := model.User{ID: id.String(), Email: email, Username: username, CreatedAt: time.Now()}
	if err := a.users.Create(ctx, u); err != nil {
		return model.User{}, err
	}
	if err := a.sessions.Save(ctx, u); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// Login authenticates and overwrites the active session. On the local path
// only existence is checked: the registry never receives the password, so
// there is nothing to verify against.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, error) {
	if email == "" || password == "" {
		return model.User{}, errors.New("empty email/password")
	}

	if a.remote != nil {
		u, err := a.remote.Login(ctx, email, password)
		if err != nil {
			return model.User{}, err
		}
		a.cacheSession(ctx, u)
		return u, nil
	}

	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if err := a.sessions.Save(ctx, *u); err != nil {
		return model.User{}, err
	}
	return *u, nil
}

// Logout clears the session everywhere it may exist. Remote sign-out errors
// are logged, never returned; the local session is always cleared. Logging
// out with no active session succeeds silently.
func (a *Auth) Logout(ctx context.Context) error {
	if a.remote != nil {
		if err := a.remote.Logout(ctx); err != nil {
			a.log.Warn("remote sign-out failed", zap.Error(err))
		}
	}
	return a.sessions.Clear(ctx)
}

// CurrentUser returns the active user, preferring the remote session, or
// (nil, nil) when neither source has one.
func (a *Auth) CurrentUser(ctx context.Context) (*model.User, error) {
	if a.remote != nil && a.remote.Authenticated() {
		if u, err := a.remote.Me(ctx); err == nil {
			return &u, nil
		} else {
			logFallback(a.log, "current user", err)
		}
	}
	u, err := a.sessions.Load(ctx)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// SaveSession unconditionally overwrites the local session blob.
func (a *Auth) SaveSession(ctx context.Context, u model.User) error {
	return a.sessions.Save(ctx, u)
}

// cacheSession is the terminal step of remote register/login: the local blob
// is a cache, so failures are logged, not returned.
func (a *Auth) cacheSession(ctx context.Context, u model.User) {
	if err := a.sessions.Save(ctx, u); err != nil {
		a.log.Warn("session cache write failed", zap.Error(err))
	}
}
