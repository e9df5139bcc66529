package facade

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/store"
)

// Favorites is the favorites facade: the remote collection when a session is
// available, the local JSON blob otherwise.
type Favorites struct {
	remote store.Favorites // nil when no backend is configured
	local  store.Favorites
	log    *zap.Logger
}

// NewFavorites constructs the favorites facade. Pass remote == nil for
// local-only mode.
func NewFavorites(remote, local store.Favorites, log *zap.Logger) *Favorites {
	if log == nil {
		log = zap.NewNop()
	}
	return &Favorites{remote: remote, local: local, log: log}
}

// List returns favorites ordered newest-created-first.
func (f *Favorites) List(ctx context.Context) ([]model.Favorite, error) {
	if f.remote != nil {
		favs, err := f.remote.List(ctx)
		if err == nil {
			return favs, nil
		}
		logFallback(f.log, "list favorites", err)
	}
	return f.local.List(ctx)
}

// Add saves a favorite with a snapshot of the given rhymes. No duplicate
// check is performed; callers gate on IsFavorite.
func (f *Favorites) Add(ctx context.Context, word string, rhymes []model.Rhyme) error {
	if f.remote != nil {
		err := f.remote.Add(ctx, word, rhymes)
		if err == nil {
			return nil
		}
		logFallback(f.log, "add favorite", err)
	}
	return f.local.Add(ctx, word, rhymes)
}

// Remove deletes a favorite by id; removing an absent id is not an error.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	if f.remote != nil {
		err := f.remote.Remove(ctx, id)
		if err == nil {
			return nil
		}
		logFallback(f.log, "remove favorite", err)
	}
	return f.local.Remove(ctx, id)
}

// RemoveByWord resolves the id via a case-insensitive lookup and removes it;
// a no-op when the word is not saved.
func (f *Favorites) RemoveByWord(ctx context.Context, word string) error {
	fav, err := f.FindByWord(ctx, word)
	if err != nil {
		return err
	}
	if fav == nil {
		return nil
	}
	return f.Remove(ctx, fav.ID)
}

// IsFavorite reports whether word is saved, matched case-insensitively.
func (f *Favorites) IsFavorite(ctx context.Context, word string) (bool, error) {
	fav, err := f.FindByWord(ctx, word)
	if err != nil {
		return false, err
	}
	return fav != nil, nil
}

// FindByWord returns the favorite for word (case-insensitive) or nil. A
// remote "not found" is a successful answer, not a reason to fall back.
func (f *Favorites) FindByWord(ctx context.Context, word string) (*model.Favorite, error) {
	if f.remote != nil {
		fav, err := f.remote.FindByWord(ctx, word)
		if err == nil {
			return fav, nil
		}
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		logFallback(f.log, "find favorite", err)
	}
	fav, err := f.local.FindByWord(ctx, word)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fav, nil
}
