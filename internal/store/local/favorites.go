// Package local implements the store interfaces over the on-device key-value
// store. Every write is a full-collection overwrite under a fixed key: read
// the whole collection, mutate in memory, write it back. Each collection's
// read-modify-write is guarded by its own mutex because the Go runtime, unlike
// the single-threaded original, may run callers in parallel.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/kv"
	"github.com/avillega/rimario/internal/model"
)

// Favorites stores the favorite collection as one JSON array.
type Favorites struct {
	mu sync.Mutex
	kv kv.Store
}

// NewFavorites constructs a local favorites store.
func NewFavorites(s kv.Store) *Favorites { return &Favorites{kv: s} }

func (f *Favorites) load(ctx context.Context) ([]model.Favorite, error) {
	raw, err := f.kv.Get(ctx, kv.KeyFavorites)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var favs []model.Favorite
	if err := json.Unmarshal([]byte(raw), &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (f *Favorites) save(ctx context.Context, favs []model.Favorite) error {
	raw, err := json.Marshal(favs)
	if err != nil {
		return err
	}
	return f.kv.Set(ctx, kv.KeyFavorites, string(raw))
}

// List returns favorites ordered newest-created-first.
func (f *Favorites) List(ctx context.Context) ([]model.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	favs, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(favs, func(i, j int) bool {
		return favs[i].CreatedAt.After(favs[j].CreatedAt)
	})
	return favs, nil
}

// Add appends a favorite with a locally generated id.
func (f *Favorites) Add(ctx context.Context, word string, rhymes []model.Rhyme) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	favs, err := f.load(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	favs = append(favs, model.Favorite{
		ID:        id.String(),
		Word:      word,
		Rhymes:    rhymes,
		CreatedAt: time.Now(),
	})
	return f.save(ctx, favs)
}

// Remove deletes by id; absent ids are ignored.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	favs, err := f.load(ctx)
	if err != nil {
		return err
	}
	kept := favs[:0]
	for _, fav := range favs {
		if fav.ID != id {
			kept = append(kept, fav)
		}
	}
	return f.save(ctx, kept)
}

// FindByWord matches case-insensitively against the stored word.
func (f *Favorites) FindByWord(ctx context.Context, word string) (*model.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	favs, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range favs {
		if strings.EqualFold(favs[i].Word, word) {
			fav := favs[i]
			return &fav, nil
		}
	}
	return nil, errs.ErrNotFound
}
