package local

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/kv"
	"github.com/avillega/rimario/internal/model"
)

// Notes stores the note collection as one JSON array.
type Notes struct {
	mu sync.Mutex
	kv kv.Store
}

// NewNotes constructs a local notes store.
func NewNotes(s kv.Store) *Notes { return &Notes{kv: s} }

func (n *Notes) load(ctx context.Context) ([]model.Note, error) {
	raw, err := n.kv.Get(ctx, kv.KeyNotes)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var notes []model.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (n *Notes) save(ctx context.Context, notes []model.Note) error {
	raw, err := json.Marshal(notes)
	if err != nil {
		return err
	}
	return n.kv.Set(ctx, kv.KeyNotes, string(raw))
}

// List returns notes ordered newest-updated-first.
func (n *Notes) List(ctx context.Context) ([]model.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes, err := n.load(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

// Create assigns a local id and identical created/updated timestamps.
func (n *Notes) Create(ctx context.Context, in model.NoteInput) (model.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes, err := n.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Note{}, err
	}
	now := time.Now()
	note := model.Note{
		ID:         id.String(),
		Title:      in.Title,
		Content:    in.Content,
		IsFavorite: in.IsFavorite,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	notes = append(notes, note)
	if err := n.save(ctx, notes); err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// Update applies the non-nil fields and refreshes UpdatedAt.
func (n *Notes) Update(ctx context.Context, id string, upd model.NoteUpdate) (model.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes, err := n.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	for i := range notes {
		if notes[i].ID != id {
			continue
		}
		if upd.Title != nil {
			notes[i].Title = *upd.Title
		}
		if upd.Content != nil {
			notes[i].Content = *upd.Content
		}
		if upd.IsFavorite != nil {
			notes[i].IsFavorite = *upd.IsFavorite
		}
		notes[i].UpdatedAt = time.Now()
		if err := n.save(ctx, notes); err != nil {
			return model.Note{}, err
		}
		return notes[i], nil
	}
	return model.Note{}, errs.ErrNotFound
}

// Delete removes by id; absent ids are ignored.
func (n *Notes) Delete(ctx context.Context, id string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes, err := n.load(ctx)
	if err != nil {
		return err
	}
	kept := notes[:0]
	for _, note := range notes {
		if note.ID != id {
			kept = append(kept, note)
		}
	}
	return n.save(ctx, kept)
}

// Get returns a note by id, or errs.ErrNotFound.
func (n *Notes) Get(ctx context.Context, id string) (model.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	notes, err := n.load(ctx)
	if err != nil {
		return model.Note{}, err
	}
	for i := range notes {
		if notes[i].ID == id {
			return notes[i], nil
		}
	}
	return model.Note{}, errs.ErrNotFound
}
