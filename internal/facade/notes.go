package facade

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/store"
)

// maxTitleLen bounds note titles.
const maxTitleLen = 200

// Notes is the notes facade.
type Notes struct {
	remote store.Notes // nil when no backend is configured
	local  store.Notes
	log    *zap.Logger
}

// NewNotes constructs the notes facade. Pass remote == nil for local-only mode.
func NewNotes(remote, local store.Notes, log *zap.Logger) *Notes {
	if log == nil {
		log = zap.NewNop()
	}
	return &Notes{remote: remote, local: local, log: log}
}

// List returns notes ordered newest-updated-first.
func (n *Notes) List(ctx context.Context) ([]model.Note, error) {
	if n.remote != nil {
		notes, err := n.remote.List(ctx)
		if err == nil {
			return notes, nil
		}
		logFallback(n.log, "list notes", err)
	}
	return n.local.List(ctx)
}

// Save creates a note; id and both timestamps are assigned by whichever
// backend persists it.
func (n *Notes) Save(ctx context.Context, in model.NoteInput) (model.Note, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return model.Note{}, errors.New("empty note title")
	}
	if len(in.Title) > maxTitleLen {
		return model.Note{}, errors.New("note title too long")
	}

	if n.remote != nil {
		note, err := n.remote.Create(ctx, in)
		if err == nil {
			return note, nil
		}
		logFallback(n.log, "save note", err)
	}
	return n.local.Create(ctx, in)
}

// Update applies a partial update and refreshes UpdatedAt; fields left nil
// are unchanged. Fails with errs.ErrNotFound when the id is absent in the
// backend that ends up serving the write.
func (n *Notes) Update(ctx context.Context, id string, upd model.NoteUpdate) (model.Note, error) {
	if upd.Title != nil {
		t := strings.TrimSpace(*upd.Title)
		if t == "" {
			return model.Note{}, errors.New("empty note title")
		}
		if len(t) > maxTitleLen {
			return model.Note{}, errors.New("note title too long")
		}
		upd.Title = &t
	}

	if n.remote != nil {
		note, err := n.remote.Update(ctx, id, upd)
		if err == nil {
			return note, nil
		}
		logFallback(n.log, "update note", err)
	}
	return n.local.Update(ctx, id, upd)
}

// Delete removes a note; deleting an absent id is not an error.
func (n *Notes) Delete(ctx context.Context, id string) error {
	if n.remote != nil {
		err := n.remote.Delete(ctx, id)
		if err == nil {
			return nil
		}
		logFallback(n.log, "delete note", err)
	}
	return n.local.Delete(ctx, id)
}

// Get returns a note by id, or nil when it does not exist. A remote
// "not found" is a successful answer, not a reason to fall back.
func (n *Notes) Get(ctx context.Context, id string) (*model.Note, error) {
	if n.remote != nil {
		note, err := n.remote.Get(ctx, id)
		if err == nil {
			return &note, nil
		}
		if errors.Is(err, errs.ErrNotFound) {
			return nil, nil
		}
		logFallback(n.log, "get note", err)
	}
	note, err := n.local.Get(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// ToggleFavorite flips the favorite flag; errs.ErrNotFound when absent.
func (n *Notes) ToggleFavorite(ctx context.Context, id string) (model.Note, error) {
	note, err := n.Get(ctx, id)
	if err != nil {
		return model.Note{}, err
	}
	if note == nil {
		return model.Note{}, errs.ErrNotFound
	}
	flipped := !note.IsFavorite
	return n.Update(ctx, id, model.NoteUpdate{IsFavorite: &flipped})
}

// ListFavorites returns the notes with the favorite flag set, in List order.
func (n *Notes) ListFavorites(ctx context.Context) ([]model.Note, error) {
	notes, err := n.List(ctx)
	if err != nil {
		return nil, err
	}
	favs := notes[:0]
	for _, note := range notes {
		if note.IsFavorite {
			favs = append(favs, note)
		}
	}
	return favs, nil
}
