package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/model"
)

// NoteRepository provides access to per-user note documents.
type NoteRepository interface {
	// List returns the user's notes ordered newest-updated-first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Note, error)
	// Create inserts a note with id and both timestamps assigned.
	Create(ctx context.Context, userID uuid.UUID, in model.NoteInput) (model.Note, error)
	// Update applies the non-NULL fields, refreshes updated_at and returns the
	// result; errs.ErrNotFound when the id is absent.
	Update(ctx context.Context, userID, id uuid.UUID, upd model.NoteUpdate) (model.Note, error)
	// Delete removes a note; deleting an absent id is not an error.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// Get returns a note by id, or errs.ErrNotFound.
	Get(ctx context.Context, userID, id uuid.UUID) (model.Note, error)
}
