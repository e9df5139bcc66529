// Package store defines the client-side storage interfaces implemented by
// both the remote document backend and the local key-value fallback. The
// facades coordinate between the two; data is never synchronized across them.
package store

import (
	"context"

	"github.com/avillega/rimario/internal/model"
)

// Favorites provides access to one user's favorite collection.
type Favorites interface {
	// List returns favorites ordered newest-created-first.
	List(ctx context.Context) ([]model.Favorite, error)
	// Add appends a favorite. Duplicate words are permitted; dedup is the
	// caller's responsibility via FindByWord.
	Add(ctx context.Context, word string, rhymes []model.Rhyme) error
	// Remove deletes a favorite by id. Removing an absent id is not an error.
	Remove(ctx context.Context, id string) error
	// FindByWord matches case-insensitively; errs.ErrNotFound when absent.
	FindByWord(ctx context.Context, word string) (*model.Favorite, error)
}

// Notes provides access to one user's note collection.
type Notes interface {
	// List returns notes ordered newest-updated-first.
	List(ctx context.Context) ([]model.Note, error)
	// Create assigns id and both timestamps.
	Create(ctx context.Context, in model.NoteInput) (model.Note, error)
	// Update applies a partial update and refreshes UpdatedAt.
	// Returns errs.ErrNotFound when the id is absent.
	Update(ctx context.Context, id string, upd model.NoteUpdate) (model.Note, error)
	// Delete removes a note. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
	// Get returns a note by id, or errs.ErrNotFound.
	Get(ctx context.Context, id string) (model.Note, error)
}

// Sessions holds the device-wide active session.
type Sessions interface {
	// Save unconditionally overwrites the active session.
	Save(ctx context.Context, u model.User) error
	// Load returns the active session, or errs.ErrNotFound.
	Load(ctx context.Context) (*model.User, error)
	// Clear removes the active session; clearing an absent session succeeds.
	Clear(ctx context.Context) error
}

// Users is the local-fallback user registry, keyed by email as provided.
type Users interface {
	// Create inserts a user; errs.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, u model.User) error
	// FindByEmail returns the user, or errs.ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
