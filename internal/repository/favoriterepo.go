package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/model"
)

// FavoriteRepository provides access to per-user favorite documents.
type FavoriteRepository interface {
	// List returns the user's favorites ordered newest-created-first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
	// Add inserts a favorite and returns it with id and timestamp assigned.
	Add(ctx context.Context, userID uuid.UUID, word string, rhymes []model.Rhyme) (model.Favorite, error)
	// Delete removes a favorite; deleting an absent id is not an error.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// FindByWord returns the newest favorite matching word case-insensitively,
	// or errs.ErrNotFound.
	FindByWord(ctx context.Context, userID uuid.UUID, word string) (*model.Favorite, error)
}
