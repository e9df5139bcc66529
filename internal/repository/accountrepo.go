// Package repository defines server-side storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/model"
)

// AccountRepository provides CRUD access for accounts.
type AccountRepository interface {
	// Create inserts a new account; errs.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, a *model.Account) error
	// GetByID loads an account by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	// GetByEmail loads an account by email.
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}
