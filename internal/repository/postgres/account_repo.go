package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

// AccountRepo implements AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

// Create inserts a new account row.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const q = `
INSERT INTO accounts (id, email, username, pwd_hash, salt_auth)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Pool.Exec(ctx, q, a.ID, a.Email, a.Username, a.PwdHash, a.SaltAuth)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	const q = `
SELECT id, email, username, pwd_hash, salt_auth, created_at
FROM accounts WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var a model.Account
	if err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PwdHash, &a.SaltAuth, &a.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &a, nil
}

// GetByEmail selects an account by email.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	const q = `
SELECT id, email, username, pwd_hash, salt_auth, created_at
FROM accounts WHERE email=$1`
	row := r.db.Pool.QueryRow(ctx, q, email)
	var a model.Account
	if err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PwdHash, &a.SaltAuth, &a.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &a, nil
}
