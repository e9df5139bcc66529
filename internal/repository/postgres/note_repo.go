package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

// NoteRepo implements NoteRepository using PostgreSQL.
type NoteRepo struct{ db *DB }

// NewNoteRepo constructs a note repository.
func NewNoteRepo(db *DB) *NoteRepo { return &NoteRepo{db: db} }

const noteColumns = `id, title, content, is_favorite, created_at, updated_at`

// List returns the user's notes, newest-updated-first.
func (r *NoteRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM notes WHERE user_id=$1
ORDER BY updated_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// Create inserts a note; created_at and updated_at come from the same now().
func (r *NoteRepo) Create(ctx context.Context, userID uuid.UUID, in model.NoteInput) (model.Note, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Note{}, err
	}
	const q = `
INSERT INTO notes (id, user_id, title, content, is_favorite)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + noteColumns
	return scanNote(r.db.Pool.QueryRow(ctx, q, id, userID, in.Title, in.Content, in.IsFavorite))
}

// Update applies the non-NULL fields and refreshes updated_at.
func (r *NoteRepo) Update(ctx context.Context, userID, id uuid.UUID, upd model.NoteUpdate) (model.Note, error) {
	const q = `
UPDATE notes SET
	title       = COALESCE($3, title),
	content     = COALESCE($4, content),
	is_favorite = COALESCE($5, is_favorite),
	updated_at  = now()
WHERE user_id=$1 AND id=$2
RETURNING ` + noteColumns
	n, err := scanNote(r.db.Pool.QueryRow(ctx, q, userID, id, upd.Title, upd.Content, upd.IsFavorite))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, errs.ErrNotFound
	}
	return n, err
}

// Delete removes a note; zero affected rows is not an error.
func (r *NoteRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM notes WHERE user_id=$1 AND id=$2`
	_, err := r.db.Pool.Exec(ctx, q, userID, id)
	return err
}

// Get returns a note by id.
func (r *NoteRepo) Get(ctx context.Context, userID, id uuid.UUID) (model.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM notes WHERE user_id=$1 AND id=$2`
	n, err := scanNote(r.db.Pool.QueryRow(ctx, q, userID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Note{}, errs.ErrNotFound
	}
	return n, err
}

func scanNote(row pgx.Row) (model.Note, error) {
	var (
		id uuid.UUID
		n  model.Note
	)
	if err := row.Scan(&id, &n.Title, &n.Content, &n.IsFavorite, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return model.Note{}, err
	}
	n.ID = id.String()
	return n, nil
}
