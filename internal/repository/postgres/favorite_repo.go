package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

// FavoriteRepo implements FavoriteRepository using PostgreSQL. Rhyme
// snapshots are stored as one JSONB value per favorite.
type FavoriteRepo struct{ db *DB }

// NewFavoriteRepo constructs a favorite repository.
func NewFavoriteRepo(db *DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// List returns the user's favorites, newest-created-first.
func (r *FavoriteRepo) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	const q = `
SELECT id, word, rhymes, created_at
FROM favorites WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favs := []model.Favorite{}
	for rows.Next() {
		fav, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		favs = append(favs, fav)
	}
	return favs, rows.Err()
}

// Add inserts a favorite document.
func (r *FavoriteRepo) Add(ctx context.Context, userID uuid.UUID, word string, rhymes []model.Rhyme) (model.Favorite, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return model.Favorite{}, err
	}
	blob, err := json.Marshal(rhymes)
	if err != nil {
		return model.Favorite{}, err
	}
	const q = `
INSERT INTO favorites (id, user_id, word, rhymes)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	var createdAt time.Time
	if err := r.db.Pool.QueryRow(ctx, q, id, userID, word, blob).Scan(&createdAt); err != nil {
		return model.Favorite{}, err
	}
	return model.Favorite{ID: id.String(), Word: word, Rhymes: rhymes, CreatedAt: createdAt}, nil
}

// Delete removes a favorite; zero affected rows is not an error.
func (r *FavoriteRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM favorites WHERE user_id=$1 AND id=$2`
	_, err := r.db.Pool.Exec(ctx, q, userID, id)
	return err
}

// FindByWord returns the newest favorite whose word matches case-insensitively.
func (r *FavoriteRepo) FindByWord(ctx context.Context, userID uuid.UUID, word string) (*model.Favorite, error) {
	const q = `
SELECT id, word, rhymes, created_at
FROM favorites WHERE user_id=$1 AND lower(word)=lower($2)
ORDER BY created_at DESC
LIMIT 1`
	fav, err := scanFavorite(r.db.Pool.QueryRow(ctx, q, userID, word))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fav, nil
}

func scanFavorite(row pgx.Row) (model.Favorite, error) {
	var (
		id        uuid.UUID
		word      string
		blob      []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &word, &blob, &createdAt); err != nil {
		return model.Favorite{}, err
	}
	var rhymes []model.Rhyme
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &rhymes); err != nil {
			return model.Favorite{}, err
		}
	}
	return model.Favorite{ID: id.String(), Word: word, Rhymes: rhymes, CreatedAt: createdAt}, nil
}
