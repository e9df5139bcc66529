package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

func noteRows(id uuid.UUID, title string, fav bool, created, updated time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "title", "content", "is_favorite", "created_at", "updated_at"}).
		AddRow(id, title, "c", fav, created, updated)
}

func TestNoteRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO notes \(id, user_id, title, content, is_favorite\)`).
		WithArgs(pgxmock.AnyArg(), userID, "t", "c", false).
		WillReturnRows(noteRows(id, "t", false, now, now))

	n, err := r.Create(ctx, userID, model.NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)
	require.Equal(t, id.String(), n.ID)
	require.True(t, n.CreatedAt.Equal(n.UpdatedAt))
}

func TestNoteRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())
	title := "t2"

	mock.ExpectQuery(`UPDATE notes SET`).
		WithArgs(userID, id, &title, (*string)(nil), (*bool)(nil)).
		WillReturnRows(noteRows(id, "t2", false, time.Now().Add(-time.Hour), time.Now()))

	n, err := r.Update(ctx, userID, id, model.NoteUpdate{Title: &title})
	require.NoError(t, err)
	require.Equal(t, "t2", n.Title)
	require.True(t, n.UpdatedAt.After(n.CreatedAt))

	mock.ExpectQuery(`UPDATE notes SET`).
		WithArgs(userID, id, (*string)(nil), (*string)(nil), (*bool)(nil)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Update(ctx, userID, id, model.NoteUpdate{})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_Get(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM notes WHERE user_id=\$1 AND id=\$2`).
		WithArgs(userID, id).
		WillReturnRows(noteRows(id, "t", true, time.Now(), time.Now()))
	n, err := r.Get(ctx, userID, id)
	require.NoError(t, err)
	require.True(t, n.IsFavorite)

	mock.ExpectQuery(`FROM notes WHERE user_id=\$1 AND id=\$2`).
		WithArgs(userID, id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Get(ctx, userID, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestNoteRepo_ListAndDelete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewNoteRepo(db)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM notes WHERE user_id=\$1\s+ORDER BY updated_at DESC`).
		WithArgs(userID).
		WillReturnRows(noteRows(id, "t", false, time.Now(), time.Now()))
	notes, err := r.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	mock.ExpectExec(`DELETE FROM notes WHERE user_id=\$1 AND id=\$2`).
		WithArgs(userID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.NoError(t, r.Delete(ctx, userID, id))
}
