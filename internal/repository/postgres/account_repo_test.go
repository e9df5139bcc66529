package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestAccountRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	a := &model.Account{
		ID:       uuid.Must(uuid.NewV4()),
		Email:    "ana@example.com",
		Username: "ana",
		PwdHash:  []byte("h"),
		SaltAuth: []byte("s"),
	}

	// OK
	mock.ExpectExec(`INSERT INTO accounts \(id, email, username, pwd_hash, salt_auth\)`).
		WithArgs(a.ID, a.Email, a.Username, a.PwdHash, a.SaltAuth).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, a))

	// Unique violation
	mock.ExpectExec(`INSERT INTO accounts \(id, email, username, pwd_hash, salt_auth\)`).
		WithArgs(a.ID, a.Email, a.Username, a.PwdHash, a.SaltAuth).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	err := r.Create(ctx, a)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestAccountRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, email, username, pwd_hash, salt_auth, created_at\s+FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "pwd_hash", "salt_auth", "created_at"}).
			AddRow(id, "ana@example.com", "ana", []byte("h"), []byte("s"), time.Now()))
	a, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, a.ID)

	mock.ExpectQuery(`SELECT id, email, username, pwd_hash, salt_auth, created_at\s+FROM accounts WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountRepo_GetByEmail(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewAccountRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`SELECT id, email, username, pwd_hash, salt_auth, created_at\s+FROM accounts WHERE email=\$1`).
		WithArgs("ana@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "pwd_hash", "salt_auth", "created_at"}).
			AddRow(id, "ana@example.com", "ana", []byte("h"), []byte("s"), time.Now()))
	a, err := r.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", a.Email)

	mock.ExpectQuery(`SELECT id, email, username, pwd_hash, salt_auth, created_at\s+FROM accounts WHERE email=\$1`).
		WithArgs("nope@example.com").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByEmail(ctx, "nope@example.com")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
