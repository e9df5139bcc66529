// Package model defines domain entities used by the facades, stores and the server.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User is the public profile of an account. IDs are opaque strings: the
// backend that persisted the user decides the format.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Account is the server-side representation of a user, including the
// password hash. It never crosses the wire.
type Account struct {
	ID        uuid.UUID
	Email     string // unique
	Username  string
	PwdHash   []byte // Argon2id(password, SaltAuth)
	SaltAuth  []byte // per-account auth salt
	CreatedAt time.Time
}

// User returns the public view of the account.
func (a *Account) User() User {
	return User{ID: a.ID.String(), Email: a.Email, Username: a.Username, CreatedAt: a.CreatedAt}
}

// Tokens collects issued access tokens.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Rhyme is a single candidate returned by the rhyme provider after
// normalization. The searched-for word is not part of the entity.
type Rhyme struct {
	Word      string   `json:"word"`
	Score     int      `json:"score"`
	Syllables int      `json:"syllables,omitempty"`
	Tags      []string `json:"tags"`
}

// SearchFilters shapes a provider query. When IncludeSyllables is false the
// per-word syllable counts are omitted from the results.
type SearchFilters struct {
	MaxResults       int
	MinScore         int
	IncludeSyllables bool
}

// DefaultFilters matches the defaults of the original search form.
func DefaultFilters() SearchFilters {
	return SearchFilters{MaxResults: 20, MinScore: 0, IncludeSyllables: true}
}

// Favorite is a saved search word together with a snapshot of the rhymes it
// had at save time. The word is immutable once created.
type Favorite struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Rhymes    []Rhyme   `json:"rhymes"`
	CreatedAt time.Time `json:"created_at"`
}

// Note is a free-text note. UpdatedAt is refreshed on every mutation.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NoteInput carries the caller-settable fields of a new note.
type NoteInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsFavorite bool   `json:"is_favorite"`
}

// NoteUpdate is a partial update; nil fields are left unchanged.
type NoteUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

// WordInfo is the provider's metadata for a single word.
type WordInfo struct {
	Word          string `json:"word"`
	Pronunciation string `json:"pron"`
	IPA           string `json:"ipa"`
	Flags         string `json:"flags"`
	Syllables     int    `json:"syllables"`
}
