package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

type userPayload struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt Timestamp `json:"created_at"`
}

func (p userPayload) toModel() model.User {
	return model.User{ID: p.ID, Email: p.Email, Username: p.Username, CreatedAt: p.CreatedAt.Time}
}

type favoritePayload struct {
	ID        string        `json:"id"`
	Word      string        `json:"word"`
	Rhymes    []model.Rhyme `json:"rhymes"`
	CreatedAt Timestamp     `json:"created_at"`
}

func (p favoritePayload) toModel() model.Favorite {
	return model.Favorite{ID: p.ID, Word: p.Word, Rhymes: p.Rhymes, CreatedAt: p.CreatedAt.Time}
}

type addFavoriteRequest struct {
	Word   string        `json:"word"`
	Rhymes []model.Rhyme `json:"rhymes"`
}

// Favorites is the remote implementation of store.Favorites, scoped to the
// client's authenticated user.
type Favorites struct {
	c *Client
}

// Favorites returns the favorites collection accessor.
func (c *Client) Favorites() *Favorites { return &Favorites{c: c} }

// List returns the user's favorites, newest-created-first (server ordering).
func (f *Favorites) List(ctx context.Context) ([]model.Favorite, error) {
	if err := f.c.requireAuth(); err != nil {
		return nil, err
	}
	var payloads []favoritePayload
	if err := f.c.do(ctx, http.MethodGet, apiPrefix+"/favorites", nil, &payloads, true); err != nil {
		return nil, err
	}
	favs := make([]model.Favorite, len(payloads))
	for i, p := range payloads {
		favs[i] = p.toModel()
	}
	return favs, nil
}

// Add stores a new favorite document; the server assigns id and timestamp.
func (f *Favorites) Add(ctx context.Context, word string, rhymes []model.Rhyme) error {
	if err := f.c.requireAuth(); err != nil {
		return err
	}
	return f.c.do(ctx, http.MethodPost, apiPrefix+"/favorites",
		addFavoriteRequest{Word: word, Rhymes: rhymes}, nil, true)
}

// Remove deletes by id; a missing document is not an error.
func (f *Favorites) Remove(ctx context.Context, id string) error {
	if err := f.c.requireAuth(); err != nil {
		return err
	}
	err := f.c.do(ctx, http.MethodDelete, apiPrefix+"/favorites/"+url.PathEscape(id), nil, nil, true)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

// FindByWord queries the collection case-insensitively by word.
func (f *Favorites) FindByWord(ctx context.Context, word string) (*model.Favorite, error) {
	if err := f.c.requireAuth(); err != nil {
		return nil, err
	}
	var payloads []favoritePayload
	path := apiPrefix + "/favorites?word=" + url.QueryEscape(word)
	if err := f.c.do(ctx, http.MethodGet, path, nil, &payloads, true); err != nil {
		return nil, err
	}
	if len(payloads) == 0 {
		return nil, errs.ErrNotFound
	}
	fav := payloads[0].toModel()
	return &fav, nil
}
