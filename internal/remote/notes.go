package remote

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
)

type notePayload struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  Timestamp `json:"created_at"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

func (p notePayload) toModel() model.Note {
	return model.Note{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		IsFavorite: p.IsFavorite,
		CreatedAt:  p.CreatedAt.Time,
		UpdatedAt:  p.UpdatedAt.Time,
	}
}

// Notes is the remote implementation of store.Notes.
type Notes struct {
	c *Client
}

// Notes returns the notes collection accessor.
func (c *Client) Notes() *Notes { return &Notes{c: c} }

// List returns the user's notes, newest-updated-first (server ordering).
func (n *Notes) List(ctx context.Context) ([]model.Note, error) {
	if err := n.c.requireAuth(); err != nil {
		return nil, err
	}
	var payloads []notePayload
	if err := n.c.do(ctx, http.MethodGet, apiPrefix+"/notes", nil, &payloads, true); err != nil {
		return nil, err
	}
	notes := make([]model.Note, len(payloads))
	for i, p := range payloads {
		notes[i] = p.toModel()
	}
	return notes, nil
}

// Create stores a new note; the server assigns id and both timestamps.
func (n *Notes) Create(ctx context.Context, in model.NoteInput) (model.Note, error) {
	if err := n.c.requireAuth(); err != nil {
		return model.Note{}, err
	}
	var p notePayload
	if err := n.c.do(ctx, http.MethodPost, apiPrefix+"/notes", in, &p, true); err != nil {
		return model.Note{}, err
	}
	return p.toModel(), nil
}

// Update applies a partial update; errs.ErrNotFound when the id is absent.
func (n *Notes) Update(ctx context.Context, id string, upd model.NoteUpdate) (model.Note, error) {
	if err := n.c.requireAuth(); err != nil {
		return model.Note{}, err
	}
	var p notePayload
	path := apiPrefix + "/notes/" + url.PathEscape(id)
	if err := n.c.do(ctx, http.MethodPatch, path, upd, &p, true); err != nil {
		return model.Note{}, err
	}
	return p.toModel(), nil
}

// Delete removes by id; a missing document is not an error.
func (n *Notes) Delete(ctx context.Context, id string) error {
	if err := n.c.requireAuth(); err != nil {
		return err
	}
	err := n.c.do(ctx, http.MethodDelete, apiPrefix+"/notes/"+url.PathEscape(id), nil, nil, true)
	if errors.Is(err, errs.ErrNotFound) {
		return nil
	}
	return err
}

// Get returns a note by id, or errs.ErrNotFound.
func (n *Notes) Get(ctx context.Context, id string) (model.Note, error) {
	if err := n.c.requireAuth(); err != nil {
		return model.Note{}, err
	}
	var p notePayload
	if err := n.c.do(ctx, http.MethodGet, apiPrefix+"/notes/"+url.PathEscape(id), nil, &p, true); err != nil {
		return model.Note{}, err
	}
	return p.toModel(), nil
}
