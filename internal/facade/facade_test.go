package facade

import (
	"context"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/store"
)

/************ shared fakes ************/

type fakeSessions struct {
	u       *model.User
	saveErr error
	loadErr error
}

var _ store.Sessions = (*fakeSessions)(nil)

func (s *fakeSessions) Save(_ context.Context, u model.User) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cpy := u
	s.u = &cpy
	return nil
}
func (s *fakeSessions) Load(context.Context) (*model.User, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.u == nil {
		return nil, errs.ErrNotFound
	}
	cpy := *s.u
	return &cpy, nil
}
func (s *fakeSessions) Clear(context.Context) error {
	s.u = nil
	return nil
}

type fakeUsers struct {
	byEmail   map[string]model.User
	createErr error
}

var _ store.Users = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail == nil {
		f.byEmail = map[string]model.User{}
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	f.byEmail[u.Email] = u
	return nil
}
func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

type fakeRemoteAuth struct {
	user          model.User
	authed        bool
	registerErr   error
	loginErr      error
	logoutErr     error
	meErr         error
	logoutCalls   int
	registerCalls int
}

var _ RemoteAuth = (*fakeRemoteAuth)(nil)

func (r *fakeRemoteAuth) Register(_ context.Context, email, _, username string) (model.User, error) {
	r.registerCalls++
	if r.registerErr != nil {
		return model.User{}, r.registerErr
	}
	r.user = model.User{ID: "remote-1", Email: email, Username: username, CreatedAt: time.Now()}
	r.authed = true
	return r.user, nil
}
func (r *fakeRemoteAuth) Login(_ context.Context, email, _ string) (model.User, error) {
	if r.loginErr != nil {
		return model.User{}, r.loginErr
	}
	r.user.Email = email
	r.authed = true
	return r.user, nil
}
func (r *fakeRemoteAuth) Logout(context.Context) error {
	r.logoutCalls++
	r.authed = false
	return r.logoutErr
}
func (r *fakeRemoteAuth) Me(context.Context) (model.User, error) {
	if r.meErr != nil {
		return model.User{}, r.meErr
	}
	return r.user, nil
}
func (r *fakeRemoteAuth) Authenticated() bool { return r.authed }

type fakeFavorites struct {
	favs []model.Favorite

	listErr error
	addErr  error
	rmErr   error
	findErr error

	addCalls int
}

var _ store.Favorites = (*fakeFavorites)(nil)

func (f *fakeFavorites) List(context.Context) ([]model.Favorite, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Favorite(nil), f.favs...), nil
}
func (f *fakeFavorites) Add(_ context.Context, word string, rhymes []model.Rhyme) error {
	f.addCalls++
	if f.addErr != nil {
		return f.addErr
	}
	id, _ := uuid.NewV4()
	f.favs = append(f.favs, model.Favorite{ID: id.String(), Word: word, Rhymes: rhymes, CreatedAt: time.Now()})
	return nil
}
func (f *fakeFavorites) Remove(_ context.Context, id string) error {
	if f.rmErr != nil {
		return f.rmErr
	}
	kept := f.favs[:0]
	for _, fav := range f.favs {
		if fav.ID != id {
			kept = append(kept, fav)
		}
	}
	f.favs = kept
	return nil
}
func (f *fakeFavorites) FindByWord(_ context.Context, word string) (*model.Favorite, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for i := range f.favs {
		if strings.EqualFold(f.favs[i].Word, word) {
			fav := f.favs[i]
			return &fav, nil
		}
	}
	return nil, errs.ErrNotFound
}

type fakeNotes struct {
	notes []model.Note

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	getErr    error

	createCalls int
	updateCalls int
}

var _ store.Notes = (*fakeNotes)(nil)

func (f *fakeNotes) List(context.Context) ([]model.Note, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Note(nil), f.notes...), nil
}
func (f *fakeNotes) Create(_ context.Context, in model.NoteInput) (model.Note, error) {
	f.createCalls++
	if f.createErr != nil {
		return model.Note{}, f.createErr
	}
	id, _ := uuid.NewV4()
	now := time.Now()
	n := model.Note{ID: id.String(), Title: in.Title, Content: in.Content, IsFavorite: in.IsFavorite, CreatedAt: now, UpdatedAt: now}
	f.notes = append(f.notes, n)
	return n, nil
}
func (f *fakeNotes) Update(_ context.Context, id string, upd model.NoteUpdate) (model.Note, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return model.Note{}, f.updateErr
	}
	for i := range f.notes {
		if f.notes[i].ID != id {
			continue
		}
		if upd.Title != nil {
			f.notes[i].Title = *upd.Title
		}
		if upd.Content != nil {
			f.notes[i].Content = *upd.Content
		}
		if upd.IsFavorite != nil {
			f.notes[i].IsFavorite = *upd.IsFavorite
		}
		f.notes[i].UpdatedAt = time.Now()
		return f.notes[i], nil
	}
	return model.Note{}, errs.ErrNotFound
}
func (f *fakeNotes) Delete(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.notes[:0]
	for _, n := range f.notes {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	f.notes = kept
	return nil
}
func (f *fakeNotes) Get(_ context.Context, id string) (model.Note, error) {
	if f.getErr != nil {
		return model.Note{}, f.getErr
	}
	for i := range f.notes {
		if f.notes[i].ID == id {
			return f.notes[i], nil
		}
	}
	return model.Note{}, errs.ErrNotFound
}
