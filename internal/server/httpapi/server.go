// Package httpapi exposes the document backend's HTTP/JSON handlers:
// email/password authentication plus per-user favorites and notes
// collections.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/repository"
	"github.com/avillega/rimario/internal/service"
)

// Server wires services and repositories into HTTP handlers.
type Server struct {
	echo      *echo.Echo
	auth      service.AuthService
	favorites repository.FavoriteRepository
	notes     repository.NoteRepository
	signKey   []byte
	log       *zap.Logger
}

// New constructs the HTTP server with injected dependencies.
func New(auth service.AuthService, favorites repository.FavoriteRepository, notes repository.NoteRepository, signKey []byte, log *zap.Logger) *Server {
	s := &Server{
		auth:      auth,
		favorites: favorites,
		notes:     notes,
		signKey:   signKey,
		log:       log,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(Recover(log), RequestLogger(log))

	e.GET("/healthz", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api/v1")
	api.POST("/auth/register", s.handleRegister)
	api.POST("/auth/login", s.handleLogin)

	authed := api.Group("", s.requireAuth)
	authed.POST("/auth/logout", s.handleLogout)
	authed.GET("/me", s.handleMe)
	authed.GET("/favorites", s.handleListFavorites)
	authed.POST("/favorites", s.handleAddFavorite)
	authed.DELETE("/favorites/:id", s.handleDeleteFavorite)
	authed.GET("/notes", s.handleListNotes)
	authed.POST("/notes", s.handleCreateNote)
	authed.GET("/notes/:id", s.handleGetNote)
	authed.PATCH("/notes/:id", s.handleUpdateNote)
	authed.DELETE("/notes/:id", s.handleDeleteNote)

	s.echo = e
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error { return s.echo.Start(addr) }

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }

func errorBody(msg string) map[string]string { return map[string]string{"error": msg} }

// --- Auth ---

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type authResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("bad request"))
	}
	a, err := s.auth.Register(c.Request().Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return c.JSON(http.StatusConflict, errorBody("email already registered"))
		}
		return c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	}
	tok, err := s.auth.Token(a.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("token issue failed"))
	}
	return c.JSON(http.StatusCreated, authResponse{User: a.User(), AccessToken: tok.AccessToken})
}

func (s *Server) handleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("bad request"))
	}
	tok, a, err := s.auth.LoginWithIP(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, errorBody("bad credentials"))
		case errors.Is(err, errs.ErrRateLimited):
			return c.JSON(http.StatusTooManyRequests, errorBody("rate limited"))
		default:
			return c.JSON(http.StatusInternalServerError, errorBody("login failed"))
		}
	}
	return c.JSON(http.StatusOK, authResponse{User: a.User(), AccessToken: tok.AccessToken})
}

func (s *Server) handleLogout(c echo.Context) error {
	// Access tokens are stateless; logout only confirms the session is done
	// server-side. Clients drop their token.
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleMe(c echo.Context) error {
	a, err := s.auth.GetAccount(c.Request().Context(), accountID(c))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("account not found"))
		}
		return c.JSON(http.StatusInternalServerError, errorBody("lookup failed"))
	}
	return c.JSON(http.StatusOK, a.User())
}

// --- Favorites ---

type addFavoriteRequest struct {
	Word   string        `json:"word"`
	Rhymes []model.Rhyme `json:"rhymes"`
}

func (s *Server) handleListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	if word := c.QueryParam("word"); word != "" {
		fav, err := s.favorites.FindByWord(ctx, accountID(c), word)
		if errors.Is(err, errs.ErrNotFound) {
			return c.JSON(http.StatusOK, []model.Favorite{})
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody("query failed"))
		}
		return c.JSON(http.StatusOK, []model.Favorite{*fav})
	}

	favs, err := s.favorites.List(ctx, accountID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("list failed"))
	}
	return c.JSON(http.StatusOK, favs)
}

func (s *Server) handleAddFavorite(c echo.Context) error {
	var req addFavoriteRequest
	if err := c.Bind(&req); err != nil || req.Word == "" {
		return c.JSON(http.StatusBadRequest, errorBody("bad request"))
	}
	fav, err := s.favorites.Add(c.Request().Context(), accountID(c), req.Word, req.Rhymes)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("save failed"))
	}
	return c.JSON(http.StatusCreated, fav)
}

func (s *Server) handleDeleteFavorite(c echo.Context) error {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	if err := s.favorites.Delete(c.Request().Context(), accountID(c), id); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("delete failed"))
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Notes ---

func (s *Server) handleListNotes(c echo.Context) error {
	notes, err := s.notes.List(c.Request().Context(), accountID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("list failed"))
	}
	return c.JSON(http.StatusOK, notes)
}

func (s *Server) handleCreateNote(c echo.Context) error {
	var in model.NoteInput
	if err := c.Bind(&in); err != nil || in.Title == "" {
		return c.JSON(http.StatusBadRequest, errorBody("bad request"))
	}
	note, err := s.notes.Create(c.Request().Context(), accountID(c), in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("save failed"))
	}
	return c.JSON(http.StatusCreated, note)
}

func (s *Server) handleGetNote(c echo.Context) error {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	note, err := s.notes.Get(c.Request().Context(), accountID(c), id)
	if errors.Is(err, errs.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("lookup failed"))
	}
	return c.JSON(http.StatusOK, note)
}

func (s *Server) handleUpdateNote(c echo.Context) error {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	var upd model.NoteUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("bad request"))
	}
	if upd.Title != nil && *upd.Title == "" {
		return c.JSON(http.StatusBadRequest, errorBody("empty title"))
	}
	note, err := s.notes.Update(c.Request().Context(), accountID(c), id, upd)
	if errors.Is(err, errs.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("update failed"))
	}
	return c.JSON(http.StatusOK, note)
}

func (s *Server) handleDeleteNote(c echo.Context) error {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorBody("not found"))
	}
	if err := s.notes.Delete(c.Request().Context(), accountID(c), id); err != nil {
		return c.JSON(http.StatusInternalServerError, errorBody("delete failed"))
	}
	return c.NoContent(http.StatusNoContent)
}
