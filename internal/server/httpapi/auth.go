package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const ctxAccountID = "account_id"

// requireAuth extracts "Authorization: Bearer <JWT>", verifies HS256 and
// stores the subject account id on the request context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := s.accountIDFromRequest(c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorBody("no auth"))
		}
		c.Set(ctxAccountID, id)
		return next(c)
	}
}

func accountID(c echo.Context) uuid.UUID {
	id, _ := c.Get(ctxAccountID).(uuid.UUID)
	return id
}

func (s *Server) accountIDFromRequest(c echo.Context) (uuid.UUID, error) {
	tok, err := bearerToken(c)
	if err != nil {
		return uuid.Nil, err
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	v := jwt.NewValidator(jwt.WithLeeway(30 * time.Second))
	if err := v.Validate(&claims); err != nil {
		return uuid.Nil, errors.New("token expired or not valid yet")
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, errors.New("bad subject")
	}
	return id, nil
}

func bearerToken(c echo.Context) (string, error) {
	v := strings.TrimSpace(c.Request().Header.Get("Authorization"))
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		if t := strings.TrimSpace(v[7:]); t != "" {
			return t, nil
		}
	}
	return "", errors.New("no bearer token")
}
