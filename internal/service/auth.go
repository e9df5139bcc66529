// Package service contains the server-side application service for
// authentication.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	pkgcrypto "github.com/avillega/rimario/internal/crypto"
	"github.com/avillega/rimario/internal/errs"
	"github.com/avillega/rimario/internal/limiter"
	"github.com/avillega/rimario/internal/model"
	"github.com/avillega/rimario/internal/repository"
)

// AuthService defines authentication operations.
type AuthService interface {
	// Register creates a new account with secure password hashing.
	Register(ctx context.Context, email, password, username string) (model.Account, error)
	// LoginWithIP applies rate-limiting and authenticates the account.
	LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Account, error)
	// Token issues a signed access token for the given account.
	Token(accountID uuid.UUID) (model.Tokens, error)
	// GetAccount loads an account by id.
	GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

type AuthServiceImpl struct {
	accounts  repository.AccountRepository
	signKey   []byte
	accessTTL time.Duration
	lim       limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountRepository, signKey []byte, accessTTL time.Duration, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{accounts: accounts, signKey: signKey, accessTTL: accessTTL, lim: lim}
}

// Register creates a new account record with a per-account salt.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password, username string) (model.Account, error) {
	if email == "" || password == "" || username == "" {
		return model.Account{}, errors.New("empty email/password/username")
	}
	if !strings.Contains(email, "@") {
		return model.Account{}, errors.New("invalid email")
	}
	id, err := uuid.NewV4()
	if err != nil {
		return model.Account{}, err
	}
	salt, err := pkgcrypto.RandBytes(16)
	if err != nil {
		return model.Account{}, err
	}

	a := &model.Account{
		ID:        id,
		Email:     email,
		Username:  username,
		PwdHash:   pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth:  salt,
		CreatedAt: time.Now(),
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return model.Account{}, err
	}
	return *a, nil
}

// LoginWithIP authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) LoginWithIP(ctx context.Context, email, password, ip string) (model.Tokens, model.Account, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, model.Account{}, err
	}
	if !allowed {
		return model.Tokens{}, model.Account{}, errs.ErrRateLimited
	}

	a, err := s.accounts.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), a.SaltAuth, a.PwdHash) {
		// Record failure; if the threshold is reached, report rate-limited.
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, model.Account{}, errs.ErrRateLimited
		}
		// hide account existence on wrong password or lookup error
		return model.Tokens{}, model.Account{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	tok, err := s.Token(a.ID)
	if err != nil {
		return model.Tokens{}, model.Account{}, err
	}
	return tok, *a, nil
}

// Token creates a signed HS256 JWT for the given subject.
func (s *AuthServiceImpl) Token(accountID uuid.UUID) (model.Tokens, error) {
	now := time.Now()
	exp := now.Add(s.accessTTL)
	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.signKey)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// GetAccount loads an account by id.
func (s *AuthServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	if id == uuid.Nil {
		return nil, errors.New("empty account id")
	}
	return s.accounts.GetByID(ctx, id)
}
