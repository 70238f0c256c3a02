// Package service contains the user store services: accounts and the per-user library.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgcrypto "github.com/and161185/recipe-keeper/internal/crypto"
	"github.com/and161185/recipe-keeper/internal/errs"
	"github.com/and161185/recipe-keeper/internal/limiter"
	"github.com/and161185/recipe-keeper/internal/model"
	"github.com/and161185/recipe-keeper/internal/repository"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"
)

// AuthService registers and authenticates accounts.
type AuthService struct {
	users repository.UserRepository
	lim   limiter.Limiter
	log   *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, lim limiter.Limiter, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, lim: lim, log: log}
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Register creates a new account and returns its ID.
// A taken email yields errs.ErrAlreadyExists and leaves the store unchanged.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (uuid.UUID, error) {
	username = strings.TrimSpace(username)
	email = NormalizeEmail(email)
	if username == "" || email == "" || password == "" {
		return uuid.Nil, fmt.Errorf("%w: username, email and password are required", errs.ErrInvalidInput)
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return uuid.Nil, errs.ErrAlreadyExists
	case !errors.Is(err, errs.ErrNotFound):
		return uuid.Nil, err
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return uuid.Nil, err
	}
	u := &model.User{
		ID:        uid,
		Username:  username,
		Email:     email,
		PwdHash:   hash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("user registered", zap.String("user_id", uid.String()))
	return uid, nil
}

// Authenticate checks the credentials with rate limiting by email.
// Unknown email and wrong password both yield errs.ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: email and password are required", errs.ErrInvalidInput)
	}

	allowed, retry, err := s.lim.Allow(ctx, email)
	if err != nil {
		return model.User{}, errs.Store("login_attempts.allow", err)
	}
	if !allowed {
		s.log.Warn("login blocked", zap.String("email", email), zap.Duration("retry_after", retry))
		return model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.User{}, err
	}
	ok := false
	if u != nil {
		if ok, err = pkgcrypto.VerifyPassword(password, u.PwdHash); err != nil {
			s.log.Error("stored hash unreadable", zap.String("user_id", u.ID.String()), zap.Error(err))
		}
	}
	if !ok {
		if blocked, _, ferr := s.lim.Failure(ctx, email); ferr != nil {
			s.log.Warn("record login failure", zap.Error(ferr))
		} else if blocked {
			return model.User{}, errs.ErrRateLimited
		}
		return model.User{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	if err := s.lim.Success(ctx, email); err != nil {
		s.log.Warn("reset login counters", zap.Error(err))
	}
	return *u, nil
}
