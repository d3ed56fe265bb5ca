// Package service contains application services for accounts, checklists and tasks.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/crypto"
	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/limiter"
	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/repository"
	"github.com/eklimov/taskdeck/internal/token"
)

const minPasswordLen = 6

// AuthService defines account and session operations.
type AuthService interface {
	// Register creates a user with the default role and issues a token.
	Register(ctx context.Context, username, password string) (*model.User, string, error)
	// Login authenticates with rate limiting by (username, ip) and issues a token.
	Login(ctx context.Context, username, password, ip string) (*model.User, string, error)
	// UpdatePassword re-verifies the current password, stores a new hash and
	// issues a fresh token so the caller stays logged in. Every token issued
	// before the change becomes stale.
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) (*model.User, string, error)
	// UpdateDetails changes the username.
	UpdateDetails(ctx context.Context, userID uuid.UUID, username string) (*model.User, error)
	// ListUsers returns all accounts (admin surface).
	ListUsers(ctx context.Context) ([]model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Service
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Service, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

// Register creates a new user record and issues a session token.
func (s *AuthServiceImpl) Register(ctx context.Context, username, password string) (*model.User, string, error) {
	if username == "" {
		return nil, "", fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, "", fmt.Errorf("%w: password shorter than %d", errs.ErrValidation, minPasswordLen)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, "", err
	}
	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, "", err
	}

	u := &model.User{
		ID:       uid,
		Username: username,
		PwdHash:  crypto.HashPassword([]byte(password), salt),
		SaltAuth: salt,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// Login authenticates a user. Unknown username and wrong password are not
// distinguished; both surface as ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password, ip string) (*model.User, string, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return nil, "", err
	}
	if !allowed {
		return nil, "", errs.ErrRateLimited
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !crypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return nil, "", errs.ErrRateLimited
		}
		// lookup errors are masked as bad credentials too
		return nil, "", errs.ErrInvalidCredentials
	}

	_ = s.lim.Success(ctx, username, ipHash)

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// UpdatePassword rotates the credential. The stored change timestamp is
// truncated to seconds to line up with JWT iat granularity, so the freshly
// issued token passes the staleness check while every earlier one fails it.
func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) (*model.User, string, error) {
	if len(next) < minPasswordLen {
		return nil, "", fmt.Errorf("%w: password shorter than %d", errs.ErrValidation, minPasswordLen)
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if !crypto.VerifyPassword([]byte(current), u.SaltAuth, u.PwdHash) {
		return nil, "", errs.ErrInvalidCredentials
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return nil, "", err
	}
	hash := crypto.HashPassword([]byte(next), salt)
	changedAt := time.Now().Truncate(time.Second)
	if err := s.users.UpdatePassword(ctx, userID, hash, salt, changedAt); err != nil {
		return nil, "", err
	}

	u.PwdHash = hash
	u.SaltAuth = salt
	u.PasswordChangedAt = &changedAt

	tok, err := s.tokens.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

// UpdateDetails changes the username, keeping uniqueness.
func (s *AuthServiceImpl) UpdateDetails(ctx context.Context, userID uuid.UUID, username string) (*model.User, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", errs.ErrValidation)
	}
	if err := s.users.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns every account.
func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}
