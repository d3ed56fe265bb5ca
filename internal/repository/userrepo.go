// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/model"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByUsername loads a user by username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// UpdateUsername changes the username.
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) error
	// UpdatePassword stores a new hash/salt pair and the change timestamp.
	UpdatePassword(ctx context.Context, id uuid.UUID, hash, salt []byte, changedAt time.Time) error
	// List returns all users (admin surface).
	List(ctx context.Context) ([]model.User, error)
}
