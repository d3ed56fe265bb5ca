package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/model"
)

// ChecklistRepository provides access to user-owned checklists.
type ChecklistRepository interface {
	// Create inserts a new checklist.
	Create(ctx context.Context, c *model.Checklist) error
	// GetByID loads a checklist by ID regardless of owner.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Checklist, error)
	// ListByUser returns the user's checklists, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Checklist, error)
	// Update rewrites title and description.
	Update(ctx context.Context, c *model.Checklist) error
	// Delete removes the checklist and all of its tasks atomically.
	Delete(ctx context.Context, id uuid.UUID) error
}
