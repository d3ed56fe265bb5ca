package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/model"
)

// TaskRepository provides access to tasks and their ordering.
type TaskRepository interface {
	// Create inserts a new task with its position already assigned.
	Create(ctx context.Context, t *model.Task) error
	// GetByID loads a task by ID regardless of owner.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	// ListByChecklist returns the checklist's tasks ordered by position ASC.
	ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]model.Task, error)
	// MaxPosition returns the highest position within a checklist, or -1
	// when the checklist has no tasks.
	MaxPosition(ctx context.Context, checklistID uuid.UUID) (int, error)
	// Update rewrites title, completed and completedAt.
	Update(ctx context.Context, t *model.Task) error
	// ReorderBatch applies all position updates in one transaction.
	// Pairs whose task does not belong to the checklist match nothing and
	// are skipped without error; any failure rolls back the whole batch.
	ReorderBatch(ctx context.Context, checklistID uuid.UUID, updates []model.PositionUpdate) error
	// Delete removes a single task.
	Delete(ctx context.Context, id uuid.UUID) error
}
