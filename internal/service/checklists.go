package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/repository"
)

const maxTitleLen = 100

// ChecklistService defines operations over user-owned checklists.
type ChecklistService interface {
	// Create inserts a checklist owned by the caller.
	Create(ctx context.Context, userID uuid.UUID, title, description string) (*model.Checklist, error)
	// List returns the caller's checklists, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Checklist, error)
	// Tasks returns the checklist's tasks ordered by position.
	Tasks(ctx context.Context, c *model.Checklist) ([]model.Task, error)
	// Update rewrites title/description on an already ownership-checked checklist.
	Update(ctx context.Context, c *model.Checklist, title, description string) (*model.Checklist, error)
	// Delete removes the checklist and all of its tasks.
	Delete(ctx context.Context, c *model.Checklist) error
}

type ChecklistServiceImpl struct {
	checklists repository.ChecklistRepository
	tasks      repository.TaskRepository
}

// NewChecklistService constructs ChecklistService.
func NewChecklistService(checklists repository.ChecklistRepository, tasks repository.TaskRepository) *ChecklistServiceImpl {
	return &ChecklistServiceImpl{checklists: checklists, tasks: tasks}
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: empty title", errs.ErrValidation)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title longer than %d", errs.ErrValidation, maxTitleLen)
	}
	return nil
}

// Create inserts a checklist owned by userID.
func (s *ChecklistServiceImpl) Create(ctx context.Context, userID uuid.UUID, title, description string) (*model.Checklist, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	c := &model.Checklist{ID: id, UserID: userID, Title: title, Description: description}
	if err := s.checklists.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns the user's checklists.
func (s *ChecklistServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.Checklist, error) {
	return s.checklists.ListByUser(ctx, userID)
}

// Tasks returns the checklist's tasks ordered by position. An empty checklist
// yields an empty slice, not an error.
func (s *ChecklistServiceImpl) Tasks(ctx context.Context, c *model.Checklist) ([]model.Task, error) {
	return s.tasks.ListByChecklist(ctx, c.ID)
}

// Update rewrites mutable fields.
func (s *ChecklistServiceImpl) Update(ctx context.Context, c *model.Checklist, title, description string) (*model.Checklist, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	c.Title = title
	c.Description = description
	if err := s.checklists.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes the checklist; its tasks go with it atomically.
func (s *ChecklistServiceImpl) Delete(ctx context.Context, c *model.Checklist) error {
	return s.checklists.Delete(ctx, c.ID)
}
