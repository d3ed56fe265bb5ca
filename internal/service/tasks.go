package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/repository"
)

// TaskPatch carries optional field updates for a task.
type TaskPatch struct {
	Title     *string
	Completed *bool
}

// TaskService maintains tasks and their ordering within a checklist.
type TaskService interface {
	// List returns the checklist's tasks ordered by position, after an
	// ownership check on the checklist.
	List(ctx context.Context, caller *model.User, checklistID uuid.UUID) ([]model.Task, error)
	// Create appends a task at position max+1 (0 for an empty checklist).
	Create(ctx context.Context, caller *model.User, checklistID uuid.UUID, title string) (*model.Task, error)
	// Update applies a patch to an already ownership-checked task.
	Update(ctx context.Context, t *model.Task, patch TaskPatch) (*model.Task, error)
	// Toggle flips completion, maintaining completedAt.
	Toggle(ctx context.Context, t *model.Task) (*model.Task, error)
	// Reorder atomically applies position updates scoped to one checklist.
	Reorder(ctx context.Context, caller *model.User, checklistID uuid.UUID, updates []model.PositionUpdate) error
	// Delete removes an already ownership-checked task.
	Delete(ctx context.Context, t *model.Task) error
}

type TaskServiceImpl struct {
	tasks      repository.TaskRepository
	checklists repository.ChecklistRepository
}

// NewTaskService constructs TaskService.
func NewTaskService(tasks repository.TaskRepository, checklists repository.ChecklistRepository) *TaskServiceImpl {
	return &TaskServiceImpl{tasks: tasks, checklists: checklists}
}

// checklistForCaller loads a checklist and enforces ownership. A foreign
// checklist surfaces as ErrNotFound, same as an absent one, unless the
// caller is an admin.
func (s *TaskServiceImpl) checklistForCaller(ctx context.Context, caller *model.User, checklistID uuid.UUID) (*model.Checklist, error) {
	c, err := s.checklists.GetByID(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID() != caller.ID && caller.Role != model.RoleAdmin {
		return nil, errs.ErrNotFound
	}
	return c, nil
}

// List returns tasks ordered by position.
func (s *TaskServiceImpl) List(ctx context.Context, caller *model.User, checklistID uuid.UUID) ([]model.Task, error) {
	if _, err := s.checklistForCaller(ctx, caller, checklistID); err != nil {
		return nil, err
	}
	return s.tasks.ListByChecklist(ctx, checklistID)
}

// Create appends a new task. The position read and the insert are two store
// round trips; concurrent creates on the same checklist may assign the same
// position (accepted, ordering becomes ambiguous but nothing is lost).
func (s *TaskServiceImpl) Create(ctx context.Context, caller *model.User, checklistID uuid.UUID, title string) (*model.Task, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	c, err := s.checklistForCaller(ctx, caller, checklistID)
	if err != nil {
		return nil, err
	}

	max, err := s.tasks.MaxPosition(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	t := &model.Task{
		ID:          id,
		ChecklistID: checklistID,
		UserID:      c.UserID, // always the checklist owner, never the caller
		Title:       title,
		Position:    max + 1,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update applies the patch. Completion set through a patch maintains
// completedAt the same way Toggle does.
func (s *TaskServiceImpl) Update(ctx context.Context, t *model.Task, patch TaskPatch) (*model.Task, error) {
	if patch.Title != nil {
		if err := validateTitle(*patch.Title); err != nil {
			return nil, err
		}
		t.Title = *patch.Title
	}
	if patch.Completed != nil && *patch.Completed != t.Completed {
		setCompleted(t, *patch.Completed)
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Toggle flips completion.
func (s *TaskServiceImpl) Toggle(ctx context.Context, t *model.Task) (*model.Task, error) {
	setCompleted(t, !t.Completed)
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func setCompleted(t *model.Task, done bool) {
	t.Completed = done
	if done {
		now := time.Now()
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
}

// Reorder applies the batch atomically after a checklist ownership check.
// Contiguity of the resulting positions is the caller's responsibility;
// pairs referencing tasks outside the checklist are silently skipped.
func (s *TaskServiceImpl) Reorder(ctx context.Context, caller *model.User, checklistID uuid.UUID, updates []model.PositionUpdate) error {
	if _, err := s.checklistForCaller(ctx, caller, checklistID); err != nil {
		return err
	}
	for i := range updates {
		if updates[i].Position < 0 {
			return fmt.Errorf("%w: negative position for task %s", errs.ErrValidation, updates[i].ID)
		}
	}
	return s.tasks.ReorderBatch(ctx, checklistID, updates)
}

// Delete removes the task.
func (s *TaskServiceImpl) Delete(ctx context.Context, t *model.Task) error {
	return s.tasks.Delete(ctx, t.ID)
}
