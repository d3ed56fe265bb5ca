package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

func testUser(role model.Role) *model.User {
	return &model.User{ID: uuid.Must(uuid.NewV4()), Username: "owner", Role: role}
}

func seedChecklist(f *fakeChecklists, owner *model.User) *model.Checklist {
	c := &model.Checklist{ID: uuid.Must(uuid.NewV4()), UserID: owner.ID, Title: "list"}
	f.byID[c.ID] = c
	return c
}

func TestTasks_Create_AppendsPositions(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl := seedChecklist(checklists, owner)

	for i := 0; i < 4; i++ {
		task, err := s.Create(context.Background(), owner, cl.ID, fmt.Sprintf("task-%d", i))
		if err != nil {
			t.Fatalf("Create[%d]: %v", i, err)
		}
		if task.Position != i {
			t.Fatalf("task %d: position=%d, want %d", i, task.Position, i)
		}
		if task.UserID != owner.ID {
			t.Fatalf("task owner mismatch")
		}
	}

	list, err := s.List(context.Background(), owner, cl.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for i, task := range list {
		if task.Position != i {
			t.Fatalf("list[%d].Position=%d", i, task.Position)
		}
	}
}

func TestTasks_Create_ForeignChecklistIsNotFound(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	stranger := testUser(model.RoleUser)
	admin := testUser(model.RoleAdmin)
	cl := seedChecklist(checklists, owner)

	// a stranger gets NotFound, not Forbidden, and nothing is created
	if _, err := s.Create(context.Background(), stranger, cl.ID, "sneaky"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
	if len(tasks.byID) != 0 {
		t.Fatalf("no task should have been created")
	}

	// admins bypass ownership; the task still belongs to the checklist owner
	task, err := s.Create(context.Background(), admin, cl.ID, "by admin")
	if err != nil {
		t.Fatalf("admin Create: %v", err)
	}
	if task.UserID != owner.ID {
		t.Fatalf("task.UserID=%s, want checklist owner %s", task.UserID, owner.ID)
	}
}

func TestTasks_Toggle_Twice_RestoresOriginalState(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl := seedChecklist(checklists, owner)
	task, err := s.Create(context.Background(), owner, cl.ID, "flip me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	done, err := s.Toggle(context.Background(), task)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !done.Completed || done.CompletedAt == nil {
		t.Fatalf("after first toggle: completed=%v completedAt=%v", done.Completed, done.CompletedAt)
	}

	back, err := s.Toggle(context.Background(), done)
	if err != nil {
		t.Fatalf("Toggle(2): %v", err)
	}
	if back.Completed || back.CompletedAt != nil {
		t.Fatalf("after second toggle: completed=%v completedAt=%v", back.Completed, back.CompletedAt)
	}
}

func TestTasks_Update_Patch(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl := seedChecklist(checklists, owner)
	task, _ := s.Create(context.Background(), owner, cl.ID, "before")

	title := "after"
	completed := true
	upd, err := s.Update(context.Background(), task, TaskPatch{Title: &title, Completed: &completed})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Title != "after" || !upd.Completed || upd.CompletedAt == nil {
		t.Fatalf("patch not applied: %+v", upd)
	}

	empty := ""
	if _, err := s.Update(context.Background(), upd, TaskPatch{Title: &empty}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}
}

func TestTasks_Reorder_AppliesScopedUpdates(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl := seedChecklist(checklists, owner)
	other := seedChecklist(checklists, owner)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		task, err := s.Create(context.Background(), owner, cl.ID, fmt.Sprintf("t%d", i))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		ids = append(ids, task.ID)
	}
	foreign, err := s.Create(context.Background(), owner, other.ID, "elsewhere")
	if err != nil {
		t.Fatalf("Create foreign: %v", err)
	}

	// swap first and last; mention a task from another checklist
	err = s.Reorder(context.Background(), owner, cl.ID, []model.PositionUpdate{
		{ID: ids[2], Position: 0},
		{ID: ids[0], Position: 2},
		{ID: foreign.ID, Position: 9},
	})
	if err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	list, _ := s.List(context.Background(), owner, cl.ID)
	want := []uuid.UUID{ids[2], ids[1], ids[0]}
	for i, task := range list {
		if task.ID != want[i] {
			t.Fatalf("list[%d]=%s, want %s", i, task.ID, want[i])
		}
	}
	// the foreign task's position is untouched
	got, _ := tasks.GetByID(context.Background(), foreign.ID)
	if got.Position != 0 {
		t.Fatalf("foreign position=%d, want 0", got.Position)
	}
}

func TestTasks_Reorder_Validation(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl := seedChecklist(checklists, owner)

	err := s.Reorder(context.Background(), owner, cl.ID, []model.PositionUpdate{
		{ID: uuid.Must(uuid.NewV4()), Position: -1},
	})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err=%v, want ErrValidation", err)
	}

	// reorder on someone else's checklist never reaches the store
	stranger := testUser(model.RoleUser)
	tasks.reorderErr = errors.New("must not be called")
	if err := s.Reorder(context.Background(), stranger, cl.ID, nil); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
