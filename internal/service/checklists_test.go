package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

func TestChecklists_CreateAndList(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	s := NewChecklistService(checklists, tasks)

	owner := testUser(model.RoleUser)

	if _, err := s.Create(context.Background(), owner.ID, "", ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("empty title: err=%v", err)
	}
	if _, err := s.Create(context.Background(), owner.ID, strings.Repeat("x", 101), ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("long title: err=%v", err)
	}

	c, err := s.Create(context.Background(), owner.ID, "errands", "weekly")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.UserID != owner.ID {
		t.Fatalf("owner mismatch")
	}

	list, err := s.List(context.Background(), owner.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List: %v, len=%d", err, len(list))
	}
}

func TestChecklists_DeleteCascades(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	tasks := newFakeTasks()
	cs := NewChecklistService(checklists, tasks)
	ts := NewTaskService(tasks, checklists)

	owner := testUser(model.RoleUser)
	cl, err := cs.Create(context.Background(), owner.ID, "doomed", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := ts.Create(context.Background(), owner, cl.ID, "a"); err != nil {
		t.Fatalf("task Create: %v", err)
	}

	if err := cs.Delete(context.Background(), cl); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(checklists.deleted) != 1 || checklists.deleted[0] != cl.ID {
		t.Fatalf("delete not recorded")
	}

	// the route now 404s at the ownership guard; the service reports NotFound
	if _, err := ts.List(context.Background(), owner, cl.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound after delete", err)
	}
}

func TestChecklists_Update(t *testing.T) {
	t.Parallel()
	checklists := newFakeChecklists()
	s := NewChecklistService(checklists, newFakeTasks())

	owner := testUser(model.RoleUser)
	c, _ := s.Create(context.Background(), owner.ID, "old", "")

	upd, err := s.Update(context.Background(), c, "new", "desc")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if upd.Title != "new" || upd.Description != "desc" {
		t.Fatalf("update not applied: %+v", upd)
	}

	stored, _ := checklists.GetByID(context.Background(), c.ID)
	if stored.Title != "new" {
		t.Fatalf("not persisted")
	}
}
