package service

import (
	"context"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/limiter"
	"github.com/eklimov/taskdeck/internal/model"
	"github.com/eklimov/taskdeck/internal/repository"
)

// In-memory repositories shared by the service tests.

type fakeUsers struct {
	byID map[uuid.UUID]*model.User

	createErr error
	getErr    error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uuid.UUID]*model.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, e := range f.byID {
		if e.Username == u.Username {
			return errs.ErrAlreadyExists
		}
	}
	cpy := *u
	f.byID[u.ID] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) UpdateUsername(_ context.Context, id uuid.UUID, username string) error {
	for uid, u := range f.byID {
		if uid != id && u.Username == username {
			return errs.ErrAlreadyExists
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.Username = username
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash, salt []byte, changedAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return errs.ErrNotFound
	}
	u.PwdHash = append([]byte(nil), hash...)
	u.SaltAuth = append([]byte(nil), salt...)
	u.PasswordChangedAt = &changedAt
	return nil
}

func (f *fakeUsers) List(context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, *u)
	}
	return out, nil
}

type fakeChecklists struct {
	byID map[uuid.UUID]*model.Checklist

	deleted []uuid.UUID
}

var _ repository.ChecklistRepository = (*fakeChecklists)(nil)

func newFakeChecklists() *fakeChecklists {
	return &fakeChecklists{byID: map[uuid.UUID]*model.Checklist{}}
}

func (f *fakeChecklists) Create(_ context.Context, c *model.Checklist) error {
	cpy := *c
	f.byID[c.ID] = &cpy
	return nil
}

func (f *fakeChecklists) GetByID(_ context.Context, id uuid.UUID) (*model.Checklist, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *c
	return &cpy, nil
}

func (f *fakeChecklists) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Checklist, error) {
	var out []model.Checklist
	for _, c := range f.byID {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChecklists) Update(_ context.Context, c *model.Checklist) error {
	if _, ok := f.byID[c.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *c
	f.byID[c.ID] = &cpy
	return nil
}

func (f *fakeChecklists) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTasks struct {
	byID map[uuid.UUID]*model.Task

	reorderErr error
}

var _ repository.TaskRepository = (*fakeTasks)(nil)

func newFakeTasks() *fakeTasks { return &fakeTasks{byID: map[uuid.UUID]*model.Task{}} }

func (f *fakeTasks) Create(_ context.Context, t *model.Task) error {
	cpy := *t
	f.byID[t.ID] = &cpy
	return nil
}

func (f *fakeTasks) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *t
	return &cpy, nil
}

func (f *fakeTasks) ListByChecklist(_ context.Context, checklistID uuid.UUID) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.byID {
		if t.ChecklistID == checklistID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakeTasks) MaxPosition(_ context.Context, checklistID uuid.UUID) (int, error) {
	max := -1
	for _, t := range f.byID {
		if t.ChecklistID == checklistID && t.Position > max {
			max = t.Position
		}
	}
	return max, nil
}

func (f *fakeTasks) Update(_ context.Context, t *model.Task) error {
	if _, ok := f.byID[t.ID]; !ok {
		return errs.ErrNotFound
	}
	cpy := *t
	f.byID[t.ID] = &cpy
	return nil
}

func (f *fakeTasks) ReorderBatch(_ context.Context, checklistID uuid.UUID, updates []model.PositionUpdate) error {
	if f.reorderErr != nil {
		// all-or-nothing: leave state untouched on failure
		return f.reorderErr
	}
	for _, up := range updates {
		t, ok := f.byID[up.ID]
		if !ok || t.ChecklistID != checklistID {
			continue // silent skip, same as the SQL filter
		}
		t.Position = up.Position
	}
	return nil
}

func (f *fakeTasks) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}
