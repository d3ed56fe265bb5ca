package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

// TaskRepo implements TaskRepository using PostgreSQL.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

// Create inserts a new task row. Position must already be assigned.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	const q = `
INSERT INTO tasks (id, checklist_id, user_id, title, completed, completed_at, position)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, t.ID, t.ChecklistID, t.UserID, t.Title, t.Completed, t.CompletedAt, t.Position)
	return err
}

// GetByID selects a task by ID.
func (r *TaskRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	const q = `
SELECT id, checklist_id, user_id, title, completed, completed_at, position, created_at
FROM tasks WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var t model.Task
	if err := row.Scan(&t.ID, &t.ChecklistID, &t.UserID, &t.Title, &t.Completed, &t.CompletedAt, &t.Position, &t.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &t, nil
}

// ListByChecklist selects the checklist's tasks ordered by position.
func (r *TaskRepo) ListByChecklist(ctx context.Context, checklistID uuid.UUID) ([]model.Task, error) {
	const q = `
SELECT id, checklist_id, user_id, title, completed, completed_at, position, created_at
FROM tasks WHERE checklist_id=$1 ORDER BY position ASC`
	rows, err := r.db.Pool.Query(ctx, q, checklistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.ChecklistID, &t.UserID, &t.Title, &t.Completed, &t.CompletedAt, &t.Position, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MaxPosition returns the highest position in a checklist, -1 when empty.
func (r *TaskRepo) MaxPosition(ctx context.Context, checklistID uuid.UUID) (int, error) {
	const q = `SELECT COALESCE(MAX(position), -1) FROM tasks WHERE checklist_id=$1`
	var max int
	if err := r.db.Pool.QueryRow(ctx, q, checklistID).Scan(&max); err != nil {
		return 0, err
	}
	return max, nil
}

// Update rewrites the mutable task fields.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	const q = `
UPDATE tasks SET title=$2, completed=$3, completed_at=$4, position=$5 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, t.ID, t.Title, t.Completed, t.CompletedAt, t.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// ReorderBatch applies all position updates in one transaction. Each update
// is scoped to the checklist, so a pair referencing a task from another
// checklist affects zero rows and is skipped. Any statement error aborts the
// whole batch, leaving positions untouched.
func (r *TaskRepo) ReorderBatch(ctx context.Context, checklistID uuid.UUID, updates []model.PositionUpdate) (err error) {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.db.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if e := tx.Commit(ctx); e != nil {
			err = e
		}
	}()

	const q = `UPDATE tasks SET position=$3 WHERE id=$1 AND checklist_id=$2`
	for _, up := range updates {
		if _, err = tx.Exec(ctx, q, up.ID, checklistID, up.Position); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a single task.
func (r *TaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
