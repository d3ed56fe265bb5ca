package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

// ChecklistRepo implements ChecklistRepository using PostgreSQL.
type ChecklistRepo struct{ db *DB }

// NewChecklistRepo constructs a checklist repository.
func NewChecklistRepo(db *DB) *ChecklistRepo { return &ChecklistRepo{db: db} }

// Create inserts a new checklist row.
func (r *ChecklistRepo) Create(ctx context.Context, c *model.Checklist) error {
	const q = `
INSERT INTO checklists (id, user_id, title, description)
VALUES ($1, $2, $3, $4)`
	_, err := r.db.Pool.Exec(ctx, q, c.ID, c.UserID, c.Title, c.Description)
	return err
}

// GetByID selects a checklist by ID.
func (r *ChecklistRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Checklist, error) {
	const q = `
SELECT id, user_id, title, description, created_at
FROM checklists WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	var c model.Checklist
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.CreatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &c, nil
}

// ListByUser selects the user's checklists, newest first.
func (r *ChecklistRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Checklist, error) {
	const q = `
SELECT id, user_id, title, description, created_at
FROM checklists WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Checklist
	for rows.Next() {
		var c model.Checklist
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update rewrites title and description.
func (r *ChecklistRepo) Update(ctx context.Context, c *model.Checklist) error {
	const q = `UPDATE checklists SET title=$2, description=$3 WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, c.ID, c.Title, c.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the checklist and cascades to its tasks in one transaction.
func (r *ChecklistRepo) Delete(ctx context.Context, id uuid.UUID) (err error) {
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

	if _, err = tx.Exec(ctx, `DELETE FROM tasks WHERE checklist_id=$1`, id); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM checklists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
