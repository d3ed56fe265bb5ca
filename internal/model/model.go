// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool { return r == RoleUser || r == RoleAdmin }

// User represents an account. Credential material is never serialized.
type User struct {
	ID                uuid.UUID  `json:"id"`
	Username          string     `json:"username"`
	PwdHash           []byte     `json:"-"`
	SaltAuth          []byte     `json:"-"`
	Role              Role       `json:"role"`
	PasswordChangedAt *time.Time `json:"-"` // nil until the first password change
	CreatedAt         time.Time  `json:"createdAt"`
}

// Checklist is a named, user-owned container of ordered tasks.
type Checklist struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Task is a single checklist entry. UserID always mirrors the owning
// checklist's UserID; it is set server-side, never taken from a client.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	ChecklistID uuid.UUID  `json:"checklist"`
	UserID      uuid.UUID  `json:"user"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Position    int        `json:"position"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// PositionUpdate is one (task, new position) pair of a bulk reorder.
type PositionUpdate struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

// Owned is implemented by every entity subject to ownership checks.
type Owned interface {
	OwnerID() uuid.UUID
}

func (c *Checklist) OwnerID() uuid.UUID { return c.UserID }

func (t *Task) OwnerID() uuid.UUID { return t.UserID }
