// Package repository declares the data-access interfaces the service
// layer programs against. The sqlite subpackage implements them; tests
// substitute in-memory fakes.
package repository

import (
	"context"
	"time"

	"github.com/baraus/tutorhub/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateAvatar(ctx context.Context, id int64, avatar string) error
	// SetResetToken stores a pending password-reset token and its expiry
	// on the user row.
	SetResetToken(ctx context.Context, email, token string, expires time.Time) error
	// ResetPassword swaps in a new password hash and clears the reset
	// token fields in a single statement, so a consumed token can never
	// authorize a second reset.
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
}

// ClassFilter narrows a class listing. Zero values mean "no filter";
// WeekDay uses -1 for "any" because 0 is a valid day (Sunday).
type ClassFilter struct {
	UserID          int64
	SubjectID       int64
	WeekDay         int
	IncludeSchedule bool
}

// ClassRepository persists teaching offerings and their weekly slots.
type ClassRepository interface {
	// Create inserts the class and all its schedule slots atomically.
	Create(ctx context.Context, class *model.Class) error
	List(ctx context.Context, filter ClassFilter) ([]model.Class, error)
}

// SubjectRepository reads the seeded subject taxonomy.
type SubjectRepository interface {
	List(ctx context.Context) ([]model.Subject, error)
	GetByID(ctx context.Context, id int64) (*model.Subject, error)
}

// ConnectionRepository persists contact events.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *model.Connection) error
	List(ctx context.Context) ([]model.Connection, error)
	Count(ctx context.Context) (int, error)
}
