package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

const userColumns = `id, name, surname, email, password, whatsapp, bio,
	avatar, password_token, password_token_expires, created_at`

// scanUser reads one users row, folding the nullable columns into
// their Go zero values so the model stays free of sql.Null types.
func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var (
		u            model.User
		whatsapp     sql.NullString
		bio          sql.NullString
		token        sql.NullString
		tokenExpires sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Surname,
		&u.Email,
		&u.PasswordHash,
		&whatsapp,
		&bio,
		&u.Avatar,
		&token,
		&tokenExpires,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Whatsapp = whatsapp.String
	u.Bio = bio.String
	u.PasswordToken = token.String
	u.PasswordTokenExpires = tokenExpires.Time
	return &u, nil
}

// Create inserts a new user and populates ID and CreatedAt.
// A violated email UNIQUE constraint comes back as apperror.ErrConflict
// so the race between the service-level duplicate check and the insert
// still ends in the right error kind.
func (db *UserStore) Create(ctx context.Context, user *model.User) error {
	user.CreatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (name, surname, email, password, whatsapp, bio, avatar, created_at)
		 VALUES (?, ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?, ?)`,
		user.Name,
		user.Surname,
		user.Email,
		user.PasswordHash,
		user.Whatsapp,
		user.Bio,
		user.Avatar,
		user.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user", "email already in use")
		}
		return fmt.Errorf("sqlite: inserting user %s: %w", user.Email, err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new user id: %w", err)
	}
	return nil
}

// GetByID retrieves a user by primary key.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}
	return u, nil
}

// GetByEmail retrieves a user by their unique email.
func (db *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email %s: %w", email, err)
	}
	return u, nil
}

// Update writes the mutable profile fields back to the row.
func (db *UserStore) Update(ctx context.Context, user *model.User) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET name = ?, surname = ?, email = ?,
		 whatsapp = NULLIF(?, ''), bio = NULLIF(?, '')
		 WHERE id = ?`,
		user.Name,
		user.Surname,
		user.Email,
		user.Whatsapp,
		user.Bio,
		user.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			return apperror.Conflict("user", "email already in use")
		}
		return fmt.Errorf("sqlite: updating user %d: %w", user.ID, err)
	}
	return nil
}

// UpdateAvatar replaces only the avatar URL.
func (db *UserStore) UpdateAvatar(ctx context.Context, id int64, avatar string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET avatar = ? WHERE id = ?`, avatar, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating avatar for user %d: %w", id, err)
	}
	return nil
}

// SetResetToken stores a pending password-reset token and its expiry.
func (db *UserStore) SetResetToken(ctx context.Context, email, token string, expires time.Time) error {
	res, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password_token = ?, password_token_expires = ? WHERE email = ?`,
		token, expires, email)
	if err != nil {
		return fmt.Errorf("sqlite: setting reset token for %s: %w", email, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("user", email)
	}
	return nil
}

// ResetPassword swaps in the new hash and clears the token fields in
// one statement; once consumed, the token cannot authorize again.
func (db *UserStore) ResetPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := db.conn.ExecContext(ctx,
		`UPDATE users SET password = ?, password_token = NULL, password_token_expires = NULL
		 WHERE id = ?`,
		passwordHash, id)
	if err != nil {
		return fmt.Errorf("sqlite: resetting password for user %d: %w", id, err)
	}
	return nil
}
