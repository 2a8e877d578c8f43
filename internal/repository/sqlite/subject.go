package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/baraus/tutorhub/internal/apperror"
	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

var _ repository.SubjectRepository = (*SubjectStore)(nil)

// List returns the seeded taxonomy, alphabetically.
func (db *SubjectStore) List(ctx context.Context) ([]model.Subject, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, slug FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing subjects: %w", err)
	}
	defer rows.Close()

	subjects := []model.Subject{}
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug); err != nil {
			return nil, fmt.Errorf("sqlite: scanning subject: %w", err)
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// GetByID returns one taxonomy entry.
// Returns apperror.ErrNotFound for an unknown id.
func (db *SubjectStore) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	var s model.Subject
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, slug FROM subjects WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.Slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("subject", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting subject %d: %w", id, err)
	}
	return &s, nil
}
