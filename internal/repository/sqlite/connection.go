package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

var _ repository.ConnectionRepository = (*ConnectionStore)(nil)

// Create records one contact event. SubjectID 0 is stored as NULL.
func (db *ConnectionStore) Create(ctx context.Context, conn *model.Connection) error {
	conn.CreatedAt = time.Now()

	var subjectID any
	if conn.SubjectID != 0 {
		subjectID = conn.SubjectID
	}

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO connections (user_id, subject_id, created_at) VALUES (?, ?, ?)`,
		conn.UserID, subjectID, conn.CreatedAt)
	if err != nil {
		return fmt.Errorf("sqlite: inserting connection: %w", err)
	}

	conn.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new connection id: %w", err)
	}
	return nil
}

// List returns all connections, newest first.
func (db *ConnectionStore) List(ctx context.Context) ([]model.Connection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, subject_id, created_at
		 FROM connections ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing connections: %w", err)
	}
	defer rows.Close()

	conns := []model.Connection{}
	for rows.Next() {
		var (
			c         model.Connection
			subjectID sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &subjectID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning connection: %w", err)
		}
		c.SubjectID = subjectID.Int64
		conns = append(conns, c)
	}
	return conns, rows.Err()
}

// Count returns the total number of recorded connections.
func (db *ConnectionStore) Count(ctx context.Context) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM connections`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting connections: %w", err)
	}
	return n, nil
}
