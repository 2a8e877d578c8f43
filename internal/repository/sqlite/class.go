package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/baraus/tutorhub/internal/model"
	"github.com/baraus/tutorhub/internal/repository"
)

var _ repository.ClassRepository = (*ClassStore)(nil)

// Create inserts the class and its schedule slots in one transaction;
// a class with half its slots is worse than no class at all.
func (db *ClassStore) Create(ctx context.Context, class *model.Class) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning class transaction: %w", err)
	}
	// Rollback after Commit is a no-op, so the defer is always safe.
	defer tx.Rollback()

	class.CreatedAt = time.Now()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO classes (user_id, subject_id, cost, summary, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		class.UserID,
		class.SubjectID,
		class.Cost,
		class.Summary,
		class.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting class: %w", err)
	}

	class.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading new class id: %w", err)
	}

	for i := range class.Schedule {
		slot := &class.Schedule[i]
		slot.ClassID = class.ID

		slotRes, err := tx.ExecContext(ctx,
			`INSERT INTO class_schedule (class_id, week_day, from_minutes, to_minutes)
			 VALUES (?, ?, ?, ?)`,
			slot.ClassID,
			slot.WeekDay,
			slot.From,
			slot.To,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting schedule slot: %w", err)
		}
		slot.ID, err = slotRes.LastInsertId()
		if err != nil {
			return fmt.Errorf("sqlite: reading new slot id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing class: %w", err)
	}
	return nil
}

// List returns classes joined with their owner and subject, newest
// first, narrowed by the filter. Schedule slots are attached when the
// filter asks for them.
func (db *ClassStore) List(ctx context.Context, filter repository.ClassFilter) ([]model.Class, error) {
	query := `SELECT c.id, c.user_id, c.subject_id, c.cost, c.summary, c.created_at,
		s.name, u.name, u.surname, u.avatar, COALESCE(u.whatsapp, '')
		FROM classes c
		JOIN users u ON c.user_id = u.id
		JOIN subjects s ON c.subject_id = s.id
		WHERE 1=1`
	var args []any

	if filter.UserID != 0 {
		query += ` AND c.user_id = ?`
		args = append(args, filter.UserID)
	}
	if filter.SubjectID != 0 {
		query += ` AND c.subject_id = ?`
		args = append(args, filter.SubjectID)
	}
	if filter.WeekDay >= 0 {
		query += ` AND EXISTS (
			SELECT 1 FROM class_schedule cs
			WHERE cs.class_id = c.id AND cs.week_day = ?)`
		args = append(args, filter.WeekDay)
	}
	query += ` ORDER BY c.created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing classes: %w", err)
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.SubjectID,
			&c.Cost,
			&c.Summary,
			&c.CreatedAt,
			&c.Subject,
			&c.TeacherName,
			&c.TeacherSurname,
			&c.TeacherAvatar,
			&c.TeacherWhatsapp,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning class row: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating class rows: %w", err)
	}

	if filter.IncludeSchedule {
		for i := range classes {
			schedule, err := db.scheduleForClass(ctx, classes[i].ID)
			if err != nil {
				return nil, err
			}
			classes[i].Schedule = schedule
		}
	}

	return classes, nil
}

func (db *ClassStore) scheduleForClass(ctx context.Context, classID int64) ([]model.ScheduleSlot, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, class_id, week_day, from_minutes, to_minutes
		 FROM class_schedule WHERE class_id = ?
		 ORDER BY week_day, from_minutes`,
		classID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing schedule for class %d: %w", classID, err)
	}
	defer rows.Close()

	slots := []model.ScheduleSlot{}
	for rows.Next() {
		var s model.ScheduleSlot
		if err := rows.Scan(&s.ID, &s.ClassID, &s.WeekDay, &s.From, &s.To); err != nil {
			return nil, fmt.Errorf("sqlite: scanning schedule slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
