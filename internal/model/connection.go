package model

import "time"

// Connection records a contact event: a prospective student asked for a
// teacher's contact details. SubjectID is 0 when the contact was not
// tied to a particular subject.
type Connection struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	SubjectID int64     `json:"subjectId,omitempty" db:"subject_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
