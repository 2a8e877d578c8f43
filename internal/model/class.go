package model

import "time"

// Subject is one entry of the fixed subject taxonomy classes are filed
// under. The slug is URL-safe and derived from the name at seed time.
type Subject struct {
	ID   int64  `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Class is a teaching offering: one user teaching one subject at an
// hourly cost, with a free-text summary and a weekly schedule.
//
// The Teacher* and Subject fields are denormalised from the users and
// subjects tables when listing; they exist so a listing response is
// renderable without further lookups. They are empty on insert.
type Class struct {
	ID        int64     `json:"id"        db:"id"`
	UserID    int64     `json:"userId"    db:"user_id"`
	SubjectID int64     `json:"subjectId" db:"subject_id"`
	Cost      float64   `json:"cost"      db:"cost"`
	Summary   string    `json:"summary"   db:"summary"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Subject         string `json:"subject,omitempty"`
	TeacherName     string `json:"teacherName,omitempty"`
	TeacherSurname  string `json:"teacherSurname,omitempty"`
	TeacherAvatar   string `json:"teacherAvatar,omitempty"`
	TeacherWhatsapp string `json:"teacherWhatsapp,omitempty"`

	Schedule []ScheduleSlot `json:"schedule,omitempty"`
}

// ScheduleSlot is one weekly availability window of a class.
// WeekDay is 0 (Sunday) through 6 (Saturday); From and To are minutes
// from midnight, so "8:00"–"10:30" is stored as 480–630. Storing
// minutes keeps range queries a plain integer comparison.
type ScheduleSlot struct {
	ID      int64 `json:"id"      db:"id"`
	ClassID int64 `json:"classId" db:"class_id"`
	WeekDay int   `json:"weekDay" db:"week_day"`
	From    int   `json:"from"    db:"from_minutes"`
	To      int   `json:"to"      db:"to_minutes"`
}
