package models

import "time"

// AttendanceMark records one student's presence for one session. The
// (session_id, student_id) pair is unique; marks are never updated or
// deleted.
type AttendanceMark struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	MarkedAt  time.Time `db:"marked_at" json:"marked_at"`
}

// RosterRow is one student row of a session roster as read from storage,
// ordered by mark time.
type RosterRow struct {
	Name     string    `db:"name"`
	RollNo   string    `db:"roll_no"`
	MarkedAt time.Time `db:"marked_at"`
}

// HistoryRow is one mark of a student joined with its session context.
// Dangling subject/teacher references read as "Unknown" rather than failing
// the whole query.
type HistoryRow struct {
	SessionCreatedAt time.Time `db:"created_at"`
	MarkedAt         time.Time `db:"marked_at"`
	Subject          string    `db:"subject"`
	Teacher          string    `db:"teacher"`
	ClassSection     string    `db:"class_section"`
}
