package models

import "time"

// AttendanceSession is one class meeting collecting attendance. The id is a
// random 128-bit token in textual form and doubles as the session identity
// inside the scannable payload. is_active defaults true and no code path
// flips it; sessions stay open to marks indefinitely.
type AttendanceSession struct {
	ID           string    `db:"id" json:"id"`
	TeacherID    string    `db:"teacher_id" json:"teacher_id"`
	SubjectID    string    `db:"subject_id" json:"subject_id"`
	ClassSection string    `db:"class_section" json:"class_section"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	IsActive     bool      `db:"is_active" json:"is_active"`
}

// SessionPayload is the canonical content of the scannable code. Field order
// is the canonical serialization order; decoding the payload reproduces the
// session id unchanged. The payload is not signed.
type SessionPayload struct {
	SessionID    string `json:"session_id"`
	Subject      string `json:"subject"`
	Teacher      string `json:"teacher"`
	ClassSection string `json:"class_section"`
}

// SessionInfo is the human-readable summary returned with a generated code.
type SessionInfo struct {
	Subject      string `json:"subject"`
	ClassSection string `json:"class_section"`
	Teacher      string `json:"teacher"`
}
