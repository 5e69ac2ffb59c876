package models

// Wire formats for dates and times in report payloads.
const (
	ReportDateLayout = "2006-01-02"
	ReportTimeLayout = "15:04:05"
)

// RosterItem is one student entry in a teacher-facing session record.
type RosterItem struct {
	Name     string `json:"name"`
	RollNo   string `json:"roll_no"`
	MarkedAt string `json:"marked_at"`
}

// SessionRecord summarises one session for the teacher records view.
type SessionRecord struct {
	SessionID       string       `json:"session_id"`
	Subject         string       `json:"subject"`
	ClassSection    string       `json:"class_section"`
	Date            string       `json:"date"`
	Time            string       `json:"time"`
	AttendanceCount int          `json:"attendance_count"`
	Students        []RosterItem `json:"students"`
}

// HistoryItem is one row of a student's attendance history.
type HistoryItem struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	Subject      string `json:"subject"`
	ClassSection string `json:"class_section"`
	Teacher      string `json:"teacher"`
	MarkedAt     string `json:"marked_at"`
}
