package models

// Subject is a named course owned by a single teacher. The (teacher, name)
// pair is unique.
type Subject struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	TeacherID string `db:"teacher_id" json:"teacher_id"`
}

// SubjectView is the listing shape exposed to teachers.
type SubjectView struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
