package models

// Student represents a student account.
type Student struct {
	ID           string `db:"id" json:"id"`
	FullName     string `db:"fullname" json:"fullname"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	RollNo       string `db:"roll_no" json:"roll_no"`
	Course       string `db:"course" json:"course"`
	Year         string `db:"year" json:"year"`
	Section      string `db:"section" json:"section"`
}
