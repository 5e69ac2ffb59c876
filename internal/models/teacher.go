package models

// Teacher represents an instructor account.
type Teacher struct {
	ID           string `db:"id" json:"id"`
	FullName     string `db:"fullname" json:"fullname"`
	Email        string `db:"email" json:"email"`
	PasswordHash string `db:"password_hash" json:"-"`
	Department   string `db:"department" json:"department"`
	EmpID        string `db:"emp_id" json:"emp_id"`
}
