package models

// Account types accepted by the login endpoint.
const (
	AccountTypeTeacher = "teacher"
	AccountTypeStudent = "student"
)

// UserInfo is the minimal public identity view returned on login. The
// credential never leaves the identity store.
type UserInfo struct {
	ID       string `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Type     string `json:"type"`
}
