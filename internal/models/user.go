package models

// User types as stored in the session.
const (
	UserTypeEmployee = "Employee"
	UserTypeAdmin    = "Admin"
)

// User is the session identity. The authentication gate validates it before
// any of this code runs, so it is passed around as a value, never re-read
// from ambient storage.
type User struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}
