package entity

import "time"

// Roles affect the daily edit quota, nothing else.
const (
	RoleBeginner = "beginner"
	RoleAdvanced = "advanced"
)

// User represents an account row in the `users` table. The password hash is
// never serialized and never leaves the service layer.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	DailyEdits   int        `json:"-" db:"daily_edits"`
	LastEditDate *time.Time `json:"-" db:"last_edit_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// EditLimit returns the number of component edits a user may make per day.
func (u *User) EditLimit() int {
	if u.Role == RoleAdvanced {
		return 25
	}
	return 10
}
