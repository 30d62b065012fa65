package entity

import "time"

// Collaborator grants a user a role on someone else's project.
// Roles: viewer, editor, admin.
type Collaborator struct {
	ProjectID string    `json:"project_id" db:"project_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
}
