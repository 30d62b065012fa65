package entity

import "time"

// Project types supported by the builder.
const (
	TypeWebsite = "website"
	TypeMobile  = "mobile"
	TypeHybrid  = "hybrid"
)

// Project is a user-owned workspace. OwnerID is set at creation and never
// changes; there is no transfer operation.
type Project struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	ProjectType string    `json:"project_type,omitempty" db:"project_type"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	TemplateID  string    `json:"template_id,omitempty" db:"template_id"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ValidType reports whether t is empty or one of the known project types.
func ValidType(t string) bool {
	switch t {
	case "", TypeWebsite, TypeMobile, TypeHybrid:
		return true
	}
	return false
}
