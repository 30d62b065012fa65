package entity

import (
	"encoding/json"
	"time"
)

// Component is a UI building block attached to a project. Styles and
// Position are free-form JSON the frontend editor owns.
type Component struct {
	ID            string          `json:"id" db:"id"`
	ProjectID     string          `json:"project_id" db:"project_id"`
	Name          string          `json:"name" db:"name"`
	ComponentType string          `json:"type" db:"component_type"`
	Content       string          `json:"content,omitempty" db:"content"`
	Styles        json.RawMessage `json:"styles,omitempty" db:"styles"`
	Position      json.RawMessage `json:"position,omitempty" db:"position"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
