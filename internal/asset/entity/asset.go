package entity

import (
	"encoding/json"
	"time"
)

// Asset types derived from the uploaded file's extension.
const (
	TypeImage = "image"
	TypeVideo = "video"
	TypeFont  = "font"
	TypeOther = "other"
)

// Asset is an uploaded file attached to a project. Path is the on-disk
// location and never leaves the server; URL is what clients consume.
type Asset struct {
	ID        string          `json:"id" db:"id"`
	ProjectID string          `json:"project_id" db:"project_id"`
	Name      string          `json:"name" db:"name"`
	AssetType string          `json:"asset_type" db:"asset_type"`
	URL       string          `json:"url" db:"url"`
	Path      string          `json:"-" db:"path"`
	Metadata  json.RawMessage `json:"metadata,omitempty" db:"metadata"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
