package entity

import "time"

// Template is a reusable page/app scaffold that projects can start from.
// IsPremium only tags the record; billing is out of scope here.
type Template struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description,omitempty" db:"description"`
	Category     string    `json:"category,omitempty" db:"category"`
	PreviewImage string    `json:"preview_image,omitempty" db:"preview_image"`
	CreatorID    string    `json:"creator_id" db:"creator_id"`
	IsPremium    bool      `json:"is_premium" db:"is_premium"`
	HTMLContent  string    `json:"html_content,omitempty" db:"html_content"`
	CSSContent   string    `json:"css_content,omitempty" db:"css_content"`
	JSContent    string    `json:"js_content,omitempty" db:"js_content"`
	Version      int64     `json:"version" db:"version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
