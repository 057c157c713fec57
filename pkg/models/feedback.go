package models

import "time"

// Feedback is a persisted private review captured on the negative branch.
type Feedback struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id" validate:"required"`
	Rating    int       `json:"rating"     validate:"required,min=1,max=5"`
	Name      string    `json:"name"       validate:"required"`
	Email     string    `json:"email"      validate:"required,email"`
	Text      string    `json:"text"       validate:"required"`
	CreatedAt time.Time `json:"created_at"`
}

// VideoTestimonial is a stored video review asset plus its consent record.
type VideoTestimonial struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id" validate:"required"`
	FileName  string    `json:"file_name"  validate:"required"`
	Name      string    `json:"name"       validate:"required"`
	Email     string    `json:"email"      validate:"required,email"`
	Consent   bool      `json:"consent"`
	AssetRef  string    `json:"asset_ref,omitempty"` // Set by the video store on upload
	CreatedAt time.Time `json:"created_at"`
}
