package models

import "time"

// PlatformVideoTestimonial is the platform ID of the built-in video
// testimonial destination. Links carrying it are always eligible on the
// positive branch, even without a real URL.
const PlatformVideoTestimonial = "video-testimonial"

// VideoUploadSentinelURL marks a link that routes into the in-funnel video
// upload screen instead of an external site.
const VideoUploadSentinelURL = "upload://video-testimonial"

// PlatformLink is a configured destination a customer may be sent to after a
// positive rating. Display order is stable: toggling IsActive never re-sorts.
type PlatformLink struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"       validate:"required"`
	URL        string    `json:"url"`
	ButtonText string    `json:"button_text,omitempty"`
	IsActive   bool      `json:"is_active"`
	PlatformID string    `json:"platform_id" validate:"required"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Label returns the button caption, defaulting to "Submit on {title}" when no
// explicit button text is configured.
func (l *PlatformLink) Label() string {
	if l.ButtonText != "" {
		return l.ButtonText
	}

	return "Submit on " + l.Title
}

// IsVideoTestimonial reports whether the link routes into the video upload
// screen rather than an external review site.
func (l *PlatformLink) IsVideoTestimonial() bool {
	return l.PlatformID == PlatformVideoTestimonial || l.URL == VideoUploadSentinelURL
}
