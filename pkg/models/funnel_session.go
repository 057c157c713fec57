package models

import "time"

// FunnelState is the screen a customer session is currently on.
type FunnelState string

const (
	FunnelStateInitial     FunnelState = "initial"
	FunnelStatePositive    FunnelState = "positive"
	FunnelStateNegative    FunnelState = "negative"
	FunnelStateVideoUpload FunnelState = "video_upload"
	FunnelStateSuccess     FunnelState = "success"
)

// FeedbackDraft holds the private-feedback form fields collected on the
// negative branch before submission.
type FeedbackDraft struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Text  string `json:"text,omitempty"`
}

// VideoDraft holds the video testimonial form fields. Submission stays
// disabled until every field, including consent, is present.
type VideoDraft struct {
	FileName string `json:"file_name,omitempty"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Consent  bool   `json:"consent"`
}

// FunnelSession is one customer's pass through the rating funnel. It is owned
// by a single browser session; all inputs arrive sequentially, so the session
// never sees concurrent transitions.
type FunnelSession struct {
	ID        string        `json:"id"`
	State     FunnelState   `json:"state"`
	Rating    int           `json:"rating,omitempty"`
	Feedback  FeedbackDraft `json:"feedback"`
	Video     VideoDraft    `json:"video"`
	ResetAt   *time.Time    `json:"reset_at,omitempty"` // Set while in Success
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Reset returns the session to the initial screen, clearing the rating and
// every collected form field.
func (s *FunnelSession) Reset(now time.Time) {
	s.State = FunnelStateInitial
	s.Rating = 0
	s.Feedback = FeedbackDraft{}
	s.Video = VideoDraft{}
	s.ResetAt = nil
	s.UpdatedAt = now
}
