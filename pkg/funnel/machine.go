package funnel

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/analytics"
	"github.com/reviewdrip/reviewdrip/pkg/events"
	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// UnconfiguredRedirectURL is recorded on redirect events when the selected
// platform has no URL configured, so operators can spot the gap.
const UnconfiguredRedirectURL = "unconfigured"

// defaultSuccessResetDelay is how long the Success screen shows before the
// session returns to Initial on its own.
const defaultSuccessResetDelay = 4 * time.Second

// VideoGate answers whether the video testimonial path is currently reachable.
type VideoGate interface {
	HasVideoTestimonial(ctx context.Context) (bool, error)
}

// Redirect is the outcome of a platform selection. NeedsConfiguration is set
// when the platform has no URL; the customer is shown a notice instead of
// being sent anywhere, but the redirect event is still recorded.
type Redirect struct {
	URL                string `json:"url"`
	Label              string `json:"label"`
	NeedsConfiguration bool   `json:"needs_configuration"`
}

// Machine drives funnel sessions through rating, outcome, and submission
// screens. Transitions are synchronous; tracking events are dispatched
// fire-and-forget and never gate or roll back a transition.
type Machine struct {
	feedback   persistence.FeedbackRepository
	videos     persistence.VideoRepository
	videoGate  VideoGate
	tracker    analytics.Sink
	logger     *slog.Logger
	resetDelay time.Duration
}

// NewMachine creates a funnel state machine.
func NewMachine(
	feedback persistence.FeedbackRepository,
	videos persistence.VideoRepository,
	videoGate VideoGate,
	tracker analytics.Sink,
	logger *slog.Logger,
) *Machine {
	return &Machine{
		feedback:   feedback,
		videos:     videos,
		videoGate:  videoGate,
		tracker:    tracker,
		logger:     logger,
		resetDelay: defaultSuccessResetDelay,
	}
}

// NewSession creates a fresh session on the initial screen.
func (m *Machine) NewSession() *models.FunnelSession {
	now := time.Now().UTC()

	return &models.FunnelSession{
		ID:        uuid.New().String(),
		State:     models.FunnelStateInitial,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rate routes the rating and moves the session onto the matching branch.
func (m *Machine) Rate(ctx context.Context, session *models.FunnelSession, rating int) error {
	if session.State != models.FunnelStateInitial {
		return ErrInvalidTransition
	}

	branch, err := RouteRating(rating)
	if err != nil {
		return err
	}

	session.Rating = rating
	session.UpdatedAt = time.Now().UTC()

	if branch == BranchPositive {
		session.State = models.FunnelStatePositive
	} else {
		session.State = models.FunnelStateNegative
	}

	m.tracker.Record(ctx, session.ID, events.StarSelected{
		BaseEvent: events.NewBaseEvent(events.StarSelectedEvent, session.ID),
		Rating:    rating,
		Branch:    string(branch),
	})

	return nil
}

// SelectPlatform resolves the redirect for a platform button on the positive
// screen. An unconfigured platform yields a needs-configuration notice; the
// redirect event is recorded either way.
func (m *Machine) SelectPlatform(ctx context.Context, session *models.FunnelSession, link *models.PlatformLink) (*Redirect, error) {
	if session.State != models.FunnelStatePositive {
		return nil, ErrInvalidTransition
	}

	redirect := &Redirect{
		URL:   link.URL,
		Label: link.Label(),
	}

	if strings.TrimSpace(link.URL) == "" {
		redirect.URL = UnconfiguredRedirectURL
		redirect.NeedsConfiguration = true

		m.logger.Warn("platform link has no URL configured",
			"platform_id", link.PlatformID,
			"session_id", session.ID,
		)
	}

	m.tracker.Record(ctx, session.ID, events.PlatformRedirect{
		BaseEvent:  events.NewBaseEvent(events.PlatformRedirectEvent, session.ID),
		PlatformID: link.PlatformID,
		URL:        redirect.URL,
	})

	return redirect, nil
}

// SelectVideo moves a positive session onto the video upload screen. Only
// available when a video testimonial destination is configured.
func (m *Machine) SelectVideo(ctx context.Context, session *models.FunnelSession) error {
	if session.State != models.FunnelStatePositive {
		return ErrInvalidTransition
	}

	available, err := m.videoGate.HasVideoTestimonial(ctx)
	if err != nil {
		return &TransportError{Op: "resolve video testimonial", Err: err}
	}

	if !available {
		return ErrVideoNotConfigured
	}

	session.State = models.FunnelStateVideoUpload
	session.UpdatedAt = time.Now().UTC()

	return nil
}

// Back returns any non-initial session to the rating screen, clearing the
// rating and every collected field.
func (m *Machine) Back(session *models.FunnelSession) error {
	if session.State == models.FunnelStateInitial {
		return ErrInvalidTransition
	}

	session.Reset(time.Now().UTC())

	return nil
}

// SubmitFeedback persists the private feedback captured on the negative
// branch. Validation failures and store failures both leave the session in
// Negative; only a successful submit reaches Success.
func (m *Machine) SubmitFeedback(ctx context.Context, session *models.FunnelSession, name, email, text string) error {
	if session.State != models.FunnelStateNegative {
		return ErrInvalidTransition
	}

	session.Feedback = models.FeedbackDraft{Name: name, Email: email, Text: text}

	var fieldErrs ValidationErrors

	if strings.TrimSpace(name) == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "name", Reason: "name is required"})
	}

	if !models.IsValidEmail(email) {
		fieldErrs = append(fieldErrs, FieldError{Field: "email", Reason: "a valid email is required"})
	}

	if strings.TrimSpace(text) == "" {
		fieldErrs = append(fieldErrs, FieldError{Field: "text", Reason: "feedback text is required"})
	}

	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	feedback := &models.Feedback{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		Rating:    session.Rating,
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Text:      strings.TrimSpace(text),
	}

	if err := m.feedback.SubmitFeedback(ctx, feedback); err != nil {
		return &TransportError{Op: "submit feedback", Err: err}
	}

	m.complete(ctx, session, "feedback")

	return nil
}

// CanSubmitVideo reports whether the video form is complete. The upload
// surface keeps the submit action disabled until this returns true.
func (m *Machine) CanSubmitVideo(draft models.VideoDraft) bool {
	return strings.TrimSpace(draft.FileName) != "" &&
		strings.TrimSpace(draft.Name) != "" &&
		models.IsValidEmail(draft.Email) &&
		draft.Consent
}

// SubmitVideo stores the testimonial asset and completes the session. An
// incomplete form is rejected outright: submission is disabled, not retried.
func (m *Machine) SubmitVideo(ctx context.Context, session *models.FunnelSession, draft models.VideoDraft, content io.Reader) error {
	if session.State != models.FunnelStateVideoUpload {
		return ErrInvalidTransition
	}

	session.Video = draft

	if !m.CanSubmitVideo(draft) {
		return ErrSubmissionIncomplete
	}

	testimonial := &models.VideoTestimonial{
		ID:        uuid.New().String(),
		SessionID: session.ID,
		FileName:  strings.TrimSpace(draft.FileName),
		Name:      strings.TrimSpace(draft.Name),
		Email:     strings.TrimSpace(draft.Email),
		Consent:   draft.Consent,
	}

	if err := m.videos.UploadVideo(ctx, testimonial, content); err != nil {
		return &TransportError{Op: "upload video", Err: err}
	}

	m.complete(ctx, session, "video")

	return nil
}

// Resolve applies the automatic Success timeout: once the reset deadline has
// passed the session returns to Initial and is reusable.
func (m *Machine) Resolve(session *models.FunnelSession, now time.Time) {
	if session.State == models.FunnelStateSuccess && session.ResetAt != nil && !now.Before(*session.ResetAt) {
		session.Reset(now)
	}
}

func (m *Machine) complete(ctx context.Context, session *models.FunnelSession, kind string) {
	now := time.Now().UTC()
	resetAt := now.Add(m.resetDelay)

	session.State = models.FunnelStateSuccess
	session.ResetAt = &resetAt
	session.UpdatedAt = now

	m.tracker.Record(ctx, session.ID, events.ReviewCompletion{
		BaseEvent: events.NewBaseEvent(events.ReviewCompletionEvent, session.ID),
		Kind:      kind,
		Rating:    session.Rating,
	})
}
