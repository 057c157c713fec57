// Package events defines analytics event types emitted by the rating funnel.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic is the event bus topic all funnel analytics events are published to.
const Topic = "reviewdrip.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Funnel tracking events.
	StarSelectedEvent     EventType = "funnel.star_selected"
	PlatformRedirectEvent EventType = "funnel.platform_redirect"
	ReviewCompletionEvent EventType = "funnel.review_completion"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	SessionID string         `json:"session_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, sessionID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		SessionID: sessionID,
	}
}

// StarSelected is emitted when a customer picks a rating on the first screen.
type StarSelected struct {
	BaseEvent

	Rating int    `json:"rating"`
	Branch string `json:"branch"`
}

func (e StarSelected) GetType() EventType {
	return StarSelectedEvent
}

// PlatformRedirect is emitted when a customer is sent to a review platform.
// URL carries a sentinel value when the platform has no configured URL so
// operators can spot missing configuration.
type PlatformRedirect struct {
	BaseEvent

	PlatformID string `json:"platform_id"`
	URL        string `json:"url"`
}

func (e PlatformRedirect) GetType() EventType {
	return PlatformRedirectEvent
}

// ReviewCompletion is emitted when a feedback or video submission lands.
type ReviewCompletion struct {
	BaseEvent

	Kind   string `json:"kind"` // "feedback" or "video"
	Rating int    `json:"rating"`
}

func (e ReviewCompletion) GetType() EventType {
	return ReviewCompletionEvent
}
