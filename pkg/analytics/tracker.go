// Package analytics dispatches funnel tracking events without blocking state transitions.
package analytics

import (
	"context"
	"log/slog"

	"github.com/reviewdrip/reviewdrip/pkg/eventbus"
)

// Sink records a tracking event. Implementations must never surface failures
// to the caller.
type Sink interface {
	Record(ctx context.Context, key string, event eventbus.Event)
}

// Tracker publishes events to the event bus in a goroutine. Publish failures
// are logged and swallowed; the visible funnel transition has already
// happened by the time the event is in flight.
type Tracker struct {
	publisher eventbus.EventPublisher
	logger    *slog.Logger
}

// NewTracker creates a tracker over the given publisher.
func NewTracker(publisher eventbus.EventPublisher, logger *slog.Logger) *Tracker {
	return &Tracker{
		publisher: publisher,
		logger:    logger,
	}
}

// Record dispatches the event asynchronously. The context is detached so an
// aborted request cannot cancel an in-flight tracking call.
func (t *Tracker) Record(ctx context.Context, key string, event eventbus.Event) {
	detached := context.WithoutCancel(ctx)

	go func() {
		if err := t.publisher.Publish(detached, key, event); err != nil {
			t.logger.Warn("failed to record tracking event",
				"event_type", event.GetType(),
				"key", key,
				"error", err,
			)
		}
	}()
}

// NopSink discards every event. Used where tracking is not configured.
type NopSink struct{}

func (NopSink) Record(_ context.Context, _ string, _ eventbus.Event) {}
