package analytics

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reviewdrip/reviewdrip/pkg/events"
	"github.com/reviewdrip/reviewdrip/pkg/mocks"
)

func TestTracker_Record(t *testing.T) {
	published := make(chan struct{})

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, "session-1", mock.Anything).
		Run(func(_ mock.Arguments) { close(published) }).
		Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := NewTracker(bus, logger)

	event := events.StarSelected{
		BaseEvent: events.NewBaseEvent(events.StarSelectedEvent, "session-1"),
		Rating:    5,
		Branch:    "positive",
	}

	tracker.Record(t.Context(), "session-1", event)

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("event was never published")
	}

	bus.AssertExpectations(t)
}

func TestTracker_Record_PublishFailureIsSwallowed(t *testing.T) {
	published := make(chan struct{})

	bus := &mocks.MockEventBus{}
	bus.On("Publish", mock.Anything, "session-1", mock.Anything).
		Run(func(_ mock.Arguments) { close(published) }).
		Return(errors.New("broker unreachable"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracker := NewTracker(bus, logger)

	event := events.ReviewCompletion{
		BaseEvent: events.NewBaseEvent(events.ReviewCompletionEvent, "session-1"),
		Kind:      "feedback",
		Rating:    2,
	}

	// Record never surfaces the failure to the caller.
	tracker.Record(t.Context(), "session-1", event)

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("event was never published")
	}
}

func TestNopSink(t *testing.T) {
	var sink NopSink

	assert.NotPanics(t, func() {
		sink.Record(t.Context(), "key", events.StarSelected{
			BaseEvent: events.NewBaseEvent(events.StarSelectedEvent, "key"),
		})
	})
}
