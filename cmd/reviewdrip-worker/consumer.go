package main

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/reviewdrip/reviewdrip/pkg/eventbus"
	"github.com/reviewdrip/reviewdrip/pkg/events"
	"github.com/reviewdrip/reviewdrip/pkg/otelhelper"
)

// AnalyticsConsumer drains funnel analytics events off the bus and records
// them in the worker's log stream.
type AnalyticsConsumer struct {
	eventBus eventbus.EventBus
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewAnalyticsConsumer(eventBus eventbus.EventBus, tracer trace.Tracer, logger *slog.Logger) *AnalyticsConsumer {
	return &AnalyticsConsumer{
		eventBus: eventBus,
		tracer:   tracer,
		logger:   logger,
	}
}

// Start registers handlers and begins consuming. It returns once the
// subscription is established; consumption runs until ctx is cancelled.
func (c *AnalyticsConsumer) Start(ctx context.Context) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.StarSelectedEvent:     c.traced("analytics.star_selected", c.handleStarSelected),
		events.PlatformRedirectEvent: c.traced("analytics.platform_redirect", c.handlePlatformRedirect),
		events.ReviewCompletionEvent: c.traced("analytics.review_completion", c.handleReviewCompletion),
	}

	for eventType, handler := range handlers {
		if err := c.eventBus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return c.eventBus.Subscribe(ctx)
}

func (c *AnalyticsConsumer) traced(name string, handler eventbus.EventHandler) eventbus.EventHandler {
	return func(ctx context.Context, event any) error {
		spanCtx, span := otelhelper.StartSpan(ctx, c.tracer, name)
		defer span.End()

		err := handler(spanCtx, event)
		if err != nil {
			otelhelper.SetError(span, err)
		}

		return err
	}
}

func (c *AnalyticsConsumer) handleStarSelected(ctx context.Context, event any) error {
	selected, ok := event.(*events.StarSelected)
	if !ok {
		return nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(otelhelper.SessionIDKey, selected.SessionID),
		attribute.Int(otelhelper.RatingKey, selected.Rating),
	)

	c.logger.InfoContext(ctx, "star selected",
		"session_id", selected.SessionID,
		"rating", selected.Rating,
		"branch", selected.Branch,
	)

	return nil
}

func (c *AnalyticsConsumer) handlePlatformRedirect(ctx context.Context, event any) error {
	redirect, ok := event.(*events.PlatformRedirect)
	if !ok {
		return nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(otelhelper.SessionIDKey, redirect.SessionID),
		attribute.String(otelhelper.PlatformIDKey, redirect.PlatformID),
	)

	c.logger.InfoContext(ctx, "platform redirect",
		"session_id", redirect.SessionID,
		"platform_id", redirect.PlatformID,
		"url", redirect.URL,
	)

	return nil
}

func (c *AnalyticsConsumer) handleReviewCompletion(ctx context.Context, event any) error {
	completion, ok := event.(*events.ReviewCompletion)
	if !ok {
		return nil
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String(otelhelper.SessionIDKey, completion.SessionID),
		attribute.Int(otelhelper.RatingKey, completion.Rating),
	)

	c.logger.InfoContext(ctx, "review completed",
		"session_id", completion.SessionID,
		"kind", completion.Kind,
		"rating", completion.Rating,
	)

	return nil
}
