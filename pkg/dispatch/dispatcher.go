// Package dispatch defines the outbound message transport boundary.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// ReasonCode classifies a per-recipient delivery failure.
type ReasonCode string

const (
	ReasonInvalidRecipient ReasonCode = "invalid_recipient"
	ReasonProviderRejected ReasonCode = "provider_rejected"
	ReasonNetwork          ReasonCode = "network"
	ReasonUnknown          ReasonCode = "unknown"
)

// SendError carries the reason code for one failed delivery attempt.
type SendError struct {
	Code ReasonCode
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send failed (%s): %v", e.Code, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Reason extracts the reason code from an error, defaulting to unknown.
func Reason(err error) ReasonCode {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Code
	}

	return ReasonUnknown
}

// Dispatcher is the transport collaborator. Implementations deliver one
// message per call and report success or failure per recipient; the actual
// SMS/email plumbing lives outside this module.
type Dispatcher interface {
	SendSMS(ctx context.Context, contact *models.Contact, content, senderName string) error
	SendEmail(ctx context.Context, contact *models.Contact, subject, content, fromAddress string) error
}

// LogDispatcher logs outbound messages instead of delivering them. Used in
// development and as the default when no provider is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that only logs.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) SendSMS(ctx context.Context, contact *models.Contact, content, senderName string) error {
	if models.NormalizedPhone(contact.Phone) == "" {
		return &SendError{Code: ReasonInvalidRecipient, Err: errors.New("contact has no phone")}
	}

	d.logger.InfoContext(ctx, "sms dispatched",
		"contact_id", contact.ID,
		"sender", senderName,
		"length", len(content),
	)

	return nil
}

func (d *LogDispatcher) SendEmail(ctx context.Context, contact *models.Contact, subject, content, fromAddress string) error {
	if models.NormalizedEmail(contact.Email) == "" {
		return &SendError{Code: ReasonInvalidRecipient, Err: errors.New("contact has no email")}
	}

	d.logger.InfoContext(ctx, "email dispatched",
		"contact_id", contact.ID,
		"from", fromAddress,
		"subject", subject,
		"length", len(content),
	)

	return nil
}
