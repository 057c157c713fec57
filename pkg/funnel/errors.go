package funnel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidTransition indicates an input arrived in a state that does not accept it.
	ErrInvalidTransition = errors.New("invalid funnel transition")

	// ErrVideoNotConfigured indicates the video testimonial path is not available.
	ErrVideoNotConfigured = errors.New("video testimonial is not configured")

	// ErrSubmissionIncomplete indicates a video submission is missing required
	// fields. The upload surface keeps the submit action disabled in this case.
	ErrSubmissionIncomplete = errors.New("video submission is incomplete")
)

// FieldError describes one invalid form field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationErrors collects field-level problems. The session stays in its
// current state; the caller renders them inline.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	reasons := make([]string, 0, len(v))
	for _, fieldErr := range v {
		reasons = append(reasons, fieldErr.Field+": "+fieldErr.Reason)
	}

	return "validation failed: " + strings.Join(reasons, "; ")
}

// TransportError wraps a store failure during submission. The session state
// is unchanged; retry is a fresh user action.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidationError checks whether the error carries inline field problems.
func IsValidationError(err error) bool {
	var target ValidationErrors

	return errors.As(err, &target)
}

// IsTransportError checks whether the error is a retryable store failure.
func IsTransportError(err error) bool {
	var target *TransportError

	return errors.As(err, &target)
}
