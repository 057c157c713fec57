// Package persistence provides standardized error types for storage operations.
package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrContactNotFound indicates a contact was not found by the given identifier.
	ErrContactNotFound = errors.New("contact not found")

	// ErrContactAlreadyExists indicates a contact with the same email or phone already exists.
	ErrContactAlreadyExists = errors.New("contact already exists")

	// ErrCampaignNotFound indicates a campaign was not found by the given identifier.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrEnrollmentNotFound indicates an enrollment was not found by the given identifier.
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	// ErrPlatformLinkNotFound indicates a platform link was not found by the given identifier.
	ErrPlatformLinkNotFound = errors.New("platform link not found")
)

// ConflictError reports which contact field collided with an existing record.
type ConflictError struct {
	Field string // "email" or "phone"
	Value string
	Err   error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

func (e *ConflictError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewConflictError creates a duplicate-contact conflict for the given field.
func NewConflictError(field, value string) *ConflictError {
	return &ConflictError{
		Field: field,
		Value: value,
		Err:   ErrContactAlreadyExists,
	}
}

// IsContactNotFound checks if an error indicates a contact was not found.
func IsContactNotFound(err error) bool {
	return errors.Is(err, ErrContactNotFound)
}

// IsContactConflict checks if an error indicates a duplicate contact.
func IsContactConflict(err error) bool {
	return errors.Is(err, ErrContactAlreadyExists)
}

// IsCampaignNotFound checks if an error indicates a campaign was not found.
func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

// IsPlatformLinkNotFound checks if an error indicates a platform link was not found.
func IsPlatformLinkNotFound(err error) bool {
	return errors.Is(err, ErrPlatformLinkNotFound)
}
