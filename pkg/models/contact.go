// Package models defines the core domain models for review collection and drip campaigns.
package models

import (
	"regexp"
	"strings"
	"time"
)

// Channel identifies the delivery channel a contact or campaign uses.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// IsValid reports whether the channel is one of the supported delivery channels.
func (c Channel) IsValid() bool {
	return c == ChannelSMS || c == ChannelEmail
}

// Contact is a campaign recipient reachable by email, phone, or both.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"            validate:"required"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone,omitempty"`
	Channel   Channel   `json:"channel"         validate:"required,oneof=sms email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsEmpty reports whether the contact is a blank placeholder row.
func (c *Contact) IsEmpty() bool {
	return strings.TrimSpace(c.Name) == "" &&
		strings.TrimSpace(c.Email) == "" &&
		strings.TrimSpace(c.Phone) == ""
}

// NormalizedPhone strips every non-digit rune so phone numbers compare
// independently of formatting.
func NormalizedPhone(phone string) string {
	var b strings.Builder

	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// NormalizedEmail lowercases and trims an email for duplicate comparison.
func NormalizedEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether the value is shaped like an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

var phonePattern = regexp.MustCompile(`^\+?[0-9().\s-]+$`)

// IsValidPhone reports whether the value looks like a phone number with at
// least ten digits once formatting is stripped.
func IsValidPhone(phone string) bool {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" || !phonePattern.MatchString(trimmed) {
		return false
	}

	return len(NormalizedPhone(trimmed)) >= 10
}
