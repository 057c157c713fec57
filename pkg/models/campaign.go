package models

import (
	"errors"
	"time"
)

// TriggerMode controls when a sequence starts relative to enrollment.
type TriggerMode string

const (
	TriggerImmediate TriggerMode = "immediate"
	TriggerWait      TriggerMode = "wait"
)

// ErrInvalidTriggerPolicy is returned when a trigger policy fails validation.
var ErrInvalidTriggerPolicy = errors.New("invalid trigger policy")

// TriggerPolicy decides the delay before a sequence begins once a contact is
// enrolled. It is tracked independently of the sequence itself.
type TriggerPolicy struct {
	Mode TriggerMode `json:"mode" validate:"required,oneof=immediate wait"`
	Days int         `json:"days,omitempty"`
}

// Validate enforces that waiting policies carry at least one day.
func (p TriggerPolicy) Validate() error {
	switch p.Mode {
	case TriggerImmediate:
		return nil
	case TriggerWait:
		if p.Days < 1 {
			return ErrInvalidTriggerPolicy
		}

		return nil
	default:
		return ErrInvalidTriggerPolicy
	}
}

// StartAt resolves the first eligible execution time for an enrollment.
func (p TriggerPolicy) StartAt(enrolledAt time.Time) time.Time {
	if p.Mode == TriggerWait {
		return enrolledAt.AddDate(0, 0, p.Days)
	}

	return enrolledAt
}

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"
)

// Campaign is an authored drip campaign: a sender identity, headline
// template, and the step sequence executed per enrolled contact.
type Campaign struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"            validate:"required,min=3"`
	Type           Channel        `json:"type"            validate:"required,oneof=sms email"`
	SenderIdentity string         `json:"sender_identity" validate:"required"`
	Subject        string         `json:"subject,omitempty"`
	Content        string         `json:"content"         validate:"required"`
	Sequence       *Sequence      `json:"sequence"`
	Trigger        TriggerPolicy  `json:"trigger"`
	Status         CampaignStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Enrollment tracks one contact's progress through a campaign sequence.
type Enrollment struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id" validate:"required"`
	ContactID  string    `json:"contact_id"  validate:"required"`
	StepIndex  int       `json:"step_index"`
	NextDueAt  time.Time `json:"next_due_at"`
	Completed  bool      `json:"completed"`
	EnrolledAt time.Time `json:"enrolled_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
