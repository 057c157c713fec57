// Package web provides HTTP request and response types for the review funnel
// and campaign API.
package web

import "github.com/reviewdrip/reviewdrip/pkg/models"

// RateRequest carries the star rating selected on the initial screen.
type RateRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// SelectPlatformRequest names the destination button pressed on the
// positive screen.
type SelectPlatformRequest struct {
	PlatformID string `json:"platform_id" validate:"required"`
}

// FeedbackRequest carries the private feedback form from the negative screen.
type FeedbackRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"text"`
}

// CreateContactRequest represents the request body for creating a contact.
type CreateContactRequest struct {
	Name    string         `json:"name"    validate:"required"`
	Email   string         `json:"email,omitempty"`
	Phone   string         `json:"phone,omitempty"`
	Channel models.Channel `json:"channel" validate:"required,oneof=sms email"`
}

// BulkImportRequest carries raw pasted contact text and the channel it
// should be parsed for.
type BulkImportRequest struct {
	Text    string         `json:"text"`
	Channel models.Channel `json:"channel" validate:"required,oneof=sms email"`
}

// CreateCampaignRequest represents the request body for creating a campaign.
type CreateCampaignRequest struct {
	Name           string               `json:"name"            validate:"required,min=3"`
	Type           models.Channel       `json:"type"            validate:"required,oneof=sms email"`
	SenderIdentity string               `json:"sender_identity" validate:"required"`
	Subject        string               `json:"subject,omitempty"`
	Content        string               `json:"content"         validate:"required"`
	Trigger        models.TriggerPolicy `json:"trigger"`
	Sequence       *models.Sequence     `json:"sequence,omitempty"`
}

// EnrollRequest names the contact to enroll into a campaign.
type EnrollRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
}

// SendRequest selects the contacts a campaign message goes out to.
type SendRequest struct {
	ContactIDs []string `json:"contact_ids" validate:"required,min=1"`
}

// EditStepRequest updates one field of a sequence step.
type EditStepRequest struct {
	Field string `json:"field" validate:"required,oneof=content subject days"`
	Value string `json:"value"`
}

// BranchDecisionRequest applies a yes/no decision to a branch step.
type BranchDecisionRequest struct {
	Decision models.BranchDecision `json:"decision" validate:"required,oneof=yes no"`
}

// SavePlatformLinkRequest represents the request body for creating or
// updating a platform link.
type SavePlatformLinkRequest struct {
	Title      string `json:"title"       validate:"required"`
	URL        string `json:"url"`
	ButtonText string `json:"button_text,omitempty"`
	IsActive   bool   `json:"is_active"`
	PlatformID string `json:"platform_id" validate:"required"`
	Position   int    `json:"position"`
}
