// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// CreateMessageStep creates a message step with default values that can be overridden.
func CreateMessageStep(overrides ...func(*models.WorkflowStep)) *models.WorkflowStep {
	step := &models.WorkflowStep{
		ID:   uuid.New().String(),
		Type: models.StepTypeMessage,
		Message: &models.MessageStep{
			Channel: models.ChannelEmail,
			Content: "We'd love to hear what you think!",
			Subject: "How did we do?",
		},
	}

	for _, override := range overrides {
		override(step)
	}

	return step
}

// CreateWaitStep creates a wait step with the given delay.
func CreateWaitStep(days int, overrides ...func(*models.WorkflowStep)) *models.WorkflowStep {
	step := &models.WorkflowStep{
		ID:   uuid.New().String(),
		Type: models.StepTypeWait,
		Wait: &models.WaitStep{Days: days},
	}

	for _, override := range overrides {
		override(step)
	}

	return step
}

// CreateBranchStep creates an undecided branch step.
func CreateBranchStep(overrides ...func(*models.WorkflowStep)) *models.WorkflowStep {
	step := &models.WorkflowStep{
		ID:     uuid.New().String(),
		Type:   models.StepTypeBranch,
		Branch: &models.BranchStep{},
	}

	for _, override := range overrides {
		override(step)
	}

	return step
}

// WithOwner marks a step as owned by the given branch.
func WithOwner(branchID string) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.OwnerBranchID = branchID
	}
}

// WithChannel sets a message step's channel.
func WithChannel(channel models.Channel) func(*models.WorkflowStep) {
	return func(s *models.WorkflowStep) {
		s.Message.Channel = channel
	}
}

// CreateSequence creates a sequence holding the given steps.
func CreateSequence(channel models.Channel, steps ...*models.WorkflowStep) *models.Sequence {
	return &models.Sequence{
		ID:      uuid.New().String(),
		Channel: channel,
		Steps:   steps,
	}
}

// CreateContact creates a test contact with default values that can be overridden.
func CreateContact(overrides ...func(*models.Contact)) *models.Contact {
	contact := &models.Contact{
		ID:      uuid.New().String(),
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}

	for _, override := range overrides {
		override(contact)
	}

	return contact
}

// WithPhone switches a contact onto the SMS channel with the given phone.
func WithPhone(phone string) func(*models.Contact) {
	return func(c *models.Contact) {
		c.Email = ""
		c.Phone = phone
		c.Channel = models.ChannelSMS
	}
}
