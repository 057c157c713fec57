package models

import (
	"errors"
	"fmt"
)

// StepType tags the variant of a workflow step.
type StepType string

const (
	StepTypeMessage StepType = "message" // Sends an SMS or email
	StepTypeWait    StepType = "wait"    // Pauses the sequence for N days
	StepTypeBranch  StepType = "branch"  // Binary decision appending a follow-up pair
)

// BranchDecision is the author's answer on a branch step. An empty decision
// means the branch has not been decided yet.
type BranchDecision string

const (
	BranchDecisionYes BranchDecision = "yes"
	BranchDecisionNo  BranchDecision = "no"
)

// MessageStep holds the send payload of a message variant.
type MessageStep struct {
	Channel Channel `json:"channel" validate:"required,oneof=sms email"`
	Content string  `json:"content" validate:"required"`
	Subject string  `json:"subject,omitempty"` // Email only
}

// WaitStep pauses step execution for a number of days.
type WaitStep struct {
	Days int `json:"days" validate:"required,min=1"`
}

// BranchStep records the binary follow-up decision.
type BranchStep struct {
	Decision BranchDecision `json:"decision,omitempty" validate:"omitempty,oneof=yes no"`
}

// WorkflowStep is a tagged union: exactly one of Message, Wait, or Branch is
// set, matching Type. OwnerBranchID links steps inserted under a branch back
// to that branch by identity, never by ID naming conventions.
type WorkflowStep struct {
	ID            string       `json:"id"   validate:"required"`
	Type          StepType     `json:"type" validate:"required,oneof=message wait branch"`
	OwnerBranchID string       `json:"owner_branch_id,omitempty"`
	Message       *MessageStep `json:"message,omitempty"`
	Wait          *WaitStep    `json:"wait,omitempty"`
	Branch        *BranchStep  `json:"branch,omitempty"`
}

// ErrStepVariantMismatch indicates a step carries payload fields that do not
// belong to its declared type.
var ErrStepVariantMismatch = errors.New("step payload does not match step type")

// Validate checks that the step carries exactly the payload of its variant,
// ruling out combinations like a wait step with message content.
func (s *WorkflowStep) Validate() error {
	switch s.Type {
	case StepTypeMessage:
		if s.Message == nil || s.Wait != nil || s.Branch != nil {
			return fmt.Errorf("step %s: %w", s.ID, ErrStepVariantMismatch)
		}
	case StepTypeWait:
		if s.Wait == nil || s.Message != nil || s.Branch != nil {
			return fmt.Errorf("step %s: %w", s.ID, ErrStepVariantMismatch)
		}
	case StepTypeBranch:
		if s.Branch == nil || s.Message != nil || s.Wait != nil {
			return fmt.Errorf("step %s: %w", s.ID, ErrStepVariantMismatch)
		}
	default:
		return fmt.Errorf("step %s: unknown type %q: %w", s.ID, s.Type, ErrStepVariantMismatch)
	}

	return nil
}

// Clone returns a deep copy of the step.
func (s *WorkflowStep) Clone() *WorkflowStep {
	clone := *s

	if s.Message != nil {
		m := *s.Message
		clone.Message = &m
	}

	if s.Wait != nil {
		w := *s.Wait
		clone.Wait = &w
	}

	if s.Branch != nil {
		b := *s.Branch
		clone.Branch = &b
	}

	return &clone
}

// Sequence is the ordered list of steps a drip campaign executes. The
// template fields mirror the first message step so other surfaces can show
// the campaign's headline content without walking the steps.
type Sequence struct {
	ID              string          `json:"id"`
	Channel         Channel         `json:"channel" validate:"required,oneof=sms email"`
	Steps           []*WorkflowStep `json:"steps"`
	TemplateContent string          `json:"template_content,omitempty"`
	TemplateSubject string          `json:"template_subject,omitempty"`
}

// FirstMessageStep returns the first message variant in step order, or nil.
func (s *Sequence) FirstMessageStep() *WorkflowStep {
	for _, step := range s.Steps {
		if step.Type == StepTypeMessage {
			return step
		}
	}

	return nil
}

// StepByID returns the step with the given ID, or nil.
func (s *Sequence) StepByID(id string) *WorkflowStep {
	for _, step := range s.Steps {
		if step.ID == id {
			return step
		}
	}

	return nil
}

// Clone returns a deep copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	clone := *s
	clone.Steps = make([]*WorkflowStep, len(s.Steps))

	for i, step := range s.Steps {
		clone.Steps[i] = step.Clone()
	}

	return &clone
}

// Validate checks every step variant.
func (s *Sequence) Validate() error {
	for _, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return err
		}
	}

	return nil
}
