// Package sequence implements authoring mutations over a drip campaign's
// ordered step list, including atomic branch insertion and removal.
package sequence

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// Field names accepted by EditField.
type Field string

const (
	FieldContent Field = "content"
	FieldSubject Field = "subject"
	FieldDays    Field = "days"
)

const defaultBranchWaitDays = 3

const (
	followUpContent = "Just checking in! Have you had a chance to leave us a review?"
	followUpSubject = "Quick follow-up"
)

var (
	// ErrStepNotFound indicates no step carries the given ID.
	ErrStepNotFound = errors.New("step not found")

	// ErrNotBranchStep indicates a branch operation targeted a non-branch step.
	ErrNotBranchStep = errors.New("step is not a branch")

	// ErrUnknownField indicates EditField was given a field the step's
	// variant does not carry.
	ErrUnknownField = errors.New("unknown field for step type")

	// ErrInvalidFieldValue indicates the value cannot be applied to the field.
	ErrInvalidFieldValue = errors.New("invalid field value")

	// ErrInvalidDecision indicates a branch decision other than yes or no.
	ErrInvalidDecision = errors.New("invalid branch decision")
)

// Editor mutates a single in-memory sequence. One editor per sequence; the
// authoring surface is single-writer, so no locking is involved.
type Editor struct {
	seq *models.Sequence
}

// NewEditor creates an editor over the given sequence.
func NewEditor(seq *models.Sequence) *Editor {
	return &Editor{seq: seq}
}

// Sequence returns the sequence under edit.
func (e *Editor) Sequence() *models.Sequence {
	return e.seq
}

// EditField updates one field of a step in place. Editing the content or
// subject of the sequence's first message step also refreshes the
// denormalized template fields used as defaults elsewhere.
func (e *Editor) EditField(stepID string, field Field, value string) error {
	step := e.seq.StepByID(stepID)
	if step == nil {
		return fmt.Errorf("step %s: %w", stepID, ErrStepNotFound)
	}

	switch field {
	case FieldContent:
		if step.Type != models.StepTypeMessage {
			return fmt.Errorf("step %s: %w", stepID, ErrUnknownField)
		}

		step.Message.Content = value
	case FieldSubject:
		if step.Type != models.StepTypeMessage {
			return fmt.Errorf("step %s: %w", stepID, ErrUnknownField)
		}

		step.Message.Subject = value
	case FieldDays:
		if step.Type != models.StepTypeWait {
			return fmt.Errorf("step %s: %w", stepID, ErrUnknownField)
		}

		days, err := strconv.Atoi(value)
		if err != nil || days < 1 {
			return fmt.Errorf("step %s: wait days %q: %w", stepID, value, ErrInvalidFieldValue)
		}

		step.Wait.Days = days
	default:
		return fmt.Errorf("step %s: field %q: %w", stepID, field, ErrUnknownField)
	}

	if step == e.seq.FirstMessageStep() {
		e.seq.TemplateContent = step.Message.Content
		e.seq.TemplateSubject = step.Message.Subject
	}

	return nil
}

// SetBranchDecision applies a yes/no decision to a branch step.
//
// "yes" is idempotent: if the branch already owns the (wait, message) pair
// directly following it, nothing changes. Otherwise exactly two steps are
// inserted directly after the branch: a wait step with the default delay,
// then a message step of the sequence's channel pre-filled with the
// follow-up template. Ownership is recorded on the inserted steps.
//
// "no" removes every step owned by the branch, including steps owned by
// nested branches underneath it, leaving the branch with decision no.
func (e *Editor) SetBranchDecision(branchID string, decision models.BranchDecision) error {
	idx := -1

	var branch *models.WorkflowStep

	for i, step := range e.seq.Steps {
		if step.ID == branchID {
			if step.Type != models.StepTypeBranch {
				return fmt.Errorf("step %s: %w", branchID, ErrNotBranchStep)
			}

			idx, branch = i, step

			break
		}
	}

	if branch == nil {
		return fmt.Errorf("branch %s: %w", branchID, ErrStepNotFound)
	}

	switch decision {
	case models.BranchDecisionYes:
		return e.decideYes(idx, branch)
	case models.BranchDecisionNo:
		return e.decideNo(branch)
	default:
		return fmt.Errorf("branch %s: decision %q: %w", branchID, decision, ErrInvalidDecision)
	}
}

// hasOwnedPair reports whether the branch's (wait, message) pair immediately
// follows it. Ownership is checked by identity, not step naming.
func (e *Editor) hasOwnedPair(idx int, branch *models.WorkflowStep) bool {
	steps := e.seq.Steps
	if idx+2 >= len(steps) {
		return false
	}

	wait := steps[idx+1]
	message := steps[idx+2]

	return wait.Type == models.StepTypeWait && wait.OwnerBranchID == branch.ID &&
		message.Type == models.StepTypeMessage && message.OwnerBranchID == branch.ID
}

func (e *Editor) decideYes(idx int, branch *models.WorkflowStep) error {
	if e.hasOwnedPair(idx, branch) {
		branch.Branch.Decision = models.BranchDecisionYes

		return nil
	}

	wait := &models.WorkflowStep{
		ID:            uuid.New().String(),
		Type:          models.StepTypeWait,
		OwnerBranchID: branch.ID,
		Wait:          &models.WaitStep{Days: defaultBranchWaitDays},
	}

	message := &models.WorkflowStep{
		ID:            uuid.New().String(),
		Type:          models.StepTypeMessage,
		OwnerBranchID: branch.ID,
		Message: &models.MessageStep{
			Channel: e.seq.Channel,
			Content: followUpContent,
		},
	}

	if e.seq.Channel == models.ChannelEmail {
		message.Message.Subject = followUpSubject
	}

	// Both steps land atomically, directly after the branch.
	steps := make([]*models.WorkflowStep, 0, len(e.seq.Steps)+2)
	steps = append(steps, e.seq.Steps[:idx+1]...)
	steps = append(steps, wait, message)
	steps = append(steps, e.seq.Steps[idx+1:]...)
	e.seq.Steps = steps

	branch.Branch.Decision = models.BranchDecisionYes

	return nil
}

func (e *Editor) decideNo(branch *models.WorkflowStep) error {
	owned := map[string]bool{branch.ID: true}

	// Ownership is transitive: a branch inserted under this branch owns
	// steps of its own, and all of them go.
	for changed := true; changed; {
		changed = false

		for _, step := range e.seq.Steps {
			if owned[step.OwnerBranchID] && !owned[step.ID] {
				owned[step.ID] = true
				changed = true
			}
		}
	}

	kept := make([]*models.WorkflowStep, 0, len(e.seq.Steps))

	for _, step := range e.seq.Steps {
		if step.ID != branch.ID && owned[step.ID] {
			continue
		}

		kept = append(kept, step)
	}

	e.seq.Steps = kept
	branch.Branch.Decision = models.BranchDecisionNo

	return nil
}
