package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/testutil"
)

func stepIDs(seq *models.Sequence) []string {
	ids := make([]string, 0, len(seq.Steps))
	for _, step := range seq.Steps {
		ids = append(ids, step.ID)
	}

	return ids
}

func TestEditor_EditField_Content(t *testing.T) {
	message := testutil.CreateMessageStep()
	seq := testutil.CreateSequence(models.ChannelEmail, message)
	editor := NewEditor(seq)

	err := editor.EditField(message.ID, FieldContent, "Updated body")
	require.NoError(t, err)
	assert.Equal(t, "Updated body", message.Message.Content)

	// The first message step doubles as the sequence template.
	assert.Equal(t, "Updated body", seq.TemplateContent)
}

func TestEditor_EditField_WaitDays(t *testing.T) {
	wait := testutil.CreateWaitStep(3)
	seq := testutil.CreateSequence(models.ChannelSMS, wait)
	editor := NewEditor(seq)

	err := editor.EditField(wait.ID, FieldDays, "7")
	require.NoError(t, err)
	assert.Equal(t, 7, wait.Wait.Days)

	err = editor.EditField(wait.ID, FieldDays, "0")
	assert.ErrorIs(t, err, ErrInvalidFieldValue)

	err = editor.EditField(wait.ID, FieldDays, "soon")
	assert.ErrorIs(t, err, ErrInvalidFieldValue)
	assert.Equal(t, 7, wait.Wait.Days)
}

func TestEditor_EditField_WrongVariant(t *testing.T) {
	wait := testutil.CreateWaitStep(3)
	seq := testutil.CreateSequence(models.ChannelSMS, wait)
	editor := NewEditor(seq)

	err := editor.EditField(wait.ID, FieldContent, "nope")
	assert.ErrorIs(t, err, ErrUnknownField)

	err = editor.EditField("missing", FieldContent, "nope")
	assert.ErrorIs(t, err, ErrStepNotFound)
}

func TestEditor_BranchYes_InsertsPair(t *testing.T) {
	message := testutil.CreateMessageStep()
	branch := testutil.CreateBranchStep()
	tail := testutil.CreateMessageStep()
	seq := testutil.CreateSequence(models.ChannelEmail, message, branch, tail)
	editor := NewEditor(seq)

	err := editor.SetBranchDecision(branch.ID, models.BranchDecisionYes)
	require.NoError(t, err)
	require.Len(t, seq.Steps, 5)

	// Both inserted steps sit directly after the branch and carry its
	// ownership mark.
	wait := seq.Steps[2]
	followUp := seq.Steps[3]

	assert.Equal(t, models.StepTypeWait, wait.Type)
	assert.Equal(t, 3, wait.Wait.Days)
	assert.Equal(t, branch.ID, wait.OwnerBranchID)

	assert.Equal(t, models.StepTypeMessage, followUp.Type)
	assert.Equal(t, branch.ID, followUp.OwnerBranchID)
	assert.Equal(t, models.ChannelEmail, followUp.Message.Channel)
	assert.NotEmpty(t, followUp.Message.Content)
	assert.NotEmpty(t, followUp.Message.Subject)

	assert.Equal(t, tail.ID, seq.Steps[4].ID)
	assert.Equal(t, models.BranchDecisionYes, branch.Branch.Decision)
}

func TestEditor_BranchYes_SMSHasNoSubject(t *testing.T) {
	branch := testutil.CreateBranchStep()
	seq := testutil.CreateSequence(models.ChannelSMS, branch)
	editor := NewEditor(seq)

	err := editor.SetBranchDecision(branch.ID, models.BranchDecisionYes)
	require.NoError(t, err)

	followUp := seq.Steps[2]
	assert.Equal(t, models.ChannelSMS, followUp.Message.Channel)
	assert.Empty(t, followUp.Message.Subject)
}

func TestEditor_BranchYes_Idempotent(t *testing.T) {
	branch := testutil.CreateBranchStep()
	seq := testutil.CreateSequence(models.ChannelEmail, branch)
	editor := NewEditor(seq)

	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionYes))
	after := stepIDs(seq)

	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionYes))
	assert.Equal(t, after, stepIDs(seq))
}

func TestEditor_BranchNo_RemovesOwnedSteps(t *testing.T) {
	branch := testutil.CreateBranchStep()
	seq := testutil.CreateSequence(models.ChannelEmail, branch)
	editor := NewEditor(seq)

	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionYes))
	require.Len(t, seq.Steps, 3)

	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionNo))
	require.Len(t, seq.Steps, 1)
	assert.Equal(t, branch.ID, seq.Steps[0].ID)
	assert.Equal(t, models.BranchDecisionNo, branch.Branch.Decision)
}

func TestEditor_BranchNo_RemovesNestedOwnership(t *testing.T) {
	outer := testutil.CreateBranchStep()
	seq := testutil.CreateSequence(models.ChannelEmail, outer)
	editor := NewEditor(seq)

	require.NoError(t, editor.SetBranchDecision(outer.ID, models.BranchDecisionYes))

	// Hang a nested branch off the outer branch, then decide yes on it too.
	nested := testutil.CreateBranchStep(testutil.WithOwner(outer.ID))
	seq.Steps = append(seq.Steps, nested)
	require.NoError(t, editor.SetBranchDecision(nested.ID, models.BranchDecisionYes))
	require.Len(t, seq.Steps, 6)

	// No on the outer branch takes the nested branch and its steps with it.
	require.NoError(t, editor.SetBranchDecision(outer.ID, models.BranchDecisionNo))
	require.Len(t, seq.Steps, 1)
	assert.Equal(t, outer.ID, seq.Steps[0].ID)
}

func TestEditor_BranchRoundTripRestoresShape(t *testing.T) {
	lead := testutil.CreateMessageStep()
	branch := testutil.CreateBranchStep()
	tail := testutil.CreateWaitStep(5)
	seq := testutil.CreateSequence(models.ChannelEmail, lead, branch, tail)
	editor := NewEditor(seq)

	before := stepIDs(seq)

	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionYes))
	require.NoError(t, editor.SetBranchDecision(branch.ID, models.BranchDecisionNo))

	assert.Equal(t, before, stepIDs(seq))
}

func TestEditor_BranchDecision_Errors(t *testing.T) {
	message := testutil.CreateMessageStep()
	branch := testutil.CreateBranchStep()
	seq := testutil.CreateSequence(models.ChannelEmail, message, branch)
	editor := NewEditor(seq)

	err := editor.SetBranchDecision("missing", models.BranchDecisionYes)
	assert.ErrorIs(t, err, ErrStepNotFound)

	err = editor.SetBranchDecision(message.ID, models.BranchDecisionYes)
	assert.ErrorIs(t, err, ErrNotBranchStep)

	err = editor.SetBranchDecision(branch.ID, models.BranchDecision("maybe"))
	assert.ErrorIs(t, err, ErrInvalidDecision)
}
