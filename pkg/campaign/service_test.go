package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence/file"
	"github.com/reviewdrip/reviewdrip/pkg/testutil"
)

func newDraftCampaign() *models.Campaign {
	return &models.Campaign{
		Name:           "Review Request",
		Type:           models.ChannelEmail,
		SenderIdentity: "Acme",
		Subject:        "How did we do?",
		Content:        "We'd love your feedback!",
		Trigger:        models.TriggerPolicy{Mode: models.TriggerImmediate},
	}
}

func TestService_Create(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), newDraftCampaign())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.CampaignStatusDraft, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Review Request", fetched.Name)
}

func TestService_Create_InvalidTrigger(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	c := newDraftCampaign()
	c.Trigger = models.TriggerPolicy{Mode: models.TriggerWait, Days: 0}

	_, err := service.Create(t.Context(), c)
	assert.ErrorIs(t, err, models.ErrInvalidTriggerPolicy)
}

func TestService_FetchByID_NotFound(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.FetchByID(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestService_Delete(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), newDraftCampaign())
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	err = service.Delete(t.Context(), created.ID)
	assert.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestService_Enroll_Immediate(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), newDraftCampaign())
	require.NoError(t, err)

	before := time.Now().UTC()

	enrollment, err := service.Enroll(t.Context(), created.ID, "contact-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, enrollment.CampaignID)
	assert.Zero(t, enrollment.StepIndex)
	assert.False(t, enrollment.NextDueAt.Before(before))
	assert.False(t, enrollment.NextDueAt.After(time.Now().UTC()))
}

func TestService_Enroll_WaitTrigger(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	c := newDraftCampaign()
	c.Trigger = models.TriggerPolicy{Mode: models.TriggerWait, Days: 2}

	created, err := service.Create(t.Context(), c)
	require.NoError(t, err)

	enrollment, err := service.Enroll(t.Context(), created.ID, "contact-1")
	require.NoError(t, err)

	// The first step only becomes due after the configured delay.
	assert.InDelta(t, 48*time.Hour, enrollment.NextDueAt.Sub(enrollment.EnrolledAt), float64(time.Minute))
}

func TestService_Create_WithSequence(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	c := newDraftCampaign()
	c.Sequence = testutil.CreateSequence(models.ChannelEmail,
		testutil.CreateMessageStep(),
		testutil.CreateWaitStep(3),
		testutil.CreateBranchStep(),
	)

	created, err := service.Create(t.Context(), c)
	require.NoError(t, err)

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Sequence)
	require.Len(t, fetched.Sequence.Steps, 3)

	// The tagged union survives the round trip with each variant intact.
	assert.Equal(t, models.StepTypeMessage, fetched.Sequence.Steps[0].Type)
	assert.NotNil(t, fetched.Sequence.Steps[0].Message)
	assert.Equal(t, models.StepTypeWait, fetched.Sequence.Steps[1].Type)
	assert.Equal(t, 3, fetched.Sequence.Steps[1].Wait.Days)
	assert.Equal(t, models.StepTypeBranch, fetched.Sequence.Steps[2].Type)
	assert.NotNil(t, fetched.Sequence.Steps[2].Branch)
}
