package campaign

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/mocks"
	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/persistence/file"
	"github.com/reviewdrip/reviewdrip/pkg/testutil"
)

func TestNewScheduler_InvalidCron(t *testing.T) {
	_, err := NewScheduler(file.NewPersistence(t.TempDir()), nil, discardLogger(), "not a cron line")
	assert.Error(t, err)
}

func setupSweep(t *testing.T, dispatcher *mocks.MockDispatcher, seq *models.Sequence) (persistence.Persistence, *Scheduler, *models.Enrollment) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())
	service := NewService(p)

	require.NoError(t, p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "contact-1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}))

	c := newDraftCampaign()
	c.Sequence = seq

	created, err := service.Create(t.Context(), c)
	require.NoError(t, err)

	enrollment, err := service.Enroll(t.Context(), created.ID, "contact-1")
	require.NoError(t, err)

	scheduler, err := NewScheduler(p, NewSender(dispatcher, discardLogger()), discardLogger(), DefaultSweepExpression)
	require.NoError(t, err)

	return p, scheduler, enrollment
}

func TestScheduler_ProcessDue_AdvancesToWait(t *testing.T) {
	dispatcher := &mocks.MockDispatcher{}
	dispatcher.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	seq := testutil.CreateSequence(models.ChannelEmail,
		testutil.CreateMessageStep(),
		testutil.CreateWaitStep(2),
		testutil.CreateMessageStep(),
	)

	p, scheduler, enrollment := setupSweep(t, dispatcher, seq)

	now := time.Now().UTC()
	scheduler.ProcessDue(t.Context(), now)

	due, err := p.Enrollments().DueEnrollments(t.Context(), now)
	require.NoError(t, err)
	assert.Empty(t, due)

	stored, err := p.Enrollments().Enrollments(t.Context(), enrollment.CampaignID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// The first message went out and the cursor parked on the wait.
	assert.Equal(t, 2, stored[0].StepIndex)
	assert.False(t, stored[0].Completed)
	assert.InDelta(t, 48*time.Hour, stored[0].NextDueAt.Sub(now), float64(time.Minute))

	dispatcher.AssertExpectations(t)
}

func TestScheduler_ProcessDue_CompletesSequence(t *testing.T) {
	dispatcher := &mocks.MockDispatcher{}
	dispatcher.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	seq := testutil.CreateSequence(models.ChannelEmail,
		testutil.CreateMessageStep(),
		testutil.CreateMessageStep(),
	)

	p, scheduler, enrollment := setupSweep(t, dispatcher, seq)

	scheduler.ProcessDue(t.Context(), time.Now().UTC())

	stored, err := p.Enrollments().Enrollments(t.Context(), enrollment.CampaignID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Completed)

	dispatcher.AssertExpectations(t)
}

func TestScheduler_ProcessDue_NothingDue(t *testing.T) {
	dispatcher := &mocks.MockDispatcher{}

	seq := testutil.CreateSequence(models.ChannelEmail, testutil.CreateMessageStep())

	p, scheduler, enrollment := setupSweep(t, dispatcher, seq)

	// Push the enrollment into the future before sweeping.
	stored, err := p.Enrollments().Enrollments(t.Context(), enrollment.CampaignID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	stored[0].NextDueAt = time.Now().UTC().Add(time.Hour)
	require.NoError(t, p.Enrollments().SaveEnrollment(t.Context(), stored[0]))

	scheduler.ProcessDue(t.Context(), time.Now().UTC())

	dispatcher.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
