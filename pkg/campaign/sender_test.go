package campaign

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/reviewdrip/reviewdrip/pkg/dispatch"
	"github.com/reviewdrip/reviewdrip/pkg/mocks"
	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSender_SendToContacts_PartialSuccess(t *testing.T) {
	good := testutil.CreateContact()
	bad := testutil.CreateContact(func(c *models.Contact) {
		c.Email = "broken@example.com"
	})
	alsoGood := testutil.CreateContact(func(c *models.Contact) {
		c.Email = "ann@example.com"
	})

	dispatcher := &mocks.MockDispatcher{}
	dispatcher.On("SendEmail", mock.Anything, good, "Hello", "Hi there", "Acme").Return(nil)
	dispatcher.On("SendEmail", mock.Anything, bad, "Hello", "Hi there", "Acme").
		Return(&dispatch.SendError{Code: dispatch.ReasonProviderRejected, Err: errors.New("bounced")})
	dispatcher.On("SendEmail", mock.Anything, alsoGood, "Hello", "Hi there", "Acme").Return(nil)

	sender := NewSender(dispatcher, discardLogger())

	c := &models.Campaign{
		ID:             "c1",
		Type:           models.ChannelEmail,
		SenderIdentity: "Acme",
		Subject:        "Hello",
		Content:        "Hi there",
	}

	// The failing contact in the middle never stops the rest of the batch.
	report := sender.SendToContacts(t.Context(), c, []*models.Contact{good, bad, alsoGood})
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Failures, 1)
	assert.Equal(t, bad.ID, report.Failures[0].ContactID)
	assert.Equal(t, dispatch.ReasonProviderRejected, report.Failures[0].Reason)

	dispatcher.AssertExpectations(t)
}

func TestSender_SendToContacts_SMS(t *testing.T) {
	contact := testutil.CreateContact(testutil.WithPhone("(555) 123-4567"))

	dispatcher := &mocks.MockDispatcher{}
	dispatcher.On("SendSMS", mock.Anything, contact, "Short msg", "Acme").Return(nil)

	sender := NewSender(dispatcher, discardLogger())

	c := &models.Campaign{
		ID:             "c2",
		Type:           models.ChannelSMS,
		SenderIdentity: "Acme",
		Content:        "Short msg",
	}

	report := sender.SendToContacts(t.Context(), c, []*models.Contact{contact})
	assert.Equal(t, 1, report.Succeeded)
	assert.Zero(t, report.Failed)

	dispatcher.AssertExpectations(t)
}
