package campaign

import (
	"context"
	"log/slog"

	"github.com/reviewdrip/reviewdrip/pkg/dispatch"
	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// SendFailure reports one recipient that could not be delivered to.
type SendFailure struct {
	ContactID string              `json:"contact_id"`
	Reason    dispatch.ReasonCode `json:"reason"`
}

// SendReport summarizes a bulk send: partial success, never first-failure abort.
type SendReport struct {
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Failures  []SendFailure `json:"failures,omitempty"`
}

// Sender delivers a campaign's headline message to selected contacts.
type Sender struct {
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger
}

// NewSender creates a sender over the given dispatcher.
func NewSender(dispatcher dispatch.Dispatcher, logger *slog.Logger) *Sender {
	return &Sender{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// SendToContacts delivers sequentially, one contact at a time. Each attempt
// is best-effort and at-most-once; a failure is recorded and the loop moves
// on. Retry is a fresh user action, never automatic.
func (s *Sender) SendToContacts(ctx context.Context, campaign *models.Campaign, contacts []*models.Contact) *SendReport {
	report := &SendReport{}

	for _, contact := range contacts {
		var err error

		switch campaign.Type {
		case models.ChannelSMS:
			err = s.dispatcher.SendSMS(ctx, contact, campaign.Content, campaign.SenderIdentity)
		case models.ChannelEmail:
			err = s.dispatcher.SendEmail(ctx, contact, campaign.Subject, campaign.Content, campaign.SenderIdentity)
		}

		if err != nil {
			report.Failed++
			report.Failures = append(report.Failures, SendFailure{
				ContactID: contact.ID,
				Reason:    dispatch.Reason(err),
			})

			s.logger.WarnContext(ctx, "delivery failed",
				"campaign_id", campaign.ID,
				"contact_id", contact.ID,
				"error", err,
			)

			continue
		}

		report.Succeeded++
	}

	return report
}
