package campaign

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// DefaultSweepExpression runs the enrollment sweep every minute.
const DefaultSweepExpression = "* * * * *"

// Scheduler advances due enrollments through their campaign sequences. The
// sweep cadence is a standard 5-field cron expression.
type Scheduler struct {
	persistence persistence.Persistence
	sender      *Sender
	logger      *slog.Logger
	schedule    cron.Schedule
}

// NewScheduler creates a scheduler sweeping on the given cron expression.
func NewScheduler(p persistence.Persistence, sender *Sender, logger *slog.Logger, cronExpression string) (*Scheduler, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

	schedule, err := parser.Parse(cronExpression)
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		persistence: p,
		sender:      sender,
		logger:      logger,
		schedule:    schedule,
	}, nil
}

// Run sweeps until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		next := s.schedule.Next(time.Now().UTC())

		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case now := <-timer.C:
			s.ProcessDue(ctx, now.UTC())
		}
	}
}

// ProcessDue advances every due enrollment. One enrollment's failure never
// blocks the others.
func (s *Scheduler) ProcessDue(ctx context.Context, now time.Time) {
	due, err := s.persistence.Enrollments().DueEnrollments(ctx, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list due enrollments", "error", err)

		return
	}

	for _, enrollment := range due {
		if err := s.advance(ctx, enrollment, now); err != nil {
			s.logger.ErrorContext(ctx, "failed to advance enrollment",
				"enrollment_id", enrollment.ID,
				"error", err,
			)
		}
	}
}

// advance executes steps from the enrollment's cursor until a wait step
// pushes the due time into the future or the sequence ends.
func (s *Scheduler) advance(ctx context.Context, enrollment *models.Enrollment, now time.Time) error {
	campaign, err := s.persistence.Campaigns().CampaignByID(ctx, enrollment.CampaignID)
	if err != nil {
		return err
	}

	if campaign == nil || campaign.Sequence == nil {
		enrollment.Completed = true

		return s.persistence.Enrollments().SaveEnrollment(ctx, enrollment)
	}

	steps := campaign.Sequence.Steps

	for enrollment.StepIndex < len(steps) {
		step := steps[enrollment.StepIndex]

		switch step.Type {
		case models.StepTypeMessage:
			s.deliver(ctx, campaign, enrollment, step)
			enrollment.StepIndex++
		case models.StepTypeWait:
			enrollment.StepIndex++
			enrollment.NextDueAt = now.AddDate(0, 0, step.Wait.Days)

			return s.persistence.Enrollments().SaveEnrollment(ctx, enrollment)
		case models.StepTypeBranch:
			// The branch's owned steps, if any, sit inline right after it.
			enrollment.StepIndex++
		}
	}

	enrollment.Completed = true

	return s.persistence.Enrollments().SaveEnrollment(ctx, enrollment)
}

// deliver sends one sequence message. Delivery is at-most-once: a failure is
// logged and the enrollment still moves past the step.
func (s *Scheduler) deliver(ctx context.Context, campaign *models.Campaign, enrollment *models.Enrollment, step *models.WorkflowStep) {
	contact, err := s.persistence.Contacts().ContactByID(ctx, enrollment.ContactID)
	if err != nil || contact == nil {
		s.logger.WarnContext(ctx, "enrollment contact unavailable",
			"enrollment_id", enrollment.ID,
			"contact_id", enrollment.ContactID,
			"error", err,
		)

		return
	}

	switch step.Message.Channel {
	case models.ChannelSMS:
		err = s.sender.dispatcher.SendSMS(ctx, contact, step.Message.Content, campaign.SenderIdentity)
	case models.ChannelEmail:
		err = s.sender.dispatcher.SendEmail(ctx, contact, step.Message.Subject, step.Message.Content, campaign.SenderIdentity)
	}

	if err != nil {
		s.logger.WarnContext(ctx, "sequence delivery failed",
			"enrollment_id", enrollment.ID,
			"step_id", step.ID,
			"error", err,
		)
	}
}
