// Package campaign provides campaign authoring, enrollment, sending, and the
// enrollment sweep scheduler.
package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// ErrCampaignNotFound is returned when a campaign is not found.
var ErrCampaignNotFound = persistence.ErrCampaignNotFound

type Service struct {
	persistence persistence.Persistence
	validate    *validator.Validate
}

// NewService creates a new campaign service.
func NewService(p persistence.Persistence) *Service {
	return &Service{
		persistence: p,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// List returns every stored campaign.
func (s *Service) List(ctx context.Context) ([]*models.Campaign, error) {
	return s.persistence.Campaigns().Campaigns(ctx)
}

// FetchByID returns one campaign or ErrCampaignNotFound.
func (s *Service) FetchByID(ctx context.Context, id string) (*models.Campaign, error) {
	campaign, err := s.persistence.Campaigns().CampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if campaign == nil {
		return nil, ErrCampaignNotFound
	}

	return campaign, nil
}

// Create validates and stores a new campaign as a draft.
func (s *Service) Create(ctx context.Context, campaign *models.Campaign) (*models.Campaign, error) {
	if campaign.ID == "" {
		campaign.ID = uuid.New().String()
	}

	if campaign.Status == "" {
		campaign.Status = models.CampaignStatusDraft
	}

	if err := s.validateCampaign(campaign); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now

	if err := s.persistence.Campaigns().SaveCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	return campaign, nil
}

// Update replaces an existing campaign.
func (s *Service) Update(ctx context.Context, id string, campaign *models.Campaign) (*models.Campaign, error) {
	existing, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	campaign.ID = id
	campaign.CreatedAt = existing.CreatedAt

	if err := s.validateCampaign(campaign); err != nil {
		return nil, err
	}

	if err := s.persistence.Campaigns().SaveCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	return campaign, nil
}

// Delete removes a campaign by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.FetchByID(ctx, id); err != nil {
		return err
	}

	return s.persistence.Campaigns().DeleteCampaign(ctx, id)
}

// Enroll registers a contact into a campaign. The trigger policy decides
// when the first step becomes due.
func (s *Service) Enroll(ctx context.Context, campaignID, contactID string) (*models.Enrollment, error) {
	campaign, err := s.FetchByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	enrollment := &models.Enrollment{
		ID:         uuid.New().String(),
		CampaignID: campaign.ID,
		ContactID:  contactID,
		StepIndex:  0,
		NextDueAt:  campaign.Trigger.StartAt(now),
		EnrolledAt: now,
	}

	if err := s.persistence.Enrollments().SaveEnrollment(ctx, enrollment); err != nil {
		return nil, err
	}

	return enrollment, nil
}

func (s *Service) validateCampaign(campaign *models.Campaign) error {
	if err := s.validate.Struct(campaign); err != nil {
		return fmt.Errorf("invalid campaign: %w", err)
	}

	if err := campaign.Trigger.Validate(); err != nil {
		return err
	}

	if campaign.Sequence != nil {
		if err := campaign.Sequence.Validate(); err != nil {
			return err
		}
	}

	return nil
}
