// Package persistence provides the data storage abstraction for contacts,
// campaigns, platform links, and review records.
package persistence

import (
	"context"
	"io"
	"time"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// Persistence aggregates the repositories the services operate on.
type Persistence interface {
	Contacts() ContactRepository
	Campaigns() CampaignRepository
	Enrollments() EnrollmentRepository
	PlatformLinks() PlatformLinkRepository
	Feedback() FeedbackRepository
	Videos() VideoRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ContactRepository stores campaign recipients. Save reports
// ErrContactAlreadyExists (wrapped in a ConflictError naming the field) when
// another contact holds the same normalized email or phone.
type ContactRepository interface {
	Contacts(ctx context.Context) ([]*models.Contact, error)
	ContactByID(ctx context.Context, id string) (*models.Contact, error)
	SaveContact(ctx context.Context, contact *models.Contact) error
	DeleteContact(ctx context.Context, id string) error
}

type CampaignRepository interface {
	Campaigns(ctx context.Context) ([]*models.Campaign, error)
	CampaignByID(ctx context.Context, id string) (*models.Campaign, error)
	SaveCampaign(ctx context.Context, campaign *models.Campaign) error
	DeleteCampaign(ctx context.Context, id string) error
}

// EnrollmentRepository tracks contact progress through campaign sequences.
type EnrollmentRepository interface {
	Enrollments(ctx context.Context, campaignID string) ([]*models.Enrollment, error)
	DueEnrollments(ctx context.Context, now time.Time) ([]*models.Enrollment, error)
	SaveEnrollment(ctx context.Context, enrollment *models.Enrollment) error
}

// PlatformLinkRepository stores the ordered destination links shown on the
// positive funnel branch. Listing preserves stored order.
type PlatformLinkRepository interface {
	PlatformLinks(ctx context.Context) ([]*models.PlatformLink, error)
	SavePlatformLink(ctx context.Context, link *models.PlatformLink) error
	DeletePlatformLink(ctx context.Context, id string) error
}

type FeedbackRepository interface {
	SubmitFeedback(ctx context.Context, feedback *models.Feedback) error
	FeedbackEntries(ctx context.Context) ([]*models.Feedback, error)
}

// VideoRepository stores testimonial uploads. UploadVideo persists the asset
// content and fills in the testimonial's AssetRef.
type VideoRepository interface {
	UploadVideo(ctx context.Context, testimonial *models.VideoTestimonial, content io.Reader) error
	VideoTestimonials(ctx context.Context) ([]*models.VideoTestimonial, error)
}
