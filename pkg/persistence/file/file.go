// Package file provides file-based persistence for contacts, campaigns, and review records.
package file

import (
	"context"
	"os"
	"strings"

	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root           string
	contactRepo    *ContactRepository
	campaignRepo   *CampaignRepository
	enrollmentRepo *EnrollmentRepository
	linkRepo       *PlatformLinkRepository
	feedbackRepo   *FeedbackRepository
	videoRepo      *VideoRepository
}

// NewPersistence creates a new instance of Persistence rooted at the given directory.
func NewPersistence(root string) persistence.Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:           cleanRoot,
		contactRepo:    NewContactRepository(cleanRoot),
		campaignRepo:   NewCampaignRepository(cleanRoot),
		enrollmentRepo: NewEnrollmentRepository(cleanRoot),
		linkRepo:       NewPlatformLinkRepository(cleanRoot),
		feedbackRepo:   NewFeedbackRepository(cleanRoot),
		videoRepo:      NewVideoRepository(cleanRoot),
	}
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Contacts() persistence.ContactRepository {
	return fp.contactRepo
}

func (fp *Persistence) Campaigns() persistence.CampaignRepository {
	return fp.campaignRepo
}

func (fp *Persistence) Enrollments() persistence.EnrollmentRepository {
	return fp.enrollmentRepo
}

func (fp *Persistence) PlatformLinks() persistence.PlatformLinkRepository {
	return fp.linkRepo
}

func (fp *Persistence) Feedback() persistence.FeedbackRepository {
	return fp.feedbackRepo
}

func (fp *Persistence) Videos() persistence.VideoRepository {
	return fp.videoRepo
}
