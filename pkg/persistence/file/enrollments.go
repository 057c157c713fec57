package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// EnrollmentRepository handles enrollment-related file operations.
type EnrollmentRepository struct {
	root string
}

// NewEnrollmentRepository creates a new enrollment repository.
func NewEnrollmentRepository(root string) *EnrollmentRepository {
	return &EnrollmentRepository{root: root}
}

// Enrollments returns enrollments for a campaign, or all when campaignID is empty.
func (er *EnrollmentRepository) Enrollments(ctx context.Context, campaignID string) ([]*models.Enrollment, error) {
	all, err := er.load(ctx)
	if err != nil {
		return nil, err
	}

	if campaignID == "" {
		return all, nil
	}

	filtered := make([]*models.Enrollment, 0, len(all))

	for _, enrollment := range all {
		if enrollment.CampaignID == campaignID {
			filtered = append(filtered, enrollment)
		}
	}

	return filtered, nil
}

// DueEnrollments returns incomplete enrollments whose next step is due.
func (er *EnrollmentRepository) DueEnrollments(ctx context.Context, now time.Time) ([]*models.Enrollment, error) {
	all, err := er.load(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.Enrollment, 0, len(all))

	for _, enrollment := range all {
		if !enrollment.Completed && !enrollment.NextDueAt.After(now) {
			due = append(due, enrollment)
		}
	}

	return due, nil
}

// SaveEnrollment persists an enrollment to the file system.
func (er *EnrollmentRepository) SaveEnrollment(_ context.Context, enrollment *models.Enrollment) error {
	err := os.MkdirAll(er.root+"/enrollments", 0750)
	if err != nil {
		return fmt.Errorf("failed to create enrollments directory: %w", err)
	}

	now := time.Now().UTC()
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = now
	}

	enrollment.UpdatedAt = now

	data, err := json.MarshalIndent(enrollment, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal enrollment %s: %w", enrollment.ID, err)
	}

	filePath := path.Join(er.root+"/enrollments", enrollment.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

func (er *EnrollmentRepository) load(_ context.Context) ([]*models.Enrollment, error) {
	ids, err := listJSONIDs(er.root, "enrollments")
	if err != nil {
		return nil, err
	}

	enrollments := make([]*models.Enrollment, 0, len(ids))

	for _, id := range ids {
		filePath := filepath.Clean(path.Join(er.root, "enrollments", id+".json"))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch enrollment %s: %w", id, err)
		}

		var enrollment models.Enrollment

		err = json.Unmarshal(body, &enrollment)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal enrollment %s: %w", id, err)
		}

		enrollments = append(enrollments, &enrollment)
	}

	sort.Slice(enrollments, func(i, j int) bool {
		return enrollments[i].EnrolledAt.Before(enrollments[j].EnrolledAt)
	})

	return enrollments, nil
}
