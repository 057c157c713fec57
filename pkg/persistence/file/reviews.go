package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// FeedbackRepository stores private feedback records from the negative branch.
type FeedbackRepository struct {
	root string
}

// NewFeedbackRepository creates a new feedback repository.
func NewFeedbackRepository(root string) *FeedbackRepository {
	return &FeedbackRepository{root: root}
}

// SubmitFeedback persists one feedback record.
func (fr *FeedbackRepository) SubmitFeedback(_ context.Context, feedback *models.Feedback) error {
	err := os.MkdirAll(fr.root+"/feedback", 0750)
	if err != nil {
		return fmt.Errorf("failed to create feedback directory: %w", err)
	}

	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(feedback, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feedback %s: %w", feedback.ID, err)
	}

	filePath := path.Join(fr.root+"/feedback", feedback.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// FeedbackEntries returns every stored feedback record ordered by creation time.
func (fr *FeedbackRepository) FeedbackEntries(_ context.Context) ([]*models.Feedback, error) {
	ids, err := listJSONIDs(fr.root, "feedback")
	if err != nil {
		return nil, err
	}

	entries := make([]*models.Feedback, 0, len(ids))

	for _, id := range ids {
		filePath := filepath.Clean(path.Join(fr.root, "feedback", id+".json"))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch feedback %s: %w", id, err)
		}

		var feedback models.Feedback

		err = json.Unmarshal(body, &feedback)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal feedback %s: %w", id, err)
		}

		entries = append(entries, &feedback)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

// VideoRepository stores testimonial metadata and the uploaded asset bytes.
type VideoRepository struct {
	root string
}

// NewVideoRepository creates a new video repository.
func NewVideoRepository(root string) *VideoRepository {
	return &VideoRepository{root: root}
}

// UploadVideo writes the asset content next to the testimonial record and
// fills in AssetRef with the stored path.
func (vr *VideoRepository) UploadVideo(_ context.Context, testimonial *models.VideoTestimonial, content io.Reader) error {
	err := os.MkdirAll(vr.root+"/videos", 0750)
	if err != nil {
		return fmt.Errorf("failed to create videos directory: %w", err)
	}

	assetPath := path.Join(vr.root+"/videos", testimonial.ID+".bin")

	asset, err := os.OpenFile(filepath.Clean(assetPath), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create video asset %s: %w", testimonial.ID, err)
	}

	_, err = io.Copy(asset, content)
	if closeErr := asset.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("failed to write video asset %s: %w", testimonial.ID, err)
	}

	testimonial.AssetRef = assetPath

	if testimonial.CreatedAt.IsZero() {
		testimonial.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(testimonial, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal video testimonial %s: %w", testimonial.ID, err)
	}

	return os.WriteFile(path.Join(vr.root+"/videos", testimonial.ID+".json"), data, 0600)
}

// VideoTestimonials returns every stored testimonial ordered by creation time.
func (vr *VideoRepository) VideoTestimonials(_ context.Context) ([]*models.VideoTestimonial, error) {
	ids, err := listJSONIDs(vr.root, "videos")
	if err != nil {
		return nil, err
	}

	testimonials := make([]*models.VideoTestimonial, 0, len(ids))

	for _, id := range ids {
		filePath := filepath.Clean(path.Join(vr.root, "videos", id+".json"))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch video testimonial %s: %w", id, err)
		}

		var testimonial models.VideoTestimonial

		err = json.Unmarshal(body, &testimonial)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal video testimonial %s: %w", id, err)
		}

		testimonials = append(testimonials, &testimonial)
	}

	sort.Slice(testimonials, func(i, j int) bool {
		return testimonials[i].CreatedAt.Before(testimonials[j].CreatedAt)
	})

	return testimonials, nil
}
