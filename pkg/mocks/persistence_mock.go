package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// MockFeedbackRepository is a mock implementation of persistence.FeedbackRepository.
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) SubmitFeedback(ctx context.Context, feedback *models.Feedback) error {
	args := m.Called(ctx, feedback)

	return args.Error(0)
}

func (m *MockFeedbackRepository) FeedbackEntries(ctx context.Context) ([]*models.Feedback, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Feedback), args.Error(1)
}

// MockVideoRepository is a mock implementation of persistence.VideoRepository.
type MockVideoRepository struct {
	mock.Mock
}

func (m *MockVideoRepository) UploadVideo(ctx context.Context, testimonial *models.VideoTestimonial, content io.Reader) error {
	args := m.Called(ctx, testimonial, content)

	return args.Error(0)
}

func (m *MockVideoRepository) VideoTestimonials(ctx context.Context) ([]*models.VideoTestimonial, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.VideoTestimonial), args.Error(1)
}

// MockVideoGate is a mock implementation of funnel.VideoGate.
type MockVideoGate struct {
	mock.Mock
}

func (m *MockVideoGate) HasVideoTestimonial(ctx context.Context) (bool, error) {
	args := m.Called(ctx)

	return args.Bool(0), args.Error(1)
}
