package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// MockDispatcher is a mock implementation of the dispatch.Dispatcher interface.
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendSMS(ctx context.Context, contact *models.Contact, content, senderName string) error {
	args := m.Called(ctx, contact, content, senderName)

	return args.Error(0)
}

func (m *MockDispatcher) SendEmail(ctx context.Context, contact *models.Contact, subject, content, fromAddress string) error {
	args := m.Called(ctx, contact, subject, content, fromAddress)

	return args.Error(0)
}
