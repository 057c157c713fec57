// Package contacts provides the contact management service, the
// authoritative boundary where duplicate detection is enforced.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reviewdrip/reviewdrip/pkg/ingest"
	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// ErrContactNotFound is returned when a contact is not found.
var ErrContactNotFound = persistence.ErrContactNotFound

type Service struct {
	persistence persistence.Persistence
	validate    *validator.Validate
}

// NewService creates a new contact service.
func NewService(p persistence.Persistence) *Service {
	return &Service{
		persistence: p,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// List returns every stored contact.
func (s *Service) List(ctx context.Context) ([]*models.Contact, error) {
	return s.persistence.Contacts().Contacts(ctx)
}

// FetchByID returns one contact or ErrContactNotFound.
func (s *Service) FetchByID(ctx context.Context, id string) (*models.Contact, error) {
	contact, err := s.persistence.Contacts().ContactByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if contact == nil {
		return nil, ErrContactNotFound
	}

	return contact, nil
}

// Create validates and stores a new contact. Duplicate email or phone
// surfaces as a persistence.ConflictError naming the colliding field.
func (s *Service) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if contact.ID == "" {
		contact.ID = uuid.New().String()
	}

	if err := s.validate.Struct(contact); err != nil {
		return nil, fmt.Errorf("invalid contact: %w", err)
	}

	now := time.Now().UTC()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	if err := s.persistence.Contacts().SaveContact(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// Update replaces an existing contact's fields, re-running duplicate checks.
func (s *Service) Update(ctx context.Context, id string, contact *models.Contact) (*models.Contact, error) {
	existing, err := s.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contact.ID = id
	contact.CreatedAt = existing.CreatedAt

	if err := s.validate.Struct(contact); err != nil {
		return nil, fmt.Errorf("invalid contact: %w", err)
	}

	if err := s.persistence.Contacts().SaveContact(ctx, contact); err != nil {
		return nil, err
	}

	return contact, nil
}

// Delete removes a contact by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.persistence.Contacts().DeleteContact(ctx, id)
}

// BulkImport parses bulk text and stores every valid row. Parse errors and
// duplicate conflicts are collected per row; neither aborts the batch. Only
// a wholly empty input fails outright.
func (s *Service) BulkImport(ctx context.Context, raw string, channel models.Channel) (*ingest.Result, error) {
	pipeline, err := ingest.NewPipeline(channel)
	if err != nil {
		return nil, err
	}

	rows, rowErrors, err := pipeline.Parse(raw)
	if err != nil {
		return nil, err
	}

	result := &ingest.Result{Errors: rowErrors}

	for _, row := range rows {
		if err := s.persistence.Contacts().SaveContact(ctx, row.Contact); err != nil {
			var conflict *persistence.ConflictError
			if errors.As(err, &conflict) {
				result.Errors = append(result.Errors, ingest.RowError{
					Row:    row.Line,
					Field:  conflict.Field,
					Reason: "already exists",
				})

				continue
			}

			return nil, fmt.Errorf("failed to store contact from row %d: %w", row.Line, err)
		}

		result.Inserted++
	}

	return result, nil
}
