package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// ContactRepository handles contact-related file operations.
type ContactRepository struct {
	root string
}

// NewContactRepository creates a new contact repository.
func NewContactRepository(root string) *ContactRepository {
	return &ContactRepository{root: root}
}

// Contacts returns every stored contact ordered by creation time.
func (cr *ContactRepository) Contacts(ctx context.Context) ([]*models.Contact, error) {
	ids, err := listJSONIDs(cr.root, "contacts")
	if err != nil {
		return nil, err
	}

	contacts := make([]*models.Contact, 0, len(ids))

	for _, id := range ids {
		contact, err := cr.ContactByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if contact != nil {
			contacts = append(contacts, contact)
		}
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.Before(contacts[j].CreatedAt)
	})

	return contacts, nil
}

// ContactByID retrieves a contact by its ID, or nil when absent.
func (cr *ContactRepository) ContactByID(_ context.Context, id string) (*models.Contact, error) {
	filePath := filepath.Clean(path.Join(cr.root, "contacts", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch contact %s: %w", id, err)
	}

	var contact models.Contact

	err = json.Unmarshal(body, &contact)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal contact %s: %w", id, err)
	}

	return &contact, nil
}

// SaveContact persists a contact, rejecting duplicates of another contact's
// email (case-insensitive) or phone (digit-normalized).
func (cr *ContactRepository) SaveContact(ctx context.Context, contact *models.Contact) error {
	if err := cr.checkDuplicate(ctx, contact); err != nil {
		return err
	}

	err := os.MkdirAll(cr.root+"/contacts", 0750)
	if err != nil {
		return fmt.Errorf("failed to create contacts directory: %w", err)
	}

	now := time.Now().UTC()
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = now
	}

	contact.UpdatedAt = now

	data, err := json.MarshalIndent(contact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal contact %s: %w", contact.ID, err)
	}

	filePath := path.Join(cr.root+"/contacts", contact.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeleteContact removes a contact by its ID.
func (cr *ContactRepository) DeleteContact(_ context.Context, id string) error {
	filePath := path.Join(cr.root+"/contacts", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return persistence.ErrContactNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to delete contact %s: %w", id, err)
	}

	return nil
}

func (cr *ContactRepository) checkDuplicate(ctx context.Context, candidate *models.Contact) error {
	existing, err := cr.Contacts(ctx)
	if err != nil {
		return err
	}

	email := models.NormalizedEmail(candidate.Email)
	phone := models.NormalizedPhone(candidate.Phone)

	for _, contact := range existing {
		if contact.ID == candidate.ID {
			continue
		}

		if email != "" && models.NormalizedEmail(contact.Email) == email {
			return persistence.NewConflictError("email", candidate.Email)
		}

		if phone != "" && models.NormalizedPhone(contact.Phone) == phone {
			return persistence.NewConflictError("phone", candidate.Phone)
		}
	}

	return nil
}

// listJSONIDs globs a storage subdirectory for entity IDs.
func listJSONIDs(root, dir string) ([]string, error) {
	sub := os.DirFS(path.Join(root, dir))

	jsonFiles, err := fs.Glob(sub, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s files: %w", dir, err)
	}

	ids := make([]string, 0, len(jsonFiles))
	for _, file := range jsonFiles {
		ids = append(ids, file[:len(file)-5]) // Remove .json extension
	}

	return ids, nil
}
