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

// PlatformLinkRepository handles platform link file operations.
type PlatformLinkRepository struct {
	root string
}

// NewPlatformLinkRepository creates a new platform link repository.
func NewPlatformLinkRepository(root string) *PlatformLinkRepository {
	return &PlatformLinkRepository{root: root}
}

// PlatformLinks returns every stored link in stable display order. Position
// decides order; toggling IsActive never changes it.
func (pr *PlatformLinkRepository) PlatformLinks(_ context.Context) ([]*models.PlatformLink, error) {
	ids, err := listJSONIDs(pr.root, "platform_links")
	if err != nil {
		return nil, err
	}

	links := make([]*models.PlatformLink, 0, len(ids))

	for _, id := range ids {
		filePath := filepath.Clean(path.Join(pr.root, "platform_links", id+".json"))

		body, err := os.ReadFile(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return nil, fmt.Errorf("failed to fetch platform link %s: %w", id, err)
		}

		var link models.PlatformLink

		err = json.Unmarshal(body, &link)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal platform link %s: %w", id, err)
		}

		links = append(links, &link)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Position < links[j].Position
	})

	return links, nil
}

// SavePlatformLink persists a link to the file system.
func (pr *PlatformLinkRepository) SavePlatformLink(_ context.Context, link *models.PlatformLink) error {
	err := os.MkdirAll(pr.root+"/platform_links", 0750)
	if err != nil {
		return fmt.Errorf("failed to create platform_links directory: %w", err)
	}

	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}

	link.UpdatedAt = now

	data, err := json.MarshalIndent(link, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal platform link %s: %w", link.ID, err)
	}

	filePath := path.Join(pr.root+"/platform_links", link.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeletePlatformLink removes a link by its ID.
func (pr *PlatformLinkRepository) DeletePlatformLink(_ context.Context, id string) error {
	filePath := path.Join(pr.root+"/platform_links", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete platform link %s: %w", id, err)
	}

	return nil
}
