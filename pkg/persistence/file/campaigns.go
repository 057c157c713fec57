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

// CampaignRepository handles campaign-related file operations.
type CampaignRepository struct {
	root string
}

// NewCampaignRepository creates a new campaign repository.
func NewCampaignRepository(root string) *CampaignRepository {
	return &CampaignRepository{root: root}
}

// Campaigns returns every stored campaign ordered by creation time.
func (cr *CampaignRepository) Campaigns(ctx context.Context) ([]*models.Campaign, error) {
	ids, err := listJSONIDs(cr.root, "campaigns")
	if err != nil {
		return nil, err
	}

	campaigns := make([]*models.Campaign, 0, len(ids))

	for _, id := range ids {
		campaign, err := cr.CampaignByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if campaign != nil {
			campaigns = append(campaigns, campaign)
		}
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.Before(campaigns[j].CreatedAt)
	})

	return campaigns, nil
}

// CampaignByID retrieves a campaign by its ID, or nil when absent.
func (cr *CampaignRepository) CampaignByID(_ context.Context, id string) (*models.Campaign, error) {
	filePath := filepath.Clean(path.Join(cr.root, "campaigns", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("failed to fetch campaign %s: %w", id, err)
	}

	var campaign models.Campaign

	err = json.Unmarshal(body, &campaign)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign %s: %w", id, err)
	}

	return &campaign, nil
}

// SaveCampaign persists a campaign to the file system.
func (cr *CampaignRepository) SaveCampaign(_ context.Context, campaign *models.Campaign) error {
	err := os.MkdirAll(cr.root+"/campaigns", 0750)
	if err != nil {
		return fmt.Errorf("failed to create campaigns directory: %w", err)
	}

	now := time.Now().UTC()
	if campaign.CreatedAt.IsZero() {
		campaign.CreatedAt = now
	}

	campaign.UpdatedAt = now

	data, err := json.MarshalIndent(campaign, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal campaign %s: %w", campaign.ID, err)
	}

	filePath := path.Join(cr.root+"/campaigns", campaign.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// DeleteCampaign removes a campaign by its ID.
func (cr *CampaignRepository) DeleteCampaign(_ context.Context, id string) error {
	filePath := path.Join(cr.root+"/campaigns", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete campaign %s: %w", id, err)
	}

	return nil
}
