package campaign

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/reviewdrip/reviewdrip/pkg/models"
)

// campaignSchema validates imported campaign documents before they are
// trusted enough to unmarshal and persist.
const campaignSchema = `{
	"type": "object",
	"required": ["name", "type", "sender_identity", "content"],
	"properties": {
		"name": {"type": "string", "minLength": 3},
		"type": {"type": "string", "enum": ["sms", "email"]},
		"sender_identity": {"type": "string", "minLength": 1},
		"subject": {"type": "string"},
		"content": {"type": "string", "minLength": 1},
		"trigger": {
			"type": "object",
			"required": ["mode"],
			"properties": {
				"mode": {"type": "string", "enum": ["immediate", "wait"]},
				"days": {"type": "integer", "minimum": 1}
			}
		},
		"sequence": {
			"type": "object",
			"properties": {
				"channel": {"type": "string", "enum": ["sms", "email"]},
				"steps": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["id", "type"],
						"properties": {
							"id": {"type": "string"},
							"type": {"type": "string", "enum": ["message", "wait", "branch"]}
						}
					}
				}
			}
		}
	}
}`

// ErrInvalidCampaignDocument indicates the imported JSON failed schema validation.
var ErrInvalidCampaignDocument = errors.New("invalid campaign document")

// ImportCampaign parses a campaign definition from JSON, validating it
// against the campaign schema first.
func ImportCampaign(data []byte) (*models.Campaign, error) {
	schemaLoader := gojsonschema.NewStringLoader(campaignSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate campaign document: %w", err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidCampaignDocument, strings.Join(details, "; "))
	}

	var campaign models.Campaign
	if err := json.Unmarshal(data, &campaign); err != nil {
		return nil, fmt.Errorf("failed to unmarshal campaign document: %w", err)
	}

	if campaign.Sequence != nil {
		if err := campaign.Sequence.Validate(); err != nil {
			return nil, err
		}
	}

	return &campaign, nil
}
