package platforms

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

// legacyPlatforms is the fixed fallback set, in render order, used when no
// platform links are configured.
var legacyPlatforms = []string{"Google", "Trustpilot", "Facebook", "Video"}

// placeholderURLs never qualify as a real destination. A link whose URL is on
// this list is skipped unless it is the video testimonial link.
var placeholderURLs = map[string]bool{
	"":                    true,
	"#":                   true,
	"http://":             true,
	"https://":            true,
	"https://example.com": true,
	"your-review-link":    true,
}

// Button is one rendered destination on the positive screen.
type Button struct {
	PlatformID         string `json:"platform_id"`
	Title              string `json:"title"`
	Label              string `json:"label"`
	URL                string `json:"url"`
	NeedsConfiguration bool   `json:"needs_configuration"`
}

// Registry resolves the eligible destination buttons from configured links,
// falling back to the legacy platform set when none are configured.
type Registry struct {
	links  persistence.PlatformLinkRepository
	config Config
}

// NewRegistry creates a registry over stored links and the legacy config.
func NewRegistry(links persistence.PlatformLinkRepository, config Config) *Registry {
	return &Registry{
		links:  links,
		config: config,
	}
}

// EligibleButtons resolves the buttons for the positive branch.
//
// Configured links win: one button per active link whose URL is not a known
// placeholder, in stored order. The video testimonial link is always eligible
// regardless of its URL. When no links are configured at all, the legacy
// platform set applies, gated per name by the enabled list.
//
// The IsActive flag is honored unconditionally here, including for the video
// testimonial link.
func (r *Registry) EligibleButtons(ctx context.Context) ([]Button, error) {
	links, err := r.links.PlatformLinks(ctx)
	if err != nil {
		return nil, err
	}

	if len(links) > 0 {
		return r.configuredButtons(links), nil
	}

	return r.legacyButtons(), nil
}

// HasVideoTestimonial reports whether the video upload path is reachable:
// an active configured video-testimonial link, or the legacy Video platform
// when no links are configured.
func (r *Registry) HasVideoTestimonial(ctx context.Context) (bool, error) {
	links, err := r.links.PlatformLinks(ctx)
	if err != nil {
		return false, err
	}

	if len(links) > 0 {
		for _, link := range links {
			if link.IsActive && link.IsVideoTestimonial() {
				return true, nil
			}
		}

		return false, nil
	}

	return r.enabled("Video"), nil
}

// LinkByPlatformID returns the configured or legacy link for a platform, so
// the funnel can resolve a button press back to a destination.
func (r *Registry) LinkByPlatformID(ctx context.Context, platformID string) (*models.PlatformLink, error) {
	links, err := r.links.PlatformLinks(ctx)
	if err != nil {
		return nil, err
	}

	if len(links) > 0 {
		for _, link := range links {
			if link.PlatformID == platformID || link.ID == platformID {
				return link, nil
			}
		}

		return nil, persistence.ErrPlatformLinkNotFound
	}

	if !r.enabled(platformID) {
		return nil, persistence.ErrPlatformLinkNotFound
	}

	info := r.config.Platforms[platformID]

	return &models.PlatformLink{
		ID:         platformID,
		Title:      platformID,
		URL:        legacyURL(platformID, info),
		IsActive:   true,
		PlatformID: legacyPlatformID(platformID),
	}, nil
}

func (r *Registry) configuredButtons(links []*models.PlatformLink) []Button {
	buttons := make([]Button, 0, len(links))

	for _, link := range links {
		if !link.IsActive {
			continue
		}

		if placeholderURLs[strings.TrimSpace(link.URL)] && !link.IsVideoTestimonial() {
			continue
		}

		buttons = append(buttons, Button{
			PlatformID:         link.PlatformID,
			Title:              link.Title,
			Label:              link.Label(),
			URL:                link.URL,
			NeedsConfiguration: strings.TrimSpace(link.URL) == "" && !link.IsVideoTestimonial(),
		})
	}

	return buttons
}

func (r *Registry) legacyButtons() []Button {
	buttons := make([]Button, 0, len(r.config.EnabledPlatforms))

	for _, name := range legacyPlatforms {
		if r.enabled(name) {
			buttons = append(buttons, r.legacyButton(name))
		}
	}

	// Any other enabled platform resolves through the lookup table, in a
	// deterministic order.
	extras := make([]string, 0)

	for _, name := range r.config.EnabledPlatforms {
		if !slices.Contains(legacyPlatforms, name) {
			extras = append(extras, name)
		}
	}

	sort.Strings(extras)

	for _, name := range extras {
		buttons = append(buttons, r.legacyButton(name))
	}

	return buttons
}

func (r *Registry) legacyButton(name string) Button {
	info := r.config.Platforms[name]
	url := legacyURL(name, info)

	return Button{
		PlatformID:         legacyPlatformID(name),
		Title:              name,
		Label:              "Submit on " + name,
		URL:                url,
		NeedsConfiguration: url == "" && name != "Video",
	}
}

func (r *Registry) enabled(name string) bool {
	return slices.Contains(r.config.EnabledPlatforms, name)
}

func legacyPlatformID(name string) string {
	if name == "Video" {
		return models.PlatformVideoTestimonial
	}

	return strings.ToLower(name)
}

func legacyURL(name string, info PlatformInfo) string {
	if name == "Video" {
		return models.VideoUploadSentinelURL
	}

	return info.URL
}
