package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/persistence/file"
)

func newTestRegistry(t *testing.T, config Config, links ...*models.PlatformLink) (*Registry, persistence.Persistence) {
	t.Helper()

	p := file.NewPersistence(t.TempDir())

	for _, link := range links {
		require.NoError(t, p.PlatformLinks().SavePlatformLink(t.Context(), link))
	}

	return NewRegistry(p.PlatformLinks(), config), p
}

func TestEligibleButtons_ConfiguredLinksWin(t *testing.T) {
	registry, _ := newTestRegistry(t,
		Config{EnabledPlatforms: []string{"Google", "Trustpilot"}},
		&models.PlatformLink{ID: "l1", Title: "Google", URL: "https://g.page/r/x/review", IsActive: true, PlatformID: "google", Position: 1},
		&models.PlatformLink{ID: "l2", Title: "Yelp", URL: "https://yelp.com/biz/x", IsActive: true, PlatformID: "yelp", Position: 2},
	)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 2)

	// Stored order, not the legacy order, and no legacy fallbacks mixed in.
	assert.Equal(t, "google", buttons[0].PlatformID)
	assert.Equal(t, "yelp", buttons[1].PlatformID)
	assert.Equal(t, "Submit on Yelp", buttons[1].Label)
}

func TestEligibleButtons_InactiveAndPlaceholderSkipped(t *testing.T) {
	registry, _ := newTestRegistry(t, Config{},
		&models.PlatformLink{ID: "l1", Title: "Google", URL: "https://g.page/r/x/review", IsActive: false, PlatformID: "google", Position: 1},
		&models.PlatformLink{ID: "l2", Title: "Yelp", URL: "https://example.com", IsActive: true, PlatformID: "yelp", Position: 2},
		&models.PlatformLink{ID: "l3", Title: "Trustpilot", URL: "https://trustpilot.com/review/x", IsActive: true, PlatformID: "trustpilot", Position: 3},
	)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 1)
	assert.Equal(t, "trustpilot", buttons[0].PlatformID)
}

func TestEligibleButtons_VideoLinkAlwaysEligible(t *testing.T) {
	registry, _ := newTestRegistry(t, Config{},
		&models.PlatformLink{ID: "l1", Title: "Video Testimonial", URL: "", IsActive: true, PlatformID: models.PlatformVideoTestimonial, Position: 1},
	)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 1)
	assert.Equal(t, models.PlatformVideoTestimonial, buttons[0].PlatformID)
	assert.False(t, buttons[0].NeedsConfiguration)
}

func TestEligibleButtons_InactiveVideoLinkHidden(t *testing.T) {
	registry, _ := newTestRegistry(t, Config{},
		&models.PlatformLink{ID: "l1", Title: "Video Testimonial", IsActive: false, PlatformID: models.PlatformVideoTestimonial, Position: 1},
		&models.PlatformLink{ID: "l2", Title: "Google", URL: "https://g.page/r/x/review", IsActive: true, PlatformID: "google", Position: 2},
	)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 1)
	assert.Equal(t, "google", buttons[0].PlatformID)

	available, err := registry.HasVideoTestimonial(t.Context())
	require.NoError(t, err)
	assert.False(t, available)
}

func TestEligibleButtons_LegacyFallback(t *testing.T) {
	config := Config{
		EnabledPlatforms: []string{"Google"},
		Platforms: map[string]PlatformInfo{
			"Google": {URL: "https://google.com/maps"},
		},
	}

	registry, _ := newTestRegistry(t, config)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 1)
	assert.Equal(t, "google", buttons[0].PlatformID)
	assert.Equal(t, "Submit on Google", buttons[0].Label)
	assert.Equal(t, "https://google.com/maps", buttons[0].URL)
}

func TestEligibleButtons_LegacyOrderIsFixed(t *testing.T) {
	config := Config{
		EnabledPlatforms: []string{"Video", "Facebook", "Google"},
	}

	registry, _ := newTestRegistry(t, config)

	buttons, err := registry.EligibleButtons(t.Context())
	require.NoError(t, err)
	require.Len(t, buttons, 3)

	assert.Equal(t, "google", buttons[0].PlatformID)
	assert.Equal(t, "facebook", buttons[1].PlatformID)
	assert.Equal(t, models.PlatformVideoTestimonial, buttons[2].PlatformID)
	assert.Equal(t, models.VideoUploadSentinelURL, buttons[2].URL)
}

func TestHasVideoTestimonial(t *testing.T) {
	// Configured video link.
	registry, _ := newTestRegistry(t, Config{},
		&models.PlatformLink{ID: "l1", Title: "Video Testimonial", IsActive: true, PlatformID: models.PlatformVideoTestimonial, Position: 1},
	)

	available, err := registry.HasVideoTestimonial(t.Context())
	require.NoError(t, err)
	assert.True(t, available)

	// Legacy fallback with Video enabled.
	legacy, _ := newTestRegistry(t, Config{EnabledPlatforms: []string{"Video"}})

	available, err = legacy.HasVideoTestimonial(t.Context())
	require.NoError(t, err)
	assert.True(t, available)

	// Nothing configured, Video not enabled.
	none, _ := newTestRegistry(t, Config{EnabledPlatforms: []string{"Google"}})

	available, err = none.HasVideoTestimonial(t.Context())
	require.NoError(t, err)
	assert.False(t, available)
}

func TestLinkByPlatformID(t *testing.T) {
	registry, _ := newTestRegistry(t, Config{},
		&models.PlatformLink{ID: "l1", Title: "Google", URL: "https://g.page/r/x/review", IsActive: true, PlatformID: "google", Position: 1},
	)

	link, err := registry.LinkByPlatformID(t.Context(), "google")
	require.NoError(t, err)
	assert.Equal(t, "l1", link.ID)

	_, err = registry.LinkByPlatformID(t.Context(), "yelp")
	assert.ErrorIs(t, err, persistence.ErrPlatformLinkNotFound)
}

func TestLinkByPlatformID_Legacy(t *testing.T) {
	config := Config{
		EnabledPlatforms: []string{"Trustpilot"},
		Platforms: map[string]PlatformInfo{
			"Trustpilot": {URL: "https://trustpilot.com"},
		},
	}

	registry, _ := newTestRegistry(t, config)

	link, err := registry.LinkByPlatformID(t.Context(), "Trustpilot")
	require.NoError(t, err)
	assert.Equal(t, "trustpilot", link.PlatformID)
	assert.Equal(t, "https://trustpilot.com", link.URL)

	_, err = registry.LinkByPlatformID(t.Context(), "Google")
	assert.ErrorIs(t, err, persistence.ErrPlatformLinkNotFound)
}
