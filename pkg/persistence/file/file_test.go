package file

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
)

func TestNewPersistence_StripsScheme(t *testing.T) {
	dir := t.TempDir()
	p := NewPersistence("file://" + dir)

	require.NoError(t, p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}))

	assert.NoError(t, p.HealthCheck(t.Context()))
	assert.NoError(t, p.Close(t.Context()))
}

func TestContactRepository_SaveAndFetch(t *testing.T) {
	p := NewPersistence(t.TempDir())

	contact := &models.Contact{
		ID:      "c1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}

	require.NoError(t, p.Contacts().SaveContact(t.Context(), contact))
	assert.False(t, contact.CreatedAt.IsZero())

	fetched, err := p.Contacts().ContactByID(t.Context(), "c1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "Jane Doe", fetched.Name)

	missing, err := p.Contacts().ContactByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestContactRepository_DuplicateDetection(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "(555) 123-4567",
		Channel: models.ChannelEmail,
	}))

	err := p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c2",
		Name:    "Someone Else",
		Email:   "JANE@example.com",
		Channel: models.ChannelEmail,
	})
	require.Error(t, err)
	assert.True(t, persistence.IsContactConflict(err))

	err = p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c3",
		Name:    "Another One",
		Phone:   "5551234567",
		Channel: models.ChannelSMS,
	})
	require.Error(t, err)

	var conflict *persistence.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "phone", conflict.Field)

	// Re-saving the same contact is an update, not a duplicate.
	assert.NoError(t, p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c1",
		Name:    "Jane D.",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}))
}

func TestContactRepository_Delete(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Contacts().SaveContact(t.Context(), &models.Contact{
		ID:      "c1",
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	}))

	require.NoError(t, p.Contacts().DeleteContact(t.Context(), "c1"))
	assert.ErrorIs(t, p.Contacts().DeleteContact(t.Context(), "c1"), persistence.ErrContactNotFound)
}

func TestPlatformLinkRepository_StableOrder(t *testing.T) {
	p := NewPersistence(t.TempDir())

	links := []*models.PlatformLink{
		{ID: "l3", Title: "Facebook", PlatformID: "facebook", Position: 3, IsActive: true},
		{ID: "l1", Title: "Google", PlatformID: "google", Position: 1, IsActive: true},
		{ID: "l2", Title: "Yelp", PlatformID: "yelp", Position: 2, IsActive: false},
	}

	for _, link := range links {
		require.NoError(t, p.PlatformLinks().SavePlatformLink(t.Context(), link))
	}

	stored, err := p.PlatformLinks().PlatformLinks(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 3)

	// Position decides order; the inactive link keeps its slot.
	assert.Equal(t, "l1", stored[0].ID)
	assert.Equal(t, "l2", stored[1].ID)
	assert.Equal(t, "l3", stored[2].ID)
}

func TestVideoRepository_UploadVideo(t *testing.T) {
	p := NewPersistence(t.TempDir())

	testimonial := &models.VideoTestimonial{
		ID:        "v1",
		SessionID: "s1",
		FileName:  "clip.mp4",
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Consent:   true,
	}

	require.NoError(t, p.Videos().UploadVideo(t.Context(), testimonial, strings.NewReader("video-bytes")))
	require.NotEmpty(t, testimonial.AssetRef)

	asset, err := os.ReadFile(testimonial.AssetRef)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(asset))

	stored, err := p.Videos().VideoTestimonials(t.Context())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "clip.mp4", stored[0].FileName)
	assert.True(t, stored[0].Consent)
}

func TestFeedbackRepository_SubmitAndList(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Feedback().SubmitFeedback(t.Context(), &models.Feedback{
		ID:        "f1",
		SessionID: "s1",
		Rating:    2,
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Text:      "Too slow.",
	}))

	entries, err := p.Feedback().FeedbackEntries(t.Context())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Rating)
	assert.Equal(t, "Too slow.", entries[0].Text)
}
