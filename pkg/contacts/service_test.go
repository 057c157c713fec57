package contacts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewdrip/reviewdrip/pkg/models"
	"github.com/reviewdrip/reviewdrip/pkg/persistence"
	"github.com/reviewdrip/reviewdrip/pkg/persistence/file"
)

func TestService_Create(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), &models.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", fetched.Name)
}

func TestService_Create_DuplicateEmail(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.Create(t.Context(), &models.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	})
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = service.Create(t.Context(), &models.Contact{
		Name:    "Jane Again",
		Email:   "Jane@Example.COM",
		Channel: models.ChannelEmail,
	})
	require.Error(t, err)
	assert.True(t, persistence.IsContactConflict(err))

	var conflict *persistence.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "email", conflict.Field)
}

func TestService_Create_DuplicatePhoneNormalized(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.Create(t.Context(), &models.Contact{
		Name:    "Bob Smith",
		Phone:   "(555) 123-4567",
		Channel: models.ChannelSMS,
	})
	require.NoError(t, err)

	_, err = service.Create(t.Context(), &models.Contact{
		Name:    "Bob Again",
		Phone:   "555.123.4567",
		Channel: models.ChannelSMS,
	})
	require.Error(t, err)

	var conflict *persistence.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "phone", conflict.Field)
}

func TestService_FetchByID_NotFound(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.FetchByID(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestService_Update_KeepsCreatedAt(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	created, err := service.Create(t.Context(), &models.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	})
	require.NoError(t, err)

	updated, err := service.Update(t.Context(), created.ID, &models.Contact{
		Name:    "Jane D.",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane D.", updated.Name)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestService_BulkImport(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	raw := "Name, Email\nJane Doe, jane@example.com\nBob Smith, not-an-email\nAnn Lee, ann@example.com"

	result, err := service.BulkImport(t.Context(), raw, models.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	stored, err := service.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestService_BulkImport_DuplicatesReportedPerRow(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.Create(t.Context(), &models.Contact{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Channel: models.ChannelEmail,
	})
	require.NoError(t, err)

	result, err := service.BulkImport(t.Context(), "Jane Doe, jane@example.com\nAnn Lee, ann@example.com", models.ChannelEmail)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Row)
	assert.Equal(t, "email", result.Errors[0].Field)
	assert.Equal(t, "already exists", result.Errors[0].Reason)
}

func TestService_BulkImport_EmptyInput(t *testing.T) {
	service := NewService(file.NewPersistence(t.TempDir()))

	_, err := service.BulkImport(t.Context(), "  \n ", models.ChannelEmail)
	require.Error(t, err)
}
