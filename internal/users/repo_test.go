package users

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	"github.com/angelmondragon/storefront/pkg/db/models"
)

func TestRepositoryAccountLookups(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	active := dbtest.MustCreateAccount(t, client.DB(), "amina@example.com")
	inactive := &models.Account{Name: "Old", Email: "old@example.com", PasswordHash: "x", IsActive: false}
	require.NoError(t, repo.Create(ctx, inactive))

	found, err := repo.FindActiveByEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, active.ID, found.ID)

	_, err = repo.FindActiveByEmail(ctx, "old@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	exists, err := repo.EmailExists(ctx, "old@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	hasAdmin, err := repo.AdminExists(ctx)
	require.NoError(t, err)
	assert.False(t, hasAdmin)
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	dbtest.MustCreateAccount(t, client.DB(), "dup@example.com")
	err := repo.Create(ctx, &models.Account{Name: "Dup", Email: "dup@example.com", PasswordHash: "x", IsActive: true})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryUpdateProfile(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	account := dbtest.MustCreateAccount(t, client.DB(), "p@example.com")
	require.NoError(t, repo.UpdateProfile(ctx, account.ID, "Renamed", "uploads/profiles/p.jpg"))
	require.NoError(t, repo.UpdatePasswordHash(ctx, account.ID, "new-hash"))

	reloaded, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Equal(t, "uploads/profiles/p.jpg", reloaded.ProfileImage)
	assert.Equal(t, "new-hash", reloaded.PasswordHash)
}
