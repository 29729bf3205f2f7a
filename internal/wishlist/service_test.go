package wishlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Products: catalog.NewRepository(client.DB()),
	})
	require.NoError(t, err)
	return svc, client.DB()
}

func TestAddItemSavesOnce(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	account := dbtest.MustCreateAccount(t, conn, "a@example.com")
	product := dbtest.MustCreateProduct(t, conn, "Abaya", "₹1,499", enums.SectionNewArrivals)

	require.NoError(t, svc.AddItem(ctx, account.ID, product.ID))

	err := svc.AddItem(ctx, account.ID, product.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, msgAlreadyInWishlist, pkgerrors.As(err).Message())

	ok, err := svc.Contains(ctx, account.ID, product.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	count, err := svc.Count(ctx, account.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddItemUnknownProduct(t *testing.T) {
	svc, conn := newTestService(t)
	account := dbtest.MustCreateAccount(t, conn, "a@example.com")

	err := svc.AddItem(context.Background(), account.ID, 999)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveItemIsOwnerScoped(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	owner := dbtest.MustCreateAccount(t, conn, "owner@example.com")
	other := dbtest.MustCreateAccount(t, conn, "other@example.com")
	product := dbtest.MustCreateProduct(t, conn, "Abaya", "₹1,499", enums.SectionNewArrivals)
	require.NoError(t, svc.AddItem(ctx, owner.ID, product.ID))

	entries, err := svc.ListItems(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].Product)
	assert.Equal(t, "Abaya", entries[0].Product.Title)

	removed, err := svc.RemoveItem(ctx, other.ID, entries[0].ID)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = svc.RemoveItem(ctx, owner.ID, entries[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)

	ok, err := svc.Contains(ctx, owner.ID, product.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
