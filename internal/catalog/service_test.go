package catalog

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc, repo
}

func TestSeedPopulatesEmptyCatalogOnce(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	inserted, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, inserted)

	inserted, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 12, count)
}

func TestHomeReturnsSectionsInFixedOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	sections, err := svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, enums.SectionPopular, sections[0].Section)
	assert.Equal(t, enums.SectionNewArrivals, sections[1].Section)
	assert.Equal(t, enums.SectionBestDeals, sections[2].Section)
	for _, section := range sections {
		assert.EqualValues(t, 4, section.Total)
		assert.Len(t, section.Products, 4)
	}
}

func TestHomeCapsProductsPerSection(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		dbtest.MustCreateProduct(t, repo.db, "Deal "+string(rune('A'+i)), "₹100", enums.SectionBestDeals)
	}

	sections, err := svc.Home(ctx)
	require.NoError(t, err)
	deals := sections[2]
	assert.Len(t, deals.Products, homeSectionLimit)
	assert.EqualValues(t, 8, deals.Total)
	assert.Equal(t, "Deal A", deals.Products[0].Title)
}

func TestSearchMatchesTitleOrDescription(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	results, err := svc.Search(ctx, "  navy ")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Designer Navy Blue Abaya", results[0].Title)

	results, err = svc.Search(ctx, "WEDDINGS")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Luxury Golden Abaya", results[0].Title)

	results, err = svc.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, results, "wildcards in the query are matched literally")
}

func TestCollectionFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	listing, err := svc.Collection(ctx, "deals")
	require.NoError(t, err)
	assert.Equal(t, "Best Deals", listing.Title)
	assert.Len(t, listing.Products, 4)

	listing, err = svc.Collection(ctx, "whatever")
	require.NoError(t, err)
	assert.Equal(t, "All Products", listing.Title)
	assert.Len(t, listing.Products, 12)
}

func TestProductByTitleIncludesSimilar(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, err := svc.Seed(ctx)
	require.NoError(t, err)

	detail, err := svc.ProductByTitle(ctx, "Casual Grey Abaya")
	require.NoError(t, err)
	assert.Equal(t, enums.SectionNewArrivals, detail.Product.Section)
	require.Len(t, detail.Similar, 3)
	for _, p := range detail.Similar {
		assert.NotEqual(t, detail.Product.ID, p.ID)
		assert.Equal(t, enums.SectionNewArrivals, p.Section)
	}

	_, err = svc.ProductByTitle(ctx, "Missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateUpdateDeleteProduct(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Title: "X", Price: "₹10", Section: "Best Deals", Description: "d"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "image is required on create")

	_, err = svc.Create(ctx, ProductInput{Title: "X", Price: "₹10", Section: "Clearance", Description: "d", Image: "uploads/products/x.jpg"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "unknown section")

	created, err := svc.Create(ctx, ProductInput{Title: " Kaftan ", Price: "not a price", Section: "Best Deals", Description: "d", Image: "uploads/products/k.jpg"})
	require.NoError(t, err, "price text is not validated at entry")
	assert.Equal(t, "Kaftan", created.Title)
	assert.True(t, created.InStock)

	outOfStock := false
	updated, err := svc.Update(ctx, created.ID, ProductInput{Title: "Kaftan", Price: "₹2,000", Section: "Popular Items", Description: "new", InStock: &outOfStock})
	require.NoError(t, err)
	assert.Equal(t, "uploads/products/k.jpg", updated.Image, "empty image keeps the stored one")
	assert.Equal(t, enums.SectionPopular, updated.Section)
	assert.False(t, updated.InStock)

	reloaded, err := svc.ProductByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "₹2,000", reloaded.Price)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Update(ctx, created.ID, ProductInput{Title: "a", Price: "b", Section: "Best Deals", Description: "c"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil)
	require.Error(t, err)
}
