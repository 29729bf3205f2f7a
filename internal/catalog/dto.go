package catalog

import (
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
)

const (
	homeSectionLimit = 6
	similarLimit     = 4
	allProductsTitle = "All Products"
)

// HomeSection is one block of the landing page.
type HomeSection struct {
	Section  enums.Section
	Products []models.Product
	Total    int64
}

// Listing is a titled list of products, used by collection pages.
type Listing struct {
	Title    string
	Products []models.Product
}

// ProductDetail carries a product and a few others from its section.
type ProductDetail struct {
	Product models.Product
	Similar []models.Product
}

// ProductInput is the admin form for creating or updating a product. An empty Image on
// update keeps the stored one.
type ProductInput struct {
	Title       string
	Price       string
	Section     string
	Description string
	Image       string
	InStock     *bool
}
