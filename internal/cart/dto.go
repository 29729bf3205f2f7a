package cart

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Line is a cart line joined with its product. Product is nil when the product was deleted.
type Line struct {
	ID        uint
	ProductID uint
	Quantity  int
	Product   *models.Product
}

// PricedLine is a line with its parsed unit price.
type PricedLine struct {
	Line
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Summary is the priced cart.
type Summary struct {
	Lines []PricedLine
	Total decimal.Decimal
}

// Outcome reports what a quantity change did.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeUpdated
	OutcomeRemoved
)
