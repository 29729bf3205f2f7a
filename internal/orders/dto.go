package orders

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/money"
)

const (
	msgEmptyCart      = "Your cart is empty!"
	msgInvalidAddress = "Please select a valid delivery address."
	msgOrderNotFound  = "Order not found!"
)

// Detail is an order with its lines and, when it still exists, the delivery address.
type Detail struct {
	Order   models.Order
	Lines   []models.OrderLine
	Address *models.Address
}

// snapshotLine freezes one cart line at order time.
type snapshotLine struct {
	cartLineID uint
	productID  uint
	title      string
	quantity   int
	unitPrice  decimal.Decimal
}

func (l snapshotLine) total() decimal.Decimal {
	return money.LineTotal(l.unitPrice, l.quantity)
}
