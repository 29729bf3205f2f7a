package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLine captures quantity, title and unit price at order time.
type OrderLine struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"column:order_id;not null;index:order_lines_order_id_idx"`
	ProductID uint            `gorm:"column:product_id;not null"`
	Title     string          `gorm:"column:title;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// LineTotal returns price multiplied by quantity.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
