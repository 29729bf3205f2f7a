package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// Order is written once from a cart snapshot.
type Order struct {
	ID            uint                `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID     uint                `gorm:"column:account_id;not null;index:orders_account_created_idx,priority:1"`
	AddressID     uint                `gorm:"column:address_id;not null"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index:orders_account_created_idx,priority:2"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
