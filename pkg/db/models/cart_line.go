package models

import "time"

// CartLine is one product in an account's cart. (account_id, product_id) is unique.
type CartLine struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID uint      `gorm:"column:account_id;not null;uniqueIndex:cart_lines_account_product_key"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:cart_lines_account_product_key"`
	Quantity  int       `gorm:"column:quantity;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
