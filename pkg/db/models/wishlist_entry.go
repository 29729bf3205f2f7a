package models

import "time"

// WishlistEntry links an account to a saved product.
type WishlistEntry struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	AccountID uint      `gorm:"column:account_id;not null;uniqueIndex:wishlist_entries_account_product_key"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:wishlist_entries_account_product_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
