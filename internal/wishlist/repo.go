package wishlist

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a wishlist entry.
func (r *Repository) Create(ctx context.Context, entry *models.WishlistEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Contains reports whether the account saved the product.
func (r *Repository) Contains(ctx context.Context, accountID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistEntry{}).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Count(&count).Error
	return count > 0, err
}

// ListByAccount returns the account's entries, oldest first.
func (r *Repository) ListByAccount(ctx context.Context, accountID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Count returns the number of saved products.
func (r *Repository) Count(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistEntry{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// Delete removes an owned entry and returns the rows touched.
func (r *Repository) Delete(ctx context.Context, accountID, entryID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", entryID, accountID).
		Delete(&models.WishlistEntry{})
	return res.RowsAffected, res.Error
}
