package cart

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Repository exposes cart line persistence. Every query is filtered by account.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
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

// Create inserts a cart line.
func (r *Repository) Create(ctx context.Context, line *models.CartLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// Exists reports whether the account already has the product in its cart.
func (r *Repository) Exists(ctx context.Context, accountID, productID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("account_id = ? AND product_id = ?", accountID, productID).
		Count(&count).Error
	return count > 0, err
}

// ListByAccount returns the account's cart lines in insertion order.
func (r *Repository) ListByAccount(ctx context.Context, accountID uint) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ListForUpdate reads the account's cart lines, locking them on postgres so a concurrent
// checkout waits for this transaction.
func (r *Repository) ListForUpdate(ctx context.Context, accountID uint) ([]models.CartLine, error) {
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID).Order("id ASC")
	if db.IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var lines []models.CartLine
	if err := query.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// Count returns the number of lines in the account's cart.
func (r *Repository) Count(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CartLine{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// UpdateQuantity sets the quantity of an owned line and returns the rows touched.
func (r *Repository) UpdateQuantity(ctx context.Context, accountID, lineID uint, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND account_id = ?", lineID, accountID).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

// DeleteLine removes an owned line and returns the rows touched.
func (r *Repository) DeleteLine(ctx context.Context, accountID, lineID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", lineID, accountID).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}

// DeleteLines removes the given owned lines and returns the rows touched.
func (r *Repository) DeleteLines(ctx context.Context, accountID uint, lineIDs []uint) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, lineIDs).
		Delete(&models.CartLine{})
	return res.RowsAffected, res.Error
}
