package address

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Repository persists address book rows. Every query is filtered by account.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an address repository bound to the provided DB.
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

// LockAccount serializes address writes for one account on postgres. It is a no-op on sqlite,
// where the single connection already serializes transactions.
func (r *Repository) LockAccount(ctx context.Context, accountID uint) error {
	if !db.IsPostgres(r.db) {
		return nil
	}
	var account models.Account
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&account, "id = ?", accountID).Error
}

// ClearDefault unsets the default flag on every address of the account.
func (r *Repository) ClearDefault(ctx context.Context, accountID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Address{}).
		Where("account_id = ? AND is_default = ?", accountID, true).
		Update("is_default", false).Error
}

// Create inserts an address.
func (r *Repository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// FindOwned loads an address only when the account owns it.
func (r *Repository) FindOwned(ctx context.Context, accountID, addressID uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ? AND account_id = ?", addressID, accountID).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByAccount returns the default address first, then the rest by id.
func (r *Repository) ListByAccount(ctx context.Context, accountID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("is_default DESC").
		Order("id ASC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// Count returns the number of addresses the account holds.
func (r *Repository) Count(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Address{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}

// Delete removes an owned address and returns the rows touched.
func (r *Repository) Delete(ctx context.Context, accountID, addressID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND account_id = ?", addressID, accountID).
		Delete(&models.Address{})
	return res.RowsAffected, res.Error
}
