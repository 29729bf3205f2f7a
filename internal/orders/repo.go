package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repository) CreateOrderLines(ctx context.Context, lines []models.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// ListByAccount returns newest orders first. Orders created within the same timestamp
// fall back to id order so the listing is stable.
func (r *repository) ListByAccount(ctx context.Context, accountID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) FindOwned(ctx context.Context, accountID, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ? AND account_id = ?", orderID, accountID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindLines(ctx context.Context, orderID uint) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Where("account_id = ?", accountID).Count(&count).Error
	return count, err
}
