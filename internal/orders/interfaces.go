package orders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Repository defines persistence operations for the order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderLines(ctx context.Context, lines []models.OrderLine) error
	ListByAccount(ctx context.Context, accountID uint) ([]models.Order, error)
	FindOwned(ctx context.Context, accountID, orderID uint) (*models.Order, error)
	FindLines(ctx context.Context, orderID uint) ([]models.OrderLine, error)
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
}
