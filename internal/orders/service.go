package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/internal/address"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service places orders from carts and reads order history.
type Service interface {
	CreateOrder(ctx context.Context, accountID, addressID uint) (uint, error)
	ListOrders(ctx context.Context, accountID uint) ([]models.Order, error)
	GetOrder(ctx context.Context, accountID, orderID uint) (*Detail, error)
	Count(ctx context.Context, accountID uint) (int64, error)
}

// ServiceParams groups the order engine dependencies.
type ServiceParams struct {
	DB        txRunner
	Orders    Repository
	Cart      *cart.Repository
	Addresses *address.Repository
	Products  *catalog.Repository
	Metrics   *metrics.OrderMetrics
	Logger    *logger.Logger
}

type service struct {
	db        txRunner
	orders    Repository
	cart      *cart.Repository
	addresses *address.Repository
	products  *catalog.Repository
	metrics   *metrics.OrderMetrics
	logg      *logger.Logger
}

// NewService builds the order engine.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:        params.DB,
		orders:    params.Orders,
		cart:      params.Cart,
		addresses: params.Addresses,
		products:  params.Products,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// CreateOrder turns the account's cart into a confirmed, paid order. The address check, the
// cart snapshot, the order and line inserts and the cart clear share one transaction; any
// failure leaves no order behind and the cart untouched.
func (s *service) CreateOrder(ctx context.Context, accountID, addressID uint) (uint, error) {
	order, lineCount, err := s.createOrder(ctx, accountID, addressID)
	if err != nil {
		code := ""
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		s.metrics.IncFailure(code)
		return 0, err
	}

	s.metrics.ObserveCreated(order.TotalAmount)
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID,
		"account_id": fmt.Sprint(accountID),
		"total":      order.TotalAmount.StringFixed(2),
		"lines":      lineCount,
	})
	s.logg.Info(logCtx, "order.created")
	return order.ID, nil
}

func (s *service) createOrder(ctx context.Context, accountID, addressID uint) (*models.Order, int, error) {
	if addressID == 0 {
		return nil, 0, pkgerrors.New(pkgerrors.CodeInvalidAddress, msgInvalidAddress)
	}

	var (
		order     *models.Order
		lineCount int
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.addresses.WithTx(tx).FindOwned(ctx, accountID, addressID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeInvalidAddress, msgInvalidAddress)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		cartRepo := s.cart.WithTx(tx)
		cartLines, err := cartRepo.ListForUpdate(ctx, accountID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart")
		}
		if len(cartLines) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, msgEmptyCart)
		}

		snapshot, total, err := s.snapshot(ctx, tx, cartLines)
		if err != nil {
			return err
		}

		ordersRepo := s.orders.WithTx(tx)
		order = &models.Order{
			AccountID:     accountID,
			AddressID:     addressID,
			TotalAmount:   total,
			Status:        enums.OrderStatusConfirmed,
			PaymentStatus: enums.PaymentStatusPaid,
		}
		if err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		lines := make([]models.OrderLine, 0, len(snapshot))
		cartLineIDs := make([]uint, 0, len(snapshot))
		for _, item := range snapshot {
			lines = append(lines, models.OrderLine{
				OrderID:   order.ID,
				ProductID: item.productID,
				Title:     item.title,
				Quantity:  item.quantity,
				Price:     item.unitPrice,
			})
			cartLineIDs = append(cartLineIDs, item.cartLineID)
		}
		if err := ordersRepo.CreateOrderLines(ctx, lines); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order lines")
		}

		deleted, err := cartRepo.DeleteLines(ctx, accountID, cartLineIDs)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		if deleted != int64(len(cartLineIDs)) {
			// Another placement consumed part of the snapshot first.
			return pkgerrors.New(pkgerrors.CodeEmptyCart, msgEmptyCart)
		}
		lineCount = len(lines)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return order, lineCount, nil
}

// snapshot prices every cart line against the current catalog with the same parsing the
// cart uses, so the order total matches what checkout showed.
func (s *service) snapshot(ctx context.Context, tx *gorm.DB, cartLines []models.CartLine) ([]snapshotLine, decimal.Decimal, error) {
	ids := make([]uint, 0, len(cartLines))
	for _, line := range cartLines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.products.WithTx(tx).FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	total := decimal.Zero
	snapshot := make([]snapshotLine, 0, len(cartLines))
	for _, line := range cartLines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeDataIntegrity, "cart references a missing product").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		unit, err := money.ParsePrice(product.Price)
		if err != nil {
			return nil, decimal.Zero, err
		}
		item := snapshotLine{
			cartLineID: line.ID,
			productID:  product.ID,
			title:      product.Title,
			quantity:   line.Quantity,
			unitPrice:  unit,
		}
		total = total.Add(item.total())
		snapshot = append(snapshot, item)
	}
	if err := money.CheckAmount(total); err != nil {
		return nil, decimal.Zero, err
	}
	return snapshot, total, nil
}

func (s *service) ListOrders(ctx context.Context, accountID uint) ([]models.Order, error) {
	orders, err := s.orders.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orders, nil
}

// GetOrder loads an order owned by the account. Foreign and unknown ids are both NotFound.
func (s *service) GetOrder(ctx context.Context, accountID, orderID uint) (*Detail, error) {
	order, err := s.orders.FindOwned(ctx, accountID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgOrderNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	lines, err := s.orders.FindLines(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order lines")
	}

	detail := &Detail{Order: *order, Lines: lines}
	addr, err := s.addresses.FindOwned(ctx, accountID, order.AddressID)
	switch {
	case err == nil:
		detail.Address = addr
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order address")
	}
	return detail, nil
}

func (s *service) Count(ctx context.Context, accountID uint) (int64, error) {
	count, err := s.orders.CountByAccount(ctx, accountID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return count, nil
}

