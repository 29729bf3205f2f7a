package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/money"
)

const (
	msgItemNotFound  = "Item not found!"
	msgAlreadyInCart = "Item already in cart!"
)

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

// Service exposes per-account cart operations.
type Service interface {
	AddItem(ctx context.Context, accountID, productID uint) error
	SetQuantity(ctx context.Context, accountID, lineID uint, quantity int) (Outcome, error)
	RemoveItem(ctx context.Context, accountID, lineID uint) (bool, error)
	ListItems(ctx context.Context, accountID uint) ([]Line, error)
	Count(ctx context.Context, accountID uint) (int64, error)
	Total(ctx context.Context, accountID uint) (decimal.Decimal, error)
	Summary(ctx context.Context, accountID uint) (*Summary, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds a cart service backed by the provided repositories.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddItem puts one unit of the product in the cart. A product already in the cart is a Conflict.
func (s *service) AddItem(ctx context.Context, accountID, productID uint) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.repo.Exists(ctx, accountID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check cart")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyInCart)
	}

	line := &models.CartLine{AccountID: accountID, ProductID: productID, Quantity: 1}
	if err := s.repo.Create(ctx, line); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyInCart)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
	}
	return nil
}

// SetQuantity updates an owned line; a quantity <= 0 removes it. Lines owned by another
// account are left untouched and reported as OutcomeNone.
func (s *service) SetQuantity(ctx context.Context, accountID, lineID uint, quantity int) (Outcome, error) {
	if quantity <= 0 {
		removed, err := s.RemoveItem(ctx, accountID, lineID)
		if err != nil || !removed {
			return OutcomeNone, err
		}
		return OutcomeRemoved, nil
	}
	rows, err := s.repo.UpdateQuantity(ctx, accountID, lineID, quantity)
	if err != nil {
		return OutcomeNone, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart line")
	}
	if rows == 0 {
		return OutcomeNone, nil
	}
	return OutcomeUpdated, nil
}

func (s *service) RemoveItem(ctx context.Context, accountID, lineID uint) (bool, error) {
	rows, err := s.repo.DeleteLine(ctx, accountID, lineID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return rows > 0, nil
}

func (s *service) ListItems(ctx context.Context, accountID uint) ([]Line, error) {
	rows, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list cart")
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		line := Line{ID: row.ID, ProductID: row.ProductID, Quantity: row.Quantity}
		if product, ok := products[row.ProductID]; ok {
			line.Product = &product
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *service) Count(ctx context.Context, accountID uint) (int64, error) {
	count, err := s.repo.Count(ctx, accountID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count cart")
	}
	return count, nil
}

func (s *service) Total(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	summary, err := s.Summary(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return summary.Total, nil
}

// Summary prices every line. An unparsable price or a deleted product fails the whole
// computation with DataIntegrity.
func (s *service) Summary(ctx context.Context, accountID uint) (*Summary, error) {
	lines, err := s.ListItems(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return PriceLines(lines)
}

// PriceLines parses each product price and sums price times quantity.
func PriceLines(lines []Line) (*Summary, error) {
	summary := &Summary{Lines: make([]PricedLine, 0, len(lines)), Total: decimal.Zero}
	for _, line := range lines {
		if line.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeDataIntegrity, "cart references a missing product").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
		unit, err := money.ParsePrice(line.Product.Price)
		if err != nil {
			return nil, err
		}
		total := money.LineTotal(unit, line.Quantity)
		summary.Lines = append(summary.Lines, PricedLine{Line: line, UnitPrice: unit, LineTotal: total})
		summary.Total = summary.Total.Add(total)
	}
	return summary, nil
}
