package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const msgEmptyCart = "Your cart is empty!"

type cartSummarizer interface {
	Summary(ctx context.Context, accountID uint) (*cart.Summary, error)
}

type addressLister interface {
	List(ctx context.Context, accountID uint) ([]models.Address, error)
}

// View is everything the checkout page renders.
type View struct {
	Lines     []cart.PricedLine
	Total     decimal.Decimal
	Addresses []models.Address
	// SelectedAddressID is the default address, or the first one when none is default.
	SelectedAddressID uint
}

// Service assembles the pre-order summary.
type Service interface {
	Summary(ctx context.Context, accountID uint) (*View, error)
}

type service struct {
	cart      cartSummarizer
	addresses addressLister
}

// NewService builds the checkout service.
func NewService(cartSvc cartSummarizer, addresses addressLister) (Service, error) {
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address service required")
	}
	return &service{cart: cartSvc, addresses: addresses}, nil
}

func (s *service) Summary(ctx context.Context, accountID uint) (*View, error) {
	summary, err := s.cart.Summary(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(summary.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, msgEmptyCart)
	}

	addresses, err := s.addresses.List(ctx, accountID)
	if err != nil {
		return nil, err
	}

	view := &View{Lines: summary.Lines, Total: summary.Total, Addresses: addresses}
	if len(addresses) > 0 {
		view.SelectedAddressID = addresses[0].ID
	}
	return view, nil
}
