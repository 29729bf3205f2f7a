package wishlist

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	msgItemNotFound      = "Item not found!"
	msgAlreadyInWishlist = "Item already in wishlist!"
)

type productLoader interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

// Entry is a wishlist row joined with its product. Product is nil once the product is deleted.
type Entry struct {
	ID        uint
	ProductID uint
	Product   *models.Product
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Repo     *Repository
	Products productLoader
}

// Service exposes business rules for wishlist management.
type Service interface {
	AddItem(ctx context.Context, accountID, productID uint) error
	RemoveItem(ctx context.Context, accountID, entryID uint) (bool, error)
	ListItems(ctx context.Context, accountID uint) ([]Entry, error)
	Count(ctx context.Context, accountID uint) (int64, error)
	Contains(ctx context.Context, accountID, productID uint) (bool, error)
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// AddItem ensures the product exists and saves it once.
func (s *service) AddItem(ctx context.Context, accountID, productID uint) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgItemNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	exists, err := s.repo.Contains(ctx, accountID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyInWishlist)
	}

	if err := s.repo.Create(ctx, &models.WishlistEntry{AccountID: accountID, ProductID: productID}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.New(pkgerrors.CodeConflict, msgAlreadyInWishlist)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	return nil
}

// RemoveItem deletes the entry when the account owns it. Foreign entries are a silent no-op.
func (s *service) RemoveItem(ctx context.Context, accountID, entryID uint) (bool, error) {
	rows, err := s.repo.Delete(ctx, accountID, entryID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	return rows > 0, nil
}

func (s *service) ListItems(ctx context.Context, accountID uint) ([]Entry, error) {
	rows, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist products")
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{ID: row.ID, ProductID: row.ProductID}
		if product, ok := products[row.ProductID]; ok {
			entry.Product = &product
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *service) Count(ctx context.Context, accountID uint) (int64, error) {
	count, err := s.repo.Count(ctx, accountID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count wishlist")
	}
	return count, nil
}

func (s *service) Contains(ctx context.Context, accountID, productID uint) (bool, error) {
	ok, err := s.repo.Contains(ctx, accountID, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist")
	}
	return ok, nil
}
