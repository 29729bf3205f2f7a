package address

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

const (
	msgFillRequired = "Please fill all required fields."
	msgInvalidType  = "Please choose a valid address type."
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the address form. Line2 and Landmark are optional; a blank Type means home.
type Input struct {
	Name       string
	Phone      string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Landmark   string
	Type       string
	IsDefault  bool
}

type Service interface {
	Add(ctx context.Context, accountID uint, input Input) (*models.Address, error)
	Remove(ctx context.Context, accountID, addressID uint) (bool, error)
	List(ctx context.Context, accountID uint) ([]models.Address, error)
	Count(ctx context.Context, accountID uint) (int64, error)
}

type service struct {
	db   txRunner
	repo *Repository
}

func NewService(db txRunner, repo *Repository) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	return &service{db: db, repo: repo}, nil
}

// Add stores a new address. A default address clears the flag on every sibling in the same
// transaction, so the account never ends up with two defaults.
func (s *service) Add(ctx context.Context, accountID uint, input Input) (*models.Address, error) {
	address, err := buildAddress(accountID, input)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if address.IsDefault {
			if err := repo.LockAccount(ctx, accountID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock account")
			}
			if err := repo.ClearDefault(ctx, accountID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default address")
			}
		}
		if err := repo.Create(ctx, address); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

// Remove deletes the address only when the account owns it.
func (s *service) Remove(ctx context.Context, accountID, addressID uint) (bool, error) {
	rows, err := s.repo.Delete(ctx, accountID, addressID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	return rows > 0, nil
}

func (s *service) List(ctx context.Context, accountID uint) ([]models.Address, error) {
	addresses, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	return addresses, nil
}

func (s *service) Count(ctx context.Context, accountID uint) (int64, error) {
	count, err := s.repo.Count(ctx, accountID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count addresses")
	}
	return count, nil
}

func buildAddress(accountID uint, input Input) (*models.Address, error) {
	required := []string{input.Name, input.Phone, input.Line1, input.City, input.State, input.PostalCode}
	for _, value := range required {
		if strings.TrimSpace(value) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, msgFillRequired)
		}
	}
	addressType, err := enums.ParseAddressType(input.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgInvalidType)
	}
	return &models.Address{
		AccountID:   accountID,
		Name:        strings.TrimSpace(input.Name),
		Phone:       strings.TrimSpace(input.Phone),
		Line1:       strings.TrimSpace(input.Line1),
		Line2:       strings.TrimSpace(input.Line2),
		City:        strings.TrimSpace(input.City),
		State:       strings.TrimSpace(input.State),
		PostalCode:  strings.TrimSpace(input.PostalCode),
		Landmark:    strings.TrimSpace(input.Landmark),
		AddressType: addressType,
		IsDefault:   input.IsDefault,
	}, nil
}
