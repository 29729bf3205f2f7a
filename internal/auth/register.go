package auth

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/security"
)

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Account, error) {
	if err := requireFilled(msgFillAllFields, input.Name, input.Email, input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(input.Password, input.ConfirmPassword, minPasswordLen); err != nil {
		return nil, err
	}

	account := &models.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		ProfileImage: input.ProfileImage,
		IsActive:     true,
		IsAdmin:      false,
	}
	if err := s.createAccount(ctx, account, input.Password, nil); err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithAccountID(ctx, account.ID), "account.registered")
	return account, nil
}

// createAccount hashes the password and inserts the account inside one transaction.
// guard runs first inside the same transaction.
func (s *service) createAccount(ctx context.Context, account *models.Account, password string, guard func(tx *gorm.DB) error) error {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	account.PasswordHash = hash

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		repo := s.users.WithTx(tx)
		exists, err := repo.EmailExists(ctx, account.Email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, msgEmailTaken)
		}
		if err := repo.Create(ctx, account); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, msgEmailTaken)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
		}
		return nil
	})
}
