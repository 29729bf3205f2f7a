package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// bootstrapLockKey serializes concurrent admin bootstraps on postgres.
const bootstrapLockKey = 7_341_002

// BootstrapAdmin creates the first administrator. It is refused once any admin exists and
// requires the configured setup secret.
func (s *service) BootstrapAdmin(ctx context.Context, input BootstrapInput) (*models.Account, error) {
	exists, err := s.AdminExists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, msgAdminExists)
	}
	if err := requireFilled(msgFillAllFields, input.Name, input.Email, input.Password, input.ConfirmPassword, input.SecretKey); err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(input.SecretKey), []byte(s.setupSecret)) != 1 {
		s.logg.Warn(ctx, "admin.bootstrap_rejected")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, msgInvalidSecret)
	}
	email := normalizeEmail(input.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateNewPassword(input.Password, input.ConfirmPassword, minAdminPasswordLen); err != nil {
		return nil, err
	}

	account := &models.Account{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		IsActive: true,
		IsAdmin:  true,
	}
	err = s.createAccount(ctx, account, input.Password, func(tx *gorm.DB) error {
		if db.IsPostgres(tx) {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", bootstrapLockKey).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock admin bootstrap")
			}
		}
		exists, err := s.users.WithTx(tx).AdminExists(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeForbidden, msgAdminExists)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithAccountID(ctx, account.ID), "admin.bootstrapped")
	return account, nil
}
