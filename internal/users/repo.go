package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
)

// Repository exposes account persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an accounts repo bound to the provided GORM DB.
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

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByEmail retrieves the account matching the normalized email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindActiveByEmail retrieves an active account by email.
func (r *Repository) FindActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ? AND is_active = ?", email, true).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByID loads an account by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// EmailExists reports whether any account uses the email.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// AdminExists reports whether at least one administrator account exists.
func (r *Repository) AdminExists(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).Where("is_admin = ?", true).Count(&count).Error
	return count > 0, err
}

// UpdateProfile overwrites the name and profile image columns.
func (r *Repository) UpdateProfile(ctx context.Context, id uint, name, profileImage string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "profile_image": profileImage}).Error
}

// UpdatePasswordHash replaces the stored hash, used when hashing parameters change.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}
