package catalog

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
)

// Repository exposes product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
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

// ListBySection returns up to limit products of a section in id order. limit <= 0 means all.
func (r *Repository) ListBySection(ctx context.Context, section enums.Section, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Where("section = ?", section).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountBySection counts the products listed under a section.
func (r *Repository) CountBySection(ctx context.Context, section enums.Section) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("section = ?", section).Count(&count).Error
	return count, err
}

// Count returns the number of products in the catalog.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

// Search matches the term case-insensitively against title or description.
func (r *Repository) Search(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// ListAll returns the catalog in id order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads a product by id.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products with the given ids keyed by id. Missing ids are simply absent.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	result := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

// FindByTitle loads the first product carrying the exact title.
func (r *Repository) FindByTitle(ctx context.Context, title string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("title = ?", title).Order("id ASC").First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListSimilar returns other products from the same section.
func (r *Repository) ListSimilar(ctx context.Context, section enums.Section, excludeID uint, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("section = ? AND id <> ?", section, excludeID).
		Order("id ASC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts a product.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// CreateBatch inserts several products in one statement.
func (r *Repository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

// Save persists every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete hard-deletes a product and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
