package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/storefront/pkg/db/models"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
)

// Service exposes catalog browsing and admin product management.
type Service interface {
	Home(ctx context.Context) ([]HomeSection, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Collection(ctx context.Context, filter string) (Listing, error)
	ProductByTitle(ctx context.Context, title string) (*ProductDetail, error)
	ProductByID(ctx context.Context, id uint) (*models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, input ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	Seed(ctx context.Context) (int, error)
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Home(ctx context.Context) ([]HomeSection, error) {
	sections := make([]HomeSection, 0, len(enums.Sections))
	for _, section := range enums.Sections {
		products, err := s.repo.ListBySection(ctx, section, homeSectionLimit)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list section products")
		}
		total, err := s.repo.CountBySection(ctx, section)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count section products")
		}
		sections = append(sections, HomeSection{Section: section, Products: products, Total: total})
	}
	return sections, nil
}

func (s *service) Search(ctx context.Context, query string) ([]models.Product, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []models.Product{}, nil
	}
	products, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}
	return products, nil
}

func (s *service) Collection(ctx context.Context, filter string) (Listing, error) {
	section, ok := enums.SectionForFilter(strings.ToLower(strings.TrimSpace(filter)))
	var (
		products []models.Product
		err      error
		title    = allProductsTitle
	)
	if ok {
		title = section.String()
		products, err = s.repo.ListBySection(ctx, section, 0)
	} else {
		products, err = s.repo.ListAll(ctx)
	}
	if err != nil {
		return Listing{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list collection")
	}
	return Listing{Title: title, Products: products}, nil
}

func (s *service) ProductByTitle(ctx context.Context, title string) (*ProductDetail, error) {
	product, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	similar, err := s.repo.ListSimilar(ctx, product.Section, product.ID, similarLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list similar products")
	}
	return &ProductDetail{Product: *product, Similar: similar}, nil
}

func (s *service) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	return product, nil
}

func (s *service) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	section, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Image) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product image is required")
	}
	product := &models.Product{
		Title:       strings.TrimSpace(input.Title),
		Price:       strings.TrimSpace(input.Price),
		Image:       input.Image,
		Section:     section,
		Description: strings.TrimSpace(input.Description),
		InStock:     input.InStock == nil || *input.InStock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID), "product.created")
	return product, nil
}

func (s *service) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	section, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	product.Title = strings.TrimSpace(input.Title)
	product.Price = strings.TrimSpace(input.Price)
	product.Section = section
	product.Description = strings.TrimSpace(input.Description)
	if strings.TrimSpace(input.Image) != "" {
		product.Image = input.Image
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID), "product.updated")
	return product, nil
}

// Delete removes the product outright. Cart lines, wishlist entries and order lines that
// reference it are left in place; order lines keep their captured title and price.
func (s *service) Delete(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id), "product.deleted")
	return nil
}

func (s *service) Seed(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if count > 0 {
		return 0, nil
	}
	products := sampleProducts()
	if err := s.repo.CreateBatch(ctx, products); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed products")
	}
	s.logg.Info(s.logg.WithField(ctx, "products", len(products)), "catalog.seeded")
	return len(products), nil
}

// validateInput checks presence only. Price text is parsed where money is computed.
func validateInput(input ProductInput) (enums.Section, error) {
	fields := []struct{ name, value string }{
		{"title", input.Title},
		{"price", input.Price},
		{"section", input.Section},
		{"description", input.Description},
	}
	missing := []string{}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "Please fill all required fields.").
			WithDetails(map[string]any{"missing": missing})
	}
	section, err := enums.ParseSection(strings.TrimSpace(input.Section))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid section")
	}
	return section, nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
