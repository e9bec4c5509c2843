package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

// CatalogService serves the product grid, category rail, company
// profile and fiscal device list shown on the POS screen.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	companies  repository.CompanyRepository
	devices    repository.DeviceRepository
	companyID  uuid.UUID
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	companies repository.CompanyRepository,
	devices repository.DeviceRepository,
	companyID uuid.UUID,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		companies:  companies,
		devices:    devices,
		companyID:  companyID,
		logger:     logger,
	}
}

// SearchProducts performs the quick lookup over name, barcode and
// reference code, optionally narrowed to a category.
func (s *CatalogService) SearchProducts(ctx context.Context, search string, categoryID *uuid.UUID, limit int) ([]entity.Product, error) {
	return s.products.Search(ctx, s.companyID, &repository.ProductSearchParams{
		Search:     search,
		CategoryID: categoryID,
		Limit:      limit,
	})
}

// GetProduct returns one catalog item.
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListCategories returns the category filter rail.
func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categories.List(ctx, s.companyID)
}

// Company returns the merchant profile for receipts and the display.
func (s *CatalogService) Company(ctx context.Context) (*entity.Company, error) {
	company, err := s.companies.GetByID(ctx, s.companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, apperror.NewNotFoundError("Company")
	}
	return company, nil
}

// ListDevices returns the registered fiscal devices a session can bind to.
func (s *CatalogService) ListDevices(ctx context.Context) ([]entity.Device, error) {
	return s.devices.List(ctx, s.companyID)
}
