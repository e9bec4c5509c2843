package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new GORM-based product repository
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

func (r *productRepository) GetByScanCode(ctx context.Context, companyID uuid.UUID, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_active = true AND (barcode = ? OR reference = ?)", companyID, code, code).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by scan code: %w", err)
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

func (r *productRepository) Search(ctx context.Context, companyID uuid.UUID, params *repository.ProductSearchParams) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("company_id = ? AND is_active = true", companyID)

	if params != nil {
		if params.Search != "" {
			term := "%" + params.Search + "%"
			query = query.Where("name ILIKE ? OR barcode ILIKE ? OR reference ILIKE ?", term, term, term)
		}
		if params.CategoryID != nil {
			query = query.Where("category_id = ?", *params.CategoryID)
		}
	}

	limit := 50
	if params != nil && params.Limit > 0 {
		limit = params.Limit
	}

	var products []entity.Product
	if err := query.Order("name ASC").Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, qty := range decrements {
			if qty <= 0 {
				continue
			}
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND track_inventory = true AND on_hand >= ?", productID, qty).
				Update("on_hand", gorm.Expr("on_hand - ?", qty))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", productID, result.Error)
			}
			if result.RowsAffected == 0 {
				// Either untracked (no decrement needed) or insufficient stock.
				var product entity.Product
				if err := tx.Select("track_inventory").First(&product, "id = ?", productID).Error; err != nil {
					return fmt.Errorf("failed to check product %s: %w", productID, err)
				}
				if product.TrackInventory {
					failedIDs = append(failedIDs, productID)
				}
			}
		}
		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}
		return nil
	})

	if len(failedIDs) > 0 {
		return failedIDs, nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (r *productRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for productID, qty := range increments {
			if qty <= 0 {
				continue
			}
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND track_inventory = true", productID).
				Update("on_hand", gorm.Expr("on_hand + ?", qty))
			if result.Error != nil {
				return fmt.Errorf("failed to increment stock for %s: %w", productID, result.Error)
			}
		}
		return nil
	})
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new GORM-based category repository
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, companyID uuid.UUID) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
