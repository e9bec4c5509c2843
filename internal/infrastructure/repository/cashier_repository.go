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

type cashierRepository struct {
	db *gorm.DB
}

// NewCashierRepository creates a new GORM-based cashier repository
func NewCashierRepository(db *gorm.DB) repository.CashierRepository {
	return &cashierRepository{db: db}
}

func (r *cashierRepository) Create(ctx context.Context, cashier *entity.Cashier) error {
	if err := r.db.WithContext(ctx).Create(cashier).Error; err != nil {
		return fmt.Errorf("failed to create cashier: %w", err)
	}
	return nil
}

func (r *cashierRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashier, error) {
	var cashier entity.Cashier
	err := r.db.WithContext(ctx).First(&cashier, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cashier: %w", err)
	}
	return &cashier, nil
}

func (r *cashierRepository) Update(ctx context.Context, cashier *entity.Cashier) error {
	if err := r.db.WithContext(ctx).Save(cashier).Error; err != nil {
		return fmt.Errorf("failed to update cashier: %w", err)
	}
	return nil
}

func (r *cashierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Cashier{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete cashier: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cashier not found: %s", id)
	}
	return nil
}

func (r *cashierRepository) List(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]entity.Cashier, error) {
	query := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if !includeInactive {
		query = query.Where("is_active = true")
	}

	var cashiers []entity.Cashier
	if err := query.Order("sort_order ASC, name ASC").Find(&cashiers).Error; err != nil {
		return nil, fmt.Errorf("failed to list cashiers: %w", err)
	}
	return cashiers, nil
}

func (r *cashierRepository) ListActive(ctx context.Context, companyID uuid.UUID) ([]entity.Cashier, error) {
	return r.List(ctx, companyID, false)
}
