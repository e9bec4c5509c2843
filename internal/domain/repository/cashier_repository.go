package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

// CashierRepository defines the interface for POS employee data operations
type CashierRepository interface {
	Create(ctx context.Context, cashier *entity.Cashier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashier, error)
	Update(ctx context.Context, cashier *entity.Cashier) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the company roster ordered by sort order then name.
	List(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]entity.Cashier, error)
	// ListActive returns active cashiers only; PIN verification walks
	// this list comparing bcrypt hashes.
	ListActive(ctx context.Context, companyID uuid.UUID) ([]entity.Cashier, error)
}
