package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

// ProductRepository defines the interface for product catalog operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// GetByScanCode resolves an exact barcode or reference-code match
	// within a company; nil when nothing matches.
	GetByScanCode(ctx context.Context, companyID uuid.UUID, code string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// Search performs the POS quick lookup: name/barcode/reference
	// ILIKE, optionally narrowed to a category, active sellable
	// products only.
	Search(ctx context.Context, companyID uuid.UUID, params *ProductSearchParams) ([]entity.Product, error)
	// AtomicDecrementBatch atomically decrements stock for multiple products.
	// Returns product IDs that failed (insufficient stock); if any
	// fail, the whole transaction is rolled back.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) (failedIDs []uuid.UUID, err error)
	// AtomicIncrementBatch atomically increments stock for multiple products (for refunds).
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductSearchParams contains filtering parameters for the quick lookup
type ProductSearchParams struct {
	Search     string
	CategoryID *uuid.UUID
	Limit      int
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	List(ctx context.Context, companyID uuid.UUID) ([]entity.Category, error)
}
