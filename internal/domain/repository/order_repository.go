package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/pkg/pagination"
)

// ErrDuplicateReference reports that a generated daily reference (order
// reference or session name) lost the race to a concurrent insert and
// hit the unique index. Callers regenerate the reference and retry.
var ErrDuplicateReference = errors.New("reference already taken")

// OrderRepository defines the interface for POS order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByReference(ctx context.Context, reference string) (*entity.Order, error)
	// GetWithLines loads the order together with its line snapshot.
	GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	// UpdateFiscalResult persists only the mutable fiscal fields of an
	// order; amounts and lines are never written after creation.
	UpdateFiscalResult(ctx context.Context, id uuid.UUID, result *FiscalResultUpdate) error
	List(ctx context.Context, companyID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
	// CountByReferencePrefix counts orders whose reference starts with
	// the given prefix; used for the POS-ORD-YYYYMMDD-NNNN sequence.
	CountByReferencePrefix(ctx context.Context, prefix string) (int64, error)
}

// FiscalResultUpdate carries the only order fields that may change
// after submission.
type FiscalResultUpdate struct {
	FiscalStatus     enum.FiscalStatus
	FiscalError      string
	FiscalReceiptID  string
	VerificationCode string
	VerificationURL  string
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	SessionID  *uuid.UUID
	Status     *enum.OrderStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// OrderLineRepository defines the interface for order line data operations
type OrderLineRepository interface {
	CreateBatch(ctx context.Context, lines []entity.OrderLine) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderLine, error)
}
