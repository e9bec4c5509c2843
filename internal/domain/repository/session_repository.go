package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/pkg/pagination"
)

// SessionRepository defines the interface for cash-drawer session data operations
type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error)
	// GetOpenByCompany returns the company's open session, or nil when
	// no drawer is open on any terminal.
	GetOpenByCompany(ctx context.Context, companyID uuid.UUID) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	List(ctx context.Context, companyID uuid.UUID, params *SessionFilterParams) ([]entity.Session, int64, error)
	// CountByNamePrefix counts sessions whose name starts with the
	// given prefix; used for the POS-YYYYMMDD-NNNN sequence.
	CountByNamePrefix(ctx context.Context, prefix string) (int64, error)
}

// SessionFilterParams contains filtering parameters for session queries
type SessionFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.SessionStatus
}
