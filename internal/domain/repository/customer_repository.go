package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer directory operations
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// Search performs the quick lookup by name/email/phone.
	Search(ctx context.Context, companyID uuid.UUID, query string, limit int) ([]entity.Customer, error)
}
