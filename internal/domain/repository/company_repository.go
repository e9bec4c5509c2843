package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

// CompanyRepository defines the interface for company profile operations
type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error)
}

// DeviceRepository defines the interface for fiscal device listings
type DeviceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Device, error)
	List(ctx context.Context, companyID uuid.UUID) ([]entity.Device, error)
}
