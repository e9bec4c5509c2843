package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

// CashierService manages the terminal's employee roster. PINs are
// hashed on the way in and never readable again.
type CashierService struct {
	cashiers  repository.CashierRepository
	companyID uuid.UUID
	logger    *zap.Logger
}

// NewCashierService creates a new cashier service
func NewCashierService(cashiers repository.CashierRepository, companyID uuid.UUID, logger *zap.Logger) *CashierService {
	return &CashierService{cashiers: cashiers, companyID: companyID, logger: logger}
}

// CreateCashierInput carries the fields for enrolling a cashier.
type CreateCashierInput struct {
	Name      string
	Role      enum.CashierRole
	PIN       string
	SortOrder int
}

// Create enrolls a new cashier with a hashed PIN.
func (s *CashierService) Create(ctx context.Context, input *CreateCashierInput) (*entity.Cashier, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if len(input.PIN) < 4 {
		return nil, apperror.NewBadRequestError("PIN must be at least 4 digits")
	}
	role := input.Role
	if role == "" {
		role = enum.CashierRoleCashier
	}
	if !role.Valid() {
		return nil, apperror.NewBadRequestError("Unknown role")
	}

	if err := s.ensurePINAvailable(ctx, input.PIN, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cashier := &entity.Cashier{
		CompanyID: s.companyID,
		Name:      input.Name,
		Role:      role,
		PINHash:   string(hash),
		IsActive:  true,
		SortOrder: input.SortOrder,
	}
	if err := s.cashiers.Create(ctx, cashier); err != nil {
		return nil, err
	}

	s.logger.Info("cashier enrolled", zap.String("name", cashier.Name), zap.String("role", string(cashier.Role)))
	return cashier, nil
}

// UpdateCashierInput carries optional roster edits. Nil fields are
// left unchanged; a non-empty PIN is re-hashed.
type UpdateCashierInput struct {
	Name      *string
	Role      *enum.CashierRole
	PIN       *string
	IsActive  *bool
	SortOrder *int
}

// Update edits a cashier.
func (s *CashierService) Update(ctx context.Context, id uuid.UUID, input *UpdateCashierInput) (*entity.Cashier, error) {
	cashier, err := s.cashiers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cashier == nil {
		return nil, apperror.NewNotFoundError("Cashier")
	}

	if input.Name != nil {
		cashier.Name = *input.Name
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperror.NewBadRequestError("Unknown role")
		}
		cashier.Role = *input.Role
	}
	if input.PIN != nil {
		if len(*input.PIN) < 4 {
			return nil, apperror.NewBadRequestError("PIN must be at least 4 digits")
		}
		if err := s.ensurePINAvailable(ctx, *input.PIN, cashier.ID); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.PIN), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		cashier.PINHash = string(hash)
	}
	if input.IsActive != nil {
		cashier.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		cashier.SortOrder = *input.SortOrder
	}

	if err := s.cashiers.Update(ctx, cashier); err != nil {
		return nil, err
	}
	return cashier, nil
}

// ensurePINAvailable rejects a PIN already held by another active
// cashier. VerifyPIN resolves identity by PIN alone, so two cashiers
// sharing one would be indistinguishable at the till.
func (s *CashierService) ensurePINAvailable(ctx context.Context, pin string, excludeID uuid.UUID) error {
	roster, err := s.cashiers.ListActive(ctx, s.companyID)
	if err != nil {
		return err
	}
	for i := range roster {
		if roster[i].ID == excludeID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(roster[i].PINHash), []byte(pin)) == nil {
			return apperror.NewBadRequestError("PIN is already in use")
		}
	}
	return nil
}

// Delete removes a cashier from the roster.
func (s *CashierService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.cashiers.Delete(ctx, id)
}

// List returns the roster.
func (s *CashierService) List(ctx context.Context, includeInactive bool) ([]entity.Cashier, error) {
	return s.cashiers.List(ctx, s.companyID, includeInactive)
}
