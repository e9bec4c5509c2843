package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

func TestCreateCashierHashesPIN(t *testing.T) {
	companyID := uuid.New()
	cashiers := new(mockCashierRepo)
	svc := NewCashierService(cashiers, companyID, zap.NewNop())

	cashiers.On("ListActive", mock.Anything, companyID).Return([]entity.Cashier{}, nil)
	cashiers.On("Create", mock.Anything, mock.Anything).Return(nil)

	cashier, err := svc.Create(context.Background(), &CreateCashierInput{
		Name: "Tendai M",
		PIN:  "1234",
	})
	require.NoError(t, err)

	assert.Equal(t, enum.CashierRoleCashier, cashier.Role, "role defaults to cashier")
	assert.NotEqual(t, "1234", cashier.PINHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cashier.PINHash), []byte("1234")))
}

func TestCreateCashierRejectsShortPIN(t *testing.T) {
	svc := NewCashierService(new(mockCashierRepo), uuid.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), &CreateCashierInput{Name: "Rudo C", PIN: "12"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateCashierRejectsDuplicatePIN(t *testing.T) {
	companyID := uuid.New()
	cashiers := new(mockCashierRepo)
	svc := NewCashierService(cashiers, companyID, zap.NewNop())

	cashiers.On("ListActive", mock.Anything, companyID).Return([]entity.Cashier{
		{ID: uuid.New(), Name: "Tendai M", PINHash: hashPIN(t, "1234")},
	}, nil)

	_, err := svc.Create(context.Background(), &CreateCashierInput{Name: "Rudo C", PIN: "1234"})
	require.Error(t, err)
	assert.Equal(t, "PIN is already in use", apperror.GetAppError(err).Message)
	cashiers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateCashierKeepsOwnPIN(t *testing.T) {
	companyID := uuid.New()
	cashiers := new(mockCashierRepo)
	svc := NewCashierService(cashiers, companyID, zap.NewNop())

	existing := &entity.Cashier{
		ID:      uuid.New(),
		Name:    "Tendai M",
		Role:    enum.CashierRoleSupervisor,
		PINHash: hashPIN(t, "1234"),
	}
	cashiers.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	cashiers.On("ListActive", mock.Anything, companyID).Return([]entity.Cashier{*existing}, nil)
	cashiers.On("Update", mock.Anything, mock.Anything).Return(nil)

	// Re-submitting one's own PIN is not a collision.
	pin := "1234"
	updated, err := svc.Update(context.Background(), existing.ID, &UpdateCashierInput{PIN: &pin})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PINHash), []byte("1234")))
}
