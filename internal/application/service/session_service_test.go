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
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

func hashPIN(t *testing.T, pin string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestVerifyPIN(t *testing.T) {
	companyID := uuid.New()
	cashiers := new(mockCashierRepo)
	svc := NewSessionService(new(mockSessionRepo), cashiers, new(mockDeviceRepo), companyID, zap.NewNop())

	roster := []entity.Cashier{
		{ID: uuid.New(), Name: "Tendai M", Role: enum.CashierRoleSupervisor, PINHash: hashPIN(t, "1234")},
		{ID: uuid.New(), Name: "Rudo C", Role: enum.CashierRoleCashier, PINHash: hashPIN(t, "5678")},
	}
	cashiers.On("ListActive", mock.Anything, companyID).Return(roster, nil)

	t.Run("matching PIN returns the identity without the hash", func(t *testing.T) {
		identity, err := svc.VerifyPIN(context.Background(), "5678")
		require.NoError(t, err)
		assert.Equal(t, roster[1].ID, identity.ID)
		assert.Equal(t, "Rudo C", identity.Name)
		assert.Equal(t, enum.CashierRoleCashier, identity.Role)
	})

	t.Run("wrong PIN is rejected", func(t *testing.T) {
		_, err := svc.VerifyPIN(context.Background(), "0000")
		assert.Equal(t, apperror.ErrInvalidPIN, err)
	})

	t.Run("empty PIN is rejected without touching the roster", func(t *testing.T) {
		_, err := svc.VerifyPIN(context.Background(), "")
		assert.Equal(t, apperror.ErrInvalidPIN, err)
	})
}

func TestOpenSessionRejectsSecondOpen(t *testing.T) {
	companyID := uuid.New()
	sessions := new(mockSessionRepo)
	svc := NewSessionService(sessions, new(mockCashierRepo), new(mockDeviceRepo), companyID, zap.NewNop())

	open := &entity.Session{Name: "POS-20260831-0001", Status: enum.SessionStatusOpen}
	sessions.On("GetOpenByCompany", mock.Anything, companyID).Return(open, nil)

	_, err := svc.Open(context.Background(), &OpenSessionInput{
		OpenedByID:     uuid.New(),
		OpeningBalance: 10000,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestOpenSessionNamesFollowDailySequence(t *testing.T) {
	companyID := uuid.New()
	sessions := new(mockSessionRepo)
	svc := NewSessionService(sessions, new(mockCashierRepo), new(mockDeviceRepo), companyID, zap.NewNop())

	sessions.On("GetOpenByCompany", mock.Anything, companyID).Return(nil, nil)
	sessions.On("CountByNamePrefix", mock.Anything, mock.Anything).Return(int64(2), nil)
	sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

	session, err := svc.Open(context.Background(), &OpenSessionInput{
		OpenedByID:     uuid.New(),
		OpeningBalance: 10000,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^POS-\d{8}-0003$`, session.Name)
	assert.Equal(t, int64(10000), session.OpeningBalance)
	assert.True(t, session.IsOpen())
}

func TestOpenSessionRetriesNameCollision(t *testing.T) {
	companyID := uuid.New()
	sessions := new(mockSessionRepo)
	svc := NewSessionService(sessions, new(mockCashierRepo), new(mockDeviceRepo), companyID, zap.NewNop())

	sessions.On("GetOpenByCompany", mock.Anything, companyID).Return(nil, nil)

	// Another terminal takes POS-...-0003 between our count and insert;
	// the retry recounts and opens as 0004.
	sessions.On("CountByNamePrefix", mock.Anything, mock.Anything).Return(int64(2), nil).Once()
	sessions.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateReference).Once()
	sessions.On("CountByNamePrefix", mock.Anything, mock.Anything).Return(int64(3), nil).Once()
	sessions.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	session, err := svc.Open(context.Background(), &OpenSessionInput{
		OpenedByID:     uuid.New(),
		OpeningBalance: 10000,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^POS-\d{8}-0004$`, session.Name)
}

func TestCloseSessionReportsDrawerDifference(t *testing.T) {
	companyID := uuid.New()
	sessions := new(mockSessionRepo)
	svc := NewSessionService(sessions, new(mockCashierRepo), new(mockDeviceRepo), companyID, zap.NewNop())

	// Opened with $100.00, took $250.00 cash, refunded $30.00.
	id := uuid.New()
	session := &entity.Session{
		ID:             id,
		Status:         enum.SessionStatusOpen,
		OpeningBalance: 10000,
		TotalCash:      25000,
		TotalReturns:   3000,
	}
	sessions.On("GetByID", mock.Anything, id).Return(session, nil)
	sessions.On("Update", mock.Anything, session).Return(nil)

	// Counted $315.00 against an expected $320.00.
	result, err := svc.Close(context.Background(), id, &CloseSessionInput{
		ClosedByID:     uuid.New(),
		ClosingBalance: 31500,
	})
	require.NoError(t, err)
	assert.Equal(t, 320.0, result.ExpectedCash)
	assert.Equal(t, -5.0, result.Difference)
	assert.Equal(t, enum.SessionStatusClosed, result.Session.Status)
	require.NotNil(t, result.Session.ClosedAt)
}

func TestCloseSessionIsTerminal(t *testing.T) {
	companyID := uuid.New()
	sessions := new(mockSessionRepo)
	svc := NewSessionService(sessions, new(mockCashierRepo), new(mockDeviceRepo), companyID, zap.NewNop())

	id := uuid.New()
	closed := &entity.Session{ID: id, Status: enum.SessionStatusClosed}
	sessions.On("GetByID", mock.Anything, id).Return(closed, nil)

	_, err := svc.Close(context.Background(), id, &CloseSessionInput{ClosedByID: uuid.New()})
	assert.Equal(t, apperror.ErrSessionClosed, err)
}
