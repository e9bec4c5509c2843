package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
	"github.com/takudzwan/fiscalpos-api/pkg/pagination"
	"github.com/takudzwan/fiscalpos-api/pkg/utils"
)

// SessionService manages cash-drawer sessions and cashier PIN
// verification.
type SessionService struct {
	sessions  repository.SessionRepository
	cashiers  repository.CashierRepository
	devices   repository.DeviceRepository
	companyID uuid.UUID
	logger    *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions repository.SessionRepository,
	cashiers repository.CashierRepository,
	devices repository.DeviceRepository,
	companyID uuid.UUID,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions:  sessions,
		cashiers:  cashiers,
		devices:   devices,
		companyID: companyID,
		logger:    logger,
	}
}

// CashierIdentity is what PIN verification reveals: never the hash.
type CashierIdentity struct {
	ID   uuid.UUID        `json:"id"`
	Name string           `json:"name"`
	Role enum.CashierRole `json:"role"`
}

// VerifyPIN checks the PIN against every active cashier and returns
// the matching identity. The response is identical for "no such PIN"
// and "inactive cashier" so the terminal leaks nothing.
func (s *SessionService) VerifyPIN(ctx context.Context, pin string) (*CashierIdentity, error) {
	if pin == "" {
		return nil, apperror.ErrInvalidPIN
	}

	cashiers, err := s.cashiers.ListActive(ctx, s.companyID)
	if err != nil {
		return nil, err
	}

	for i := range cashiers {
		c := &cashiers[i]
		if bcrypt.CompareHashAndPassword([]byte(c.PINHash), []byte(pin)) == nil {
			return &CashierIdentity{ID: c.ID, Name: c.Name, Role: c.Role}, nil
		}
	}
	return nil, apperror.ErrInvalidPIN
}

// OpenSessionInput carries the parameters for opening a drawer.
type OpenSessionInput struct {
	OpenedByID     uuid.UUID
	DeviceID       *uuid.UUID
	OpeningBalance int64 // cents
	Notes          string
}

// Open starts a new cash-drawer session. Only one session may be open
// per company at a time; the opening float is recorded as counted and
// seeds the expected-cash calculation at close.
func (s *SessionService) Open(ctx context.Context, input *OpenSessionInput) (*entity.Session, error) {
	if input.OpeningBalance < 0 {
		return nil, apperror.NewBadRequestError("Opening balance cannot be negative")
	}

	existing, err := s.sessions.GetOpenByCompany(ctx, s.companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewAppError(409, "A session is already open: "+existing.Name)
	}

	if input.DeviceID != nil {
		device, err := s.devices.GetByID(ctx, *input.DeviceID)
		if err != nil {
			return nil, err
		}
		if device == nil {
			return nil, apperror.NewNotFoundError("Fiscal device")
		}
	}

	now := time.Now().UTC()
	session := &entity.Session{
		CompanyID:      s.companyID,
		DeviceID:       input.DeviceID,
		OpenedByID:     input.OpenedByID,
		Status:         enum.SessionStatusOpen,
		OpenedAt:       now,
		OpeningBalance: input.OpeningBalance,
		Notes:          input.Notes,
	}

	// Concurrent opens can count the same POS-YYYYMMDD-NNNN slot; the
	// unique index rejects the loser and we recount.
	prefix := utils.DailyRefPrefix(utils.SessionRefPrefix, now)
	for attempt := 1; ; attempt++ {
		taken, err := s.sessions.CountByNamePrefix(ctx, prefix)
		if err != nil {
			return nil, err
		}
		session.Name = utils.NextDailyRef(utils.SessionRefPrefix, now, taken)

		err = s.sessions.Create(ctx, session)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateReference) || attempt == referenceAttempts {
			return nil, err
		}
		s.logger.Warn("session name collision, regenerating",
			zap.String("session", session.Name),
			zap.Int("attempt", attempt),
		)
	}

	s.logger.Info("session opened",
		zap.String("session", session.Name),
		zap.String("opened_by", input.OpenedByID.String()),
	)
	return session, nil
}

// CloseSessionInput carries the parameters for closing a drawer.
type CloseSessionInput struct {
	ClosedByID     uuid.UUID
	ClosingBalance int64 // counted cash, cents
	Notes          string
}

// CloseResult reports the drawer reconciliation alongside the closed
// session. The difference is advisory; a mismatch never blocks close.
type CloseResult struct {
	Session      *entity.Session `json:"session"`
	ExpectedCash float64         `json:"expected_cash"`
	Difference   float64         `json:"difference"`
}

// Close ends a session. Closing is terminal: the session can never
// reopen and no further orders may reference it.
func (s *SessionService) Close(ctx context.Context, id uuid.UUID, input *CloseSessionInput) (*CloseResult, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.IsOpen() {
		return nil, apperror.ErrSessionClosed
	}

	now := time.Now().UTC()
	closing := input.ClosingBalance
	session.Status = enum.SessionStatusClosed
	session.ClosedAt = &now
	session.ClosedByID = &input.ClosedByID
	session.ClosingBalance = &closing
	if input.Notes != "" {
		session.Notes = input.Notes
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	diff := session.Difference(closing)
	s.logger.Info("session closed",
		zap.String("session", session.Name),
		zap.Int64("expected_cash_cents", session.ExpectedCash()),
		zap.Int64("difference_cents", diff),
	)

	return &CloseResult{
		Session:      session,
		ExpectedCash: float64(session.ExpectedCash()) / 100,
		Difference:   float64(diff) / 100,
	}, nil
}

// Current returns the open session, or nil when no drawer is open.
func (s *SessionService) Current(ctx context.Context) (*entity.Session, error) {
	return s.sessions.GetOpenByCompany(ctx, s.companyID)
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	return session, nil
}

// Summary reports the running (or final) totals of a session.
type Summary struct {
	Session      *entity.Session `json:"session"`
	ExpectedCash float64         `json:"expected_cash"`
	Difference   *float64        `json:"difference,omitempty"`
}

// GetSummary returns the session's accounting summary. The difference
// is only present once the session has closed.
func (s *SessionService) GetSummary(ctx context.Context, id uuid.UUID) (*Summary, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Session:      session,
		ExpectedCash: float64(session.ExpectedCash()) / 100,
	}
	if session.ClosingBalance != nil {
		diff := float64(session.Difference(*session.ClosingBalance)) / 100
		summary.Difference = &diff
	}
	return summary, nil
}

// List returns sessions for the company, newest first.
func (s *SessionService) List(ctx context.Context, status *enum.SessionStatus, page *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Session], error) {
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()

	sessions, total, err := s.sessions.List(ctx, s.companyID, &repository.SessionFilterParams{
		Pagination: page,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}

	return pagination.NewPaginatedResult(sessions, pagination.NewPagination(page.Page, page.PerPage, total)), nil
}

// ListCashiers returns the roster shown on the PIN pad.
func (s *SessionService) ListCashiers(ctx context.Context) ([]entity.Cashier, error) {
	return s.cashiers.ListActive(ctx, s.companyID)
}
