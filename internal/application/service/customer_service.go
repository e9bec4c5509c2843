package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

// ErrSearchSuperseded signals that a newer keystroke replaced this
// lookup before its debounce window elapsed. Callers should drop the
// result silently.
var ErrSearchSuperseded = errors.New("search superseded by a newer query")

// CustomerService serves the customer picker on the payment screen.
// Lookups are debounced: a query only hits the database after the
// typing pause, and a stale query is abandoned the moment a newer one
// arrives so late responses can never overwrite fresher results.
type CustomerService struct {
	customers  repository.CustomerRepository
	companyID  uuid.UUID
	debounce   time.Duration
	generation atomic.Uint64
	logger     *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers repository.CustomerRepository, companyID uuid.UUID, debounce time.Duration, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customers: customers,
		companyID: companyID,
		debounce:  debounce,
		logger:    logger,
	}
}

// Search looks customers up by name, email or phone. Empty queries
// return nothing rather than the whole directory.
func (s *CustomerService) Search(ctx context.Context, query string, limit int) ([]entity.Customer, error) {
	if query == "" {
		return nil, nil
	}

	gen := s.generation.Add(1)

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if s.generation.Load() != gen {
			return nil, ErrSearchSuperseded
		}
	}

	results, err := s.customers.Search(ctx, s.companyID, query, limit)
	if err != nil {
		return nil, err
	}
	if s.generation.Load() != gen {
		return nil, ErrSearchSuperseded
	}
	return results, nil
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}
