package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

func TestCustomerSearchEmptyQueryReturnsNothing(t *testing.T) {
	customers := new(mockCustomerRepo)
	svc := NewCustomerService(customers, uuid.New(), 0, zap.NewNop())

	results, err := svc.Search(context.Background(), "", 20)
	require.NoError(t, err)
	assert.Nil(t, results)
	customers.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerSearchWithoutDebounceHitsRepo(t *testing.T) {
	companyID := uuid.New()
	customers := new(mockCustomerRepo)
	svc := NewCustomerService(customers, companyID, 0, zap.NewNop())

	want := []entity.Customer{{ID: uuid.New(), Name: "Chipo N"}}
	customers.On("Search", mock.Anything, companyID, "chipo", 20).Return(want, nil)

	results, err := svc.Search(context.Background(), "chipo", 20)
	require.NoError(t, err)
	assert.Equal(t, want, results)
}

func TestCustomerSearchSupersededByNewerQuery(t *testing.T) {
	companyID := uuid.New()
	customers := new(mockCustomerRepo)
	svc := NewCustomerService(customers, companyID, 50*time.Millisecond, zap.NewNop())

	customers.On("Search", mock.Anything, companyID, "chi", 20).Return([]entity.Customer{}, nil)
	customers.On("Search", mock.Anything, companyID, "chip", 20).Return([]entity.Customer{{Name: "Chipo N"}}, nil)

	var wg sync.WaitGroup
	var staleErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, staleErr = svc.Search(context.Background(), "chi", 20)
	}()

	// A newer keystroke arrives inside the first query's debounce window.
	time.Sleep(10 * time.Millisecond)
	results, err := svc.Search(context.Background(), "chip", 20)
	require.NoError(t, err)
	require.Len(t, results, 1)

	wg.Wait()
	assert.ErrorIs(t, staleErr, ErrSearchSuperseded)
	customers.AssertNotCalled(t, "Search", mock.Anything, companyID, "chi", 20)
}

func TestCustomerSearchCancelledContext(t *testing.T) {
	customers := new(mockCustomerRepo)
	svc := NewCustomerService(customers, uuid.New(), time.Second, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Search(ctx, "chipo", 20)
	assert.ErrorIs(t, err, context.Canceled)
}
