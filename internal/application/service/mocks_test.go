package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
)

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, id)
	if s := args.Get(0); s != nil {
		return s.(*entity.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) GetOpenByCompany(ctx context.Context, companyID uuid.UUID) (*entity.Session, error) {
	args := m.Called(ctx, companyID)
	if s := args.Get(0); s != nil {
		return s.(*entity.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionRepo) List(ctx context.Context, companyID uuid.UUID, params *repository.SessionFilterParams) ([]entity.Session, int64, error) {
	args := m.Called(ctx, companyID, params)
	return args.Get(0).([]entity.Session), args.Get(1).(int64), args.Error(2)
}

func (m *mockSessionRepo) CountByNamePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderRepo struct{ mock.Mock }

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*entity.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) GetByReference(ctx context.Context, reference string) (*entity.Order, error) {
	args := m.Called(ctx, reference)
	if o := args.Get(0); o != nil {
		return o.(*entity.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) GetWithLines(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*entity.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockOrderRepo) UpdateFiscalResult(ctx context.Context, id uuid.UUID, result *repository.FiscalResultUpdate) error {
	return m.Called(ctx, id, result).Error(0)
}

func (m *mockOrderRepo) List(ctx context.Context, companyID uuid.UUID, params *repository.OrderFilterParams) ([]entity.Order, int64, error) {
	args := m.Called(ctx, companyID, params)
	return args.Get(0).([]entity.Order), args.Get(1).(int64), args.Error(2)
}

func (m *mockOrderRepo) CountByReferencePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockOrderLineRepo struct{ mock.Mock }

func (m *mockOrderLineRepo) CreateBatch(ctx context.Context, lines []entity.OrderLine) error {
	return m.Called(ctx, lines).Error(0)
}

func (m *mockOrderLineRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderLine, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]entity.OrderLine), args.Error(1)
}

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *mockProductRepo) GetByScanCode(ctx context.Context, companyID uuid.UUID, code string) (*entity.Product, error) {
	args := m.Called(ctx, companyID, code)
	if p := args.Get(0); p != nil {
		return p.(*entity.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepo) Search(ctx context.Context, companyID uuid.UUID, params *repository.ProductSearchParams) ([]entity.Product, error) {
	args := m.Called(ctx, companyID, params)
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *mockProductRepo) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	args := m.Called(ctx, decrements)
	if ids := args.Get(0); ids != nil {
		return ids.([]uuid.UUID), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProductRepo) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error {
	return m.Called(ctx, increments).Error(0)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*entity.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) Search(ctx context.Context, companyID uuid.UUID, query string, limit int) ([]entity.Customer, error) {
	args := m.Called(ctx, companyID, query, limit)
	return args.Get(0).([]entity.Customer), args.Error(1)
}

type mockCashierRepo struct{ mock.Mock }

func (m *mockCashierRepo) Create(ctx context.Context, cashier *entity.Cashier) error {
	return m.Called(ctx, cashier).Error(0)
}

func (m *mockCashierRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Cashier, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*entity.Cashier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCashierRepo) Update(ctx context.Context, cashier *entity.Cashier) error {
	return m.Called(ctx, cashier).Error(0)
}

func (m *mockCashierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCashierRepo) List(ctx context.Context, companyID uuid.UUID, includeInactive bool) ([]entity.Cashier, error) {
	args := m.Called(ctx, companyID, includeInactive)
	return args.Get(0).([]entity.Cashier), args.Error(1)
}

func (m *mockCashierRepo) ListActive(ctx context.Context, companyID uuid.UUID) ([]entity.Cashier, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]entity.Cashier), args.Error(1)
}

type mockDeviceRepo struct{ mock.Mock }

func (m *mockDeviceRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Device, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*entity.Device), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDeviceRepo) List(ctx context.Context, companyID uuid.UUID) ([]entity.Device, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]entity.Device), args.Error(1)
}

type mockCompanyRepo struct{ mock.Mock }

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Company, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*entity.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockFiscalGateway struct{ mock.Mock }

func (m *mockFiscalGateway) SubmitSale(ctx context.Context, device *entity.Device, order *entity.Order) (*repository.FiscalReceipt, error) {
	args := m.Called(ctx, device, order)
	if r := args.Get(0); r != nil {
		return r.(*repository.FiscalReceipt), args.Error(1)
	}
	return nil, args.Error(1)
}
