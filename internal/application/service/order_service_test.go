package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/internal/domain/tender"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
)

type orderFixture struct {
	orders    *mockOrderRepo
	lines     *mockOrderLineRepo
	sessions  *mockSessionRepo
	products  *mockProductRepo
	customers *mockCustomerRepo
	devices   *mockDeviceRepo
	gateway   *mockFiscalGateway
	carts     *CartService
	svc       *OrderService

	companyID uuid.UUID
	deviceID  uuid.UUID
	session   *entity.Session
	product   *entity.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	f := &orderFixture{
		orders:    new(mockOrderRepo),
		lines:     new(mockOrderLineRepo),
		sessions:  new(mockSessionRepo),
		products:  new(mockProductRepo),
		customers: new(mockCustomerRepo),
		devices:   new(mockDeviceRepo),
		gateway:   new(mockFiscalGateway),
		companyID: uuid.New(),
		deviceID:  uuid.New(),
	}

	f.carts = NewCartService(f.products, nil, f.companyID, zap.NewNop())
	f.svc = NewOrderService(
		f.orders, f.lines, f.sessions, f.products, f.customers, f.devices,
		f.gateway, f.carts, "USD", zap.NewNop(),
	)

	f.session = &entity.Session{
		ID:        uuid.New(),
		CompanyID: f.companyID,
		DeviceID:  &f.deviceID,
		Name:      "POS-20260831-0001",
		Status:    enum.SessionStatusOpen,
	}
	f.product = &entity.Product{
		ID:             uuid.New(),
		Name:           "Sugar 2kg",
		SalePrice:      320,
		VATRate:        15,
		TrackInventory: true,
		IsActive:       true,
	}
	return f
}

// fillCart puts 2 units of the fixture product into the terminal cart.
// Line total: 640 subtotal + 96 tax = 736.
func (f *orderFixture) fillCart(t *testing.T) {
	t.Helper()
	f.products.On("GetByID", mock.Anything, f.product.ID).Return(f.product, nil)
	_, err := f.carts.AddProduct(context.Background(), "till-1", f.product.ID, 2)
	require.NoError(t, err)
}

func (f *orderFixture) submitInput() *SubmitOrderInput {
	return &SubmitOrderInput{
		TerminalID:    "till-1",
		SessionID:     f.session.ID,
		PaymentMethod: enum.PaymentMethodCash,
		Tender:        tender.Amounts{Cash: 1000},
		AutoFiscalize: true,
	}
}

func TestSubmitHappyPath(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, map[uuid.UUID]int{f.product.ID: 2}).Return(nil, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)
	f.devices.On("GetByID", mock.Anything, f.deviceID).Return(&entity.Device{ID: f.deviceID, FiscalDeviceID: "FD-1"}, nil)
	f.gateway.On("SubmitSale", mock.Anything, mock.Anything, mock.Anything).Return(&repository.FiscalReceipt{
		ReceiptID:        "FR-001",
		VerificationCode: "ABCD-1234",
		VerificationURL:  "https://verify.example/ABCD-1234",
	}, nil)
	f.orders.On("UpdateFiscalResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)

	assert.Regexp(t, `^POS-ORD-\d{8}-0001$`, order.Reference)
	assert.Equal(t, int64(640), order.SubTotal)
	assert.Equal(t, int64(96), order.TaxAmount)
	assert.Equal(t, int64(736), order.TotalAmount)
	assert.Equal(t, int64(1000), order.CashAmount)
	assert.Equal(t, int64(264), order.ChangeAmount)
	assert.Equal(t, enum.FiscalStatusFiscalized, order.FiscalStatus)
	assert.Equal(t, "FR-001", order.FiscalReceiptID)

	// Session accounting: net cash into the drawer is tendered minus change.
	assert.Equal(t, int64(736), f.session.TotalSales)
	assert.Equal(t, int64(736), f.session.TotalCash)
	assert.Equal(t, 1, f.session.TransactionCount)

	// Cart cleared, ready for the next sale.
	assert.True(t, f.carts.Get("till-1").IsEmpty())
}

func TestSubmitSurvivesFiscalFailure(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, mock.Anything).Return(nil, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)
	f.devices.On("GetByID", mock.Anything, f.deviceID).Return(&entity.Device{ID: f.deviceID}, nil)
	f.gateway.On("SubmitSale", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("device offline"))
	f.orders.On("UpdateFiscalResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err, "a fiscal failure must never fail the sale")

	assert.Equal(t, enum.OrderStatusCompleted, order.Status)
	assert.Equal(t, enum.FiscalStatusError, order.FiscalStatus)
	assert.Equal(t, "device offline", order.FiscalError)
	assert.True(t, f.carts.Get("till-1").IsEmpty(), "the cart clears even when fiscalization fails")
}

func TestSubmitWithoutAutoFiscalizeSkipsGateway(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, mock.Anything).Return(nil, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)

	input := f.submitInput()
	input.AutoFiscalize = false

	order, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, enum.OrderStatusCompleted, order.Status)
	assert.Equal(t, enum.FiscalStatusNotFiscalized, order.FiscalStatus)
	assert.Empty(t, order.FiscalError)
	f.gateway.AssertNotCalled(t, "SubmitSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitWithoutDeviceStaysNotFiscalized(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	// A session opened without a fiscal device sells unfiscalized; that
	// is a clean outcome, not a fiscal error.
	f.session.DeviceID = nil

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, mock.Anything).Return(nil, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)

	order, err := f.svc.Submit(context.Background(), f.submitInput())
	require.NoError(t, err)

	assert.Equal(t, enum.FiscalStatusNotFiscalized, order.FiscalStatus)
	assert.Empty(t, order.FiscalError)
	f.gateway.AssertNotCalled(t, "SubmitSale", mock.Anything, mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdateFiscalResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitRetriesReferenceCollision(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, mock.Anything).Return(nil, nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)

	// A concurrent till grabs POS-ORD-...-0002 between our count and
	// insert; the second attempt recounts and lands on 0003.
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(1), nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateReference).Once()
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(2), nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	input := f.submitInput()
	input.AutoFiscalize = false

	order, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err, "a lost reference race must not fail the sale")
	assert.Regexp(t, `^POS-ORD-\d{8}-0003$`, order.Reference)
}

func TestSubmitInsufficientTenderKeepsCart(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)

	input := f.submitInput()
	input.Tender = tender.Amounts{Cash: 100} // short of 736

	_, err := f.svc.Submit(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)

	assert.Len(t, f.carts.Get("till-1").Lines, 1, "failed checkout must keep the cart")
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	// The submission lock must be released for the retry.
	_, err = f.carts.BeginSubmission("till-1")
	assert.NoError(t, err)
}

func TestSubmitClosedSessionRejected(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.session.Status = enum.SessionStatusClosed
	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	assert.Equal(t, apperror.ErrSessionClosed, err)
	assert.Len(t, f.carts.Get("till-1").Lines, 1)
}

func TestSubmitInsufficientStockRejected(t *testing.T) {
	f := newOrderFixture(t)
	f.fillCart(t)

	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.products.On("AtomicDecrementBatch", mock.Anything, mock.Anything).Return([]uuid.UUID{f.product.ID}, nil)
	f.products.On("GetByIDs", mock.Anything, []uuid.UUID{f.product.ID}).Return([]entity.Product{*f.product}, nil)

	_, err := f.svc.Submit(context.Background(), f.submitInput())
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRetryFiscalizeIsIdempotent(t *testing.T) {
	f := newOrderFixture(t)

	id := uuid.New()
	fiscalized := &entity.Order{
		ID:              id,
		Reference:       "POS-ORD-20260831-0001",
		FiscalStatus:    enum.FiscalStatusFiscalized,
		FiscalReceiptID: "FR-001",
	}
	f.orders.On("GetWithLines", mock.Anything, id).Return(fiscalized, nil)

	order, err := f.svc.RetryFiscalize(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "FR-001", order.FiscalReceiptID)
	f.gateway.AssertNotCalled(t, "SubmitSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestRetryFiscalizeRecovers(t *testing.T) {
	f := newOrderFixture(t)

	id := uuid.New()
	failed := &entity.Order{
		ID:           id,
		SessionID:    f.session.ID,
		Reference:    "POS-ORD-20260831-0002",
		FiscalStatus: enum.FiscalStatusError,
		FiscalError:  "device offline",
	}
	f.orders.On("GetWithLines", mock.Anything, id).Return(failed, nil)
	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.devices.On("GetByID", mock.Anything, f.deviceID).Return(&entity.Device{ID: f.deviceID}, nil)
	f.gateway.On("SubmitSale", mock.Anything, mock.Anything, mock.Anything).Return(&repository.FiscalReceipt{
		ReceiptID:        "FR-002",
		VerificationCode: "WXYZ-9876",
	}, nil)
	f.orders.On("UpdateFiscalResult", mock.Anything, id, mock.Anything).Return(nil)

	order, err := f.svc.RetryFiscalize(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, enum.FiscalStatusFiscalized, order.FiscalStatus)
	assert.Empty(t, order.FiscalError)
	assert.Equal(t, "FR-002", order.FiscalReceiptID)
}

func TestRefundNegatesOriginal(t *testing.T) {
	f := newOrderFixture(t)

	origID := uuid.New()
	productID := f.product.ID
	original := &entity.Order{
		ID:            origID,
		SessionID:     uuid.New(),
		CompanyID:     f.companyID,
		Reference:     "POS-ORD-20260830-0004",
		Status:        enum.OrderStatusCompleted,
		PaymentMethod: enum.PaymentMethodCash,
		SubTotal:      640,
		TaxAmount:     96,
		TotalAmount:   736,
		CashAmount:    1000,
		ChangeAmount:  264,
		Currency:      "USD",
		Lines: []entity.OrderLine{{
			ProductID:   &productID,
			Description: "Sugar 2kg",
			Quantity:    2,
			UnitPrice:   320,
			VATRate:     15,
			SubTotal:    640,
			TaxAmount:   96,
			TotalPrice:  736,
		}},
	}

	f.orders.On("GetWithLines", mock.Anything, origID).Return(original, nil)
	f.sessions.On("GetOpenByCompany", mock.Anything, f.companyID).Return(f.session, nil)
	f.sessions.On("GetByID", mock.Anything, f.session.ID).Return(f.session, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(4), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, origID, enum.OrderStatusRefunded).Return(nil)
	f.products.On("AtomicIncrementBatch", mock.Anything, map[uuid.UUID]int{productID: 2}).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)
	f.devices.On("GetByID", mock.Anything, f.deviceID).Return(&entity.Device{ID: f.deviceID}, nil)
	f.gateway.On("SubmitSale", mock.Anything, mock.Anything, mock.Anything).Return(&repository.FiscalReceipt{ReceiptID: "CN-001"}, nil)
	f.orders.On("UpdateFiscalResult", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	refund, err := f.svc.Refund(context.Background(), origID, &RefundInput{Reason: "damaged"})
	require.NoError(t, err)

	assert.Equal(t, &origID, refund.RefundOfID)
	assert.Equal(t, int64(-736), refund.TotalAmount)
	assert.Equal(t, int64(-640), refund.SubTotal)
	assert.Equal(t, int64(-96), refund.TaxAmount)
	assert.Regexp(t, `^POS-ORD-\d{8}-0005$`, refund.Reference)

	require.Len(t, refund.Lines, 1)
	assert.Equal(t, -2, refund.Lines[0].Quantity)
	assert.Equal(t, int64(-736), refund.Lines[0].TotalPrice)
	assert.Equal(t, int64(320), refund.Lines[0].UnitPrice, "unit price stays positive; quantity carries the sign")

	// Session returns grow by the refunded magnitude.
	assert.Equal(t, int64(736), f.session.TotalReturns)
}

func TestRefundRequiresReason(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Refund(context.Background(), uuid.New(), &RefundInput{})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Refund reason is required", appErr.Message)
	f.orders.AssertNotCalled(t, "GetWithLines", mock.Anything, mock.Anything)
}

func TestRefundWithoutDeviceSkipsCreditNote(t *testing.T) {
	f := newOrderFixture(t)
	f.session.DeviceID = nil

	origID := uuid.New()
	original := &entity.Order{
		ID:          origID,
		CompanyID:   f.companyID,
		Reference:   "POS-ORD-20260830-0004",
		Status:      enum.OrderStatusCompleted,
		Currency:    "USD",
		TotalAmount: 736,
	}

	f.orders.On("GetWithLines", mock.Anything, origID).Return(original, nil)
	f.sessions.On("GetOpenByCompany", mock.Anything, f.companyID).Return(f.session, nil)
	f.orders.On("CountByReferencePrefix", mock.Anything, mock.Anything).Return(int64(4), nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.lines.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdateStatus", mock.Anything, origID, enum.OrderStatusRefunded).Return(nil)
	f.products.On("AtomicIncrementBatch", mock.Anything, mock.Anything).Return(nil)
	f.sessions.On("Update", mock.Anything, f.session).Return(nil)

	refund, err := f.svc.Refund(context.Background(), origID, &RefundInput{Reason: "damaged"})
	require.NoError(t, err)

	assert.Equal(t, enum.FiscalStatusNotFiscalized, refund.FiscalStatus)
	assert.Empty(t, refund.FiscalError)
	f.gateway.AssertNotCalled(t, "SubmitSale", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefundOfRefundedOrderRejected(t *testing.T) {
	f := newOrderFixture(t)

	id := uuid.New()
	refunded := &entity.Order{ID: id, Status: enum.OrderStatusRefunded, TotalAmount: 736}
	f.orders.On("GetWithLines", mock.Anything, id).Return(refunded, nil)

	_, err := f.svc.Refund(context.Background(), id, &RefundInput{Reason: "damaged"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefundRequiresOpenSession(t *testing.T) {
	f := newOrderFixture(t)

	id := uuid.New()
	original := &entity.Order{ID: id, CompanyID: f.companyID, Status: enum.OrderStatusCompleted, TotalAmount: 736}
	f.orders.On("GetWithLines", mock.Anything, id).Return(original, nil)
	f.sessions.On("GetOpenByCompany", mock.Anything, f.companyID).Return(nil, nil)

	_, err := f.svc.Refund(context.Background(), id, &RefundInput{Reason: "damaged"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}
