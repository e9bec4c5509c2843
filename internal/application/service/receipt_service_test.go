package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/pkg/printer"
)

type receiptFixture struct {
	orders    *mockOrderRepo
	sessions  *mockSessionRepo
	companies *mockCompanyRepo
	devices   *mockDeviceRepo
	cashiers  *mockCashierRepo
	customers *mockCustomerRepo
	buffer    *printer.BufferPrinter
	svc       *ReceiptService
}

func newReceiptFixture() *receiptFixture {
	f := &receiptFixture{
		orders:    new(mockOrderRepo),
		sessions:  new(mockSessionRepo),
		companies: new(mockCompanyRepo),
		devices:   new(mockDeviceRepo),
		cashiers:  new(mockCashierRepo),
		customers: new(mockCustomerRepo),
		buffer:    printer.NewBufferPrinter(),
	}
	f.svc = NewReceiptService(
		f.orders, f.sessions, f.companies, f.devices, f.cashiers, f.customers,
		f.buffer, 32, zap.NewNop(),
	)
	return f
}

func fiscalizedOrder() *entity.Order {
	return &entity.Order{
		ID:               uuid.New(),
		SessionID:        uuid.New(),
		CompanyID:        uuid.New(),
		Reference:        "POS-ORD-20260831-0001",
		Status:           enum.OrderStatusCompleted,
		FiscalStatus:     enum.FiscalStatusFiscalized,
		VerificationCode: "ABCD-1234",
		VerificationURL:  "https://verify.example/ABCD-1234",
		OrderDate:        time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC),
		Currency:         "USD",
		PaymentMethod:    enum.PaymentMethodCash,
		SubTotal:         640,
		TaxAmount:        96,
		TotalAmount:      736,
		CashAmount:       1000,
		ChangeAmount:     264,
		Lines: []entity.OrderLine{{
			Description: "Sugar 2kg",
			Quantity:    2,
			UnitPrice:   320,
			VATRate:     15,
			SubTotal:    640,
			TaxAmount:   96,
			TotalPrice:  736,
		}},
	}
}

func TestRenderReceipt(t *testing.T) {
	f := newReceiptFixture()
	order := fiscalizedOrder()

	f.orders.On("GetWithLines", mock.Anything, order.ID).Return(order, nil)
	f.companies.On("GetByID", mock.Anything, order.CompanyID).Return(&entity.Company{
		Name:    "Demo Retail Store",
		Address: "12 Samora Machel Ave, Harare",
		TIN:     "1000123456",
	}, nil)
	deviceID := uuid.New()
	f.sessions.On("GetByID", mock.Anything, order.SessionID).Return(&entity.Session{
		Name:     "POS-20260831-0001",
		DeviceID: &deviceID,
	}, nil)
	f.devices.On("GetByID", mock.Anything, deviceID).Return(&entity.Device{
		SerialNumber: "SN-4711",
	}, nil)

	receipt, err := f.svc.Render(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, "Demo Retail Store", receipt.Header.StoreName)
	assert.Equal(t, "POS-ORD-20260831-0001", receipt.Reference)
	assert.Equal(t, "2026-08-31 10:30:00", receipt.Date)
	assert.Equal(t, "POS-20260831-0001", receipt.SessionName)
	assert.Equal(t, "SN-4711", receipt.DeviceSerial)
	assert.False(t, receipt.IsRefund)

	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Sugar 2kg", receipt.Items[0].Name)
	assert.Equal(t, 3.2, receipt.Items[0].UnitPrice)
	assert.Equal(t, 7.36, receipt.Items[0].Total)

	assert.Equal(t, 6.4, receipt.SubTotal)
	assert.Equal(t, 0.96, receipt.Tax)
	assert.Equal(t, 7.36, receipt.Total)
	assert.Equal(t, 2.64, receipt.Change)

	require.Len(t, receipt.Tenders, 1, "only tenders actually used appear")
	assert.Equal(t, "Cash", receipt.Tenders[0].Method)
	assert.Equal(t, 10.0, receipt.Tenders[0].Amount)

	require.NotNil(t, receipt.Verification)
	assert.Equal(t, "ABCD-1234", receipt.Verification.Code)
	assert.NotEmpty(t, receipt.Verification.QRPNG, "fiscalized receipts carry a QR image")
}

func TestRenderUnfiscalizedOrderHasNoVerification(t *testing.T) {
	f := newReceiptFixture()
	order := fiscalizedOrder()
	order.FiscalStatus = enum.FiscalStatusError
	order.VerificationCode = ""
	order.VerificationURL = ""

	f.orders.On("GetWithLines", mock.Anything, order.ID).Return(order, nil)
	f.companies.On("GetByID", mock.Anything, order.CompanyID).Return(&entity.Company{Name: "Demo"}, nil)
	f.sessions.On("GetByID", mock.Anything, order.SessionID).Return(nil, nil)

	receipt, err := f.svc.Render(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, receipt.Verification)
}

func TestFormatESCPOSIsDeterministic(t *testing.T) {
	f := newReceiptFixture()
	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Demo Retail Store"},
		Reference: "POS-ORD-20260831-0001",
		Date:      "2026-08-31 10:30:00",
		Currency:  "USD",
		Items: []entity.ReceiptItem{
			{Name: "Sugar 2kg", Quantity: 2, UnitPrice: 3.2, VATRate: 15, Total: 7.36},
		},
		SubTotal: 6.4,
		Tax:      0.96,
		Total:    7.36,
		Tenders:  []entity.ReceiptTender{{Method: "Cash", Amount: 10}},
		Change:   2.64,
		Verification: &entity.ReceiptVerification{
			Code: "ABCD-1234",
			URL:  "https://verify.example/ABCD-1234",
		},
	}

	first := f.svc.FormatESCPOS(receipt)
	second := f.svc.FormatESCPOS(receipt)
	assert.True(t, bytes.Equal(first, second), "reprints must be byte-identical")

	assert.True(t, bytes.Contains(first, []byte("Demo Retail Store")))
	assert.True(t, bytes.Contains(first, []byte("Verification: ABCD-1234")))
	assert.True(t, bytes.Contains(first, []byte("https://verify.example/ABCD-1234")), "QR payload carries the verification URL")
	assert.False(t, bytes.Contains(first, []byte("*** REFUND ***")))
}

func TestFormatESCPOSRefundBanner(t *testing.T) {
	f := newReceiptFixture()
	receipt := &entity.Receipt{
		Header:    entity.ReceiptHeader{StoreName: "Demo Retail Store"},
		Reference: "POS-ORD-20260831-0002",
		Currency:  "USD",
		IsRefund:  true,
		Total:     -7.36,
	}

	out := f.svc.FormatESCPOS(receipt)
	assert.True(t, bytes.Contains(out, []byte("*** REFUND ***")))
}

func TestPrintSendsOneJob(t *testing.T) {
	f := newReceiptFixture()
	order := fiscalizedOrder()

	f.orders.On("GetWithLines", mock.Anything, order.ID).Return(order, nil)
	f.companies.On("GetByID", mock.Anything, order.CompanyID).Return(&entity.Company{Name: "Demo"}, nil)
	f.sessions.On("GetByID", mock.Anything, order.SessionID).Return(nil, nil)

	receipt, err := f.svc.Print(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	jobs := f.buffer.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, f.svc.FormatESCPOS(receipt), jobs[0])
}
