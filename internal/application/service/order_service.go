package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/pricing"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/internal/domain/tender"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
	"github.com/takudzwan/fiscalpos-api/pkg/pagination"
	"github.com/takudzwan/fiscalpos-api/pkg/utils"
)

// OrderService runs the order pipeline: cart submission, fiscal
// certification, retry and refund. The ordering is strict: the sale is
// accounted for locally before the fiscal authority is involved, and a
// fiscal failure never unwinds a sale.
type OrderService struct {
	orders    repository.OrderRepository
	lines     repository.OrderLineRepository
	sessions  repository.SessionRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	devices   repository.DeviceRepository
	gateway   repository.FiscalGateway
	carts     *CartService
	currency  string
	logger    *zap.Logger

	// one fiscalization in flight per order
	fiscalMu    sync.Mutex
	fiscalizing map[uuid.UUID]bool
}

// NewOrderService creates a new order service
func NewOrderService(
	orders repository.OrderRepository,
	lines repository.OrderLineRepository,
	sessions repository.SessionRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	devices repository.DeviceRepository,
	gateway repository.FiscalGateway,
	carts *CartService,
	currency string,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:      orders,
		lines:       lines,
		sessions:    sessions,
		products:    products,
		customers:   customers,
		devices:     devices,
		gateway:     gateway,
		carts:       carts,
		currency:    currency,
		logger:      logger,
		fiscalizing: make(map[uuid.UUID]bool),
	}
}

// SubmitOrderInput carries everything checkout needs beyond the cart
// itself. Tender amounts are cents.
type SubmitOrderInput struct {
	TerminalID    string
	SessionID     uuid.UUID
	PaymentMethod enum.PaymentMethod
	Tender        tender.Amounts
	CustomerID    *uuid.UUID
	CashierID     *uuid.UUID
	AutoFiscalize bool
	Notes         string
}

// Submit turns the terminal's cart into a persisted, immutable order.
//
// The pipeline: lock the cart against double submission, check the
// session is open, reconcile the tender, decrement stock, persist the
// order and its line snapshot, advance the session totals, clear the
// cart, then attempt fiscalization when asked for. Everything before
// persistence can abort the sale; nothing after it can. An order sold
// without fiscalization stays not_fiscalized; it is not an error.
func (s *OrderService) Submit(ctx context.Context, input *SubmitOrderInput) (*entity.Order, error) {
	if !input.PaymentMethod.Valid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	cart, err := s.carts.BeginSubmission(input.TerminalID)
	if err != nil {
		return nil, err
	}

	order, session, err := s.submitLocked(ctx, cart, input)
	if err != nil {
		s.carts.EndSubmission(input.TerminalID)
		return nil, err
	}

	s.carts.CompleteSubmission(ctx, input.TerminalID)

	// Best effort: the sale stands whether or not this succeeds.
	if input.AutoFiscalize && session.DeviceID != nil {
		if fiscalErr := s.fiscalize(ctx, order); fiscalErr != nil {
			s.logger.Warn("fiscalization failed after sale",
				zap.String("reference", order.Reference),
				zap.Error(fiscalErr),
			)
		}
	}

	return order, nil
}

func (s *OrderService) submitLocked(ctx context.Context, cart *entity.Cart, input *SubmitOrderInput) (*entity.Order, *entity.Session, error) {
	session, err := s.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, apperror.NewNotFoundError("Session")
	}
	if !session.IsOpen() {
		return nil, nil, apperror.ErrSessionClosed
	}

	if input.CustomerID != nil {
		customer, err := s.customers.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, nil, err
		}
		if customer == nil {
			return nil, nil, apperror.NewNotFoundError("Customer")
		}
	}

	totals := cart.Totals()
	breakdown, err := tender.Reconcile(totals.Total, input.PaymentMethod, input.Tender)
	if err != nil {
		return nil, nil, apperror.NewBadRequestError(err.Error())
	}

	// Stock first: an insufficient-stock sale must die before any row
	// is written.
	decrements := make(map[uuid.UUID]int, len(cart.Lines))
	for i := range cart.Lines {
		decrements[cart.Lines[i].ProductID] += cart.Lines[i].Quantity
	}
	failedIDs, err := s.products.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, nil, err
	}
	if len(failedIDs) > 0 {
		return nil, nil, s.insufficientStockError(ctx, failedIDs)
	}

	order, err := s.persistOrder(ctx, cart, session, input, totals, breakdown)
	if err != nil {
		// The decrement committed; give the stock back.
		if restoreErr := s.products.AtomicIncrementBatch(ctx, decrements); restoreErr != nil {
			s.logger.Error("failed to restore stock after aborted sale", zap.Error(restoreErr))
		}
		return nil, nil, err
	}

	s.advanceSessionTotals(ctx, session, totals.Total, breakdown)
	return order, session, nil
}

func (s *OrderService) persistOrder(
	ctx context.Context,
	cart *entity.Cart,
	session *entity.Session,
	input *SubmitOrderInput,
	totals pricing.CartTotals,
	breakdown tender.Breakdown,
) (*entity.Order, error) {
	now := time.Now().UTC()
	order := &entity.Order{
		ID:             uuid.New(),
		SessionID:      session.ID,
		CompanyID:      session.CompanyID,
		CustomerID:     input.CustomerID,
		CashierID:      input.CashierID,
		Status:         enum.OrderStatusCompleted,
		FiscalStatus:   enum.FiscalStatusNotFiscalized,
		OrderDate:      now,
		Currency:       s.currency,
		PaymentMethod:  input.PaymentMethod,
		SubTotal:       totals.SubTotal,
		DiscountAmount: totals.Discount,
		TaxAmount:      totals.Tax,
		TotalAmount:    totals.Total,
		CashAmount:     breakdown.Cash,
		CardAmount:     breakdown.Card,
		MobileAmount:   breakdown.Mobile,
		ChangeAmount:   breakdown.Change,
		Notes:          input.Notes,
	}

	if err := s.createWithNextReference(ctx, order, now); err != nil {
		return nil, err
	}

	orderLines := make([]entity.OrderLine, 0, len(cart.Lines))
	for i := range cart.Lines {
		cl := &cart.Lines[i]
		amounts := cl.Amounts()
		productID := cl.ProductID
		orderLines = append(orderLines, entity.OrderLine{
			OrderID:     order.ID,
			ProductID:   &productID,
			Description: cl.Name,
			Quantity:    cl.Quantity,
			UOM:         cl.UOM,
			UnitPrice:   cl.UnitPrice,
			DiscountPct: cl.DiscountPct,
			VATRate:     cl.VATRate,
			SubTotal:    amounts.SubTotal,
			TaxAmount:   amounts.Tax,
			TotalPrice:  amounts.Total,
		})
	}
	if err := s.lines.CreateBatch(ctx, orderLines); err != nil {
		return nil, err
	}
	order.Lines = orderLines

	s.logger.Info("order completed",
		zap.String("reference", order.Reference),
		zap.String("session", session.Name),
		zap.Int64("total_cents", order.TotalAmount),
		zap.String("payment_method", string(order.PaymentMethod)),
	)
	return order, nil
}

// referenceAttempts bounds how often an insert is retried when the
// generated reference collides with a concurrent submission.
const referenceAttempts = 3

// createWithNextReference assigns the next free POS-ORD-YYYYMMDD-NNNN
// reference and inserts the order. Two terminals counting at the same
// instant can generate the same sequence number; the unique index turns
// the loser into ErrDuplicateReference, and we recount and try again
// rather than fail the sale.
func (s *OrderService) createWithNextReference(ctx context.Context, order *entity.Order, now time.Time) error {
	prefix := utils.DailyRefPrefix(utils.OrderRefPrefix, now)
	for attempt := 1; ; attempt++ {
		taken, err := s.orders.CountByReferencePrefix(ctx, prefix)
		if err != nil {
			return err
		}
		order.Reference = utils.NextDailyRef(utils.OrderRefPrefix, now, taken)

		err = s.orders.Create(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repository.ErrDuplicateReference) || attempt == referenceAttempts {
			return err
		}
		s.logger.Warn("order reference collision, regenerating",
			zap.String("reference", order.Reference),
			zap.Int("attempt", attempt),
		)
	}
}

// advanceSessionTotals is best effort once the order exists: a failed
// update is logged, never surfaced as a sale failure.
func (s *OrderService) advanceSessionTotals(ctx context.Context, session *entity.Session, total int64, breakdown tender.Breakdown) {
	session.TotalSales += total
	session.TotalCash += breakdown.Cash - breakdown.Change
	session.TotalCard += breakdown.Card
	session.TotalMobile += breakdown.Mobile
	session.TransactionCount++

	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Error("failed to advance session totals",
			zap.String("session", session.Name),
			zap.Error(err),
		)
	}
}

func (s *OrderService) insufficientStockError(ctx context.Context, failedIDs []uuid.UUID) error {
	fieldErrors := make([]apperror.FieldError, 0, len(failedIDs))
	failed, err := s.products.GetByIDs(ctx, failedIDs)
	if err != nil || len(failed) == 0 {
		return apperror.NewBadRequestError("Insufficient stock")
	}
	for i := range failed {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field:   failed[i].Name,
			Message: "insufficient stock",
		})
	}
	return &apperror.AppError{Code: 400, Message: "Insufficient stock", Errors: fieldErrors}
}

// Get returns an order with its lines.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orders.GetWithLines(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// List returns orders for the company, newest first.
func (s *OrderService) List(ctx context.Context, companyID uuid.UUID, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	if params == nil {
		params = &repository.OrderFilterParams{}
	}
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	orders, total, err := s.orders.List(ctx, companyID, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(orders,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// RetryFiscalize re-attempts certification of an order that failed to
// fiscalize at sale time. Retrying an already-fiscalized order is a
// no-op returning current state; a concurrent retry for the same order
// is rejected.
func (s *OrderService) RetryFiscalize(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.IsFiscalized() {
		return order, nil
	}

	if err := s.fiscalize(ctx, order); err != nil {
		if appErr, ok := err.(*apperror.AppError); ok && appErr == apperror.ErrFiscalizeInFlight {
			return nil, err
		}
		// Captured on the order; hand the current state back with the
		// gateway's message.
		return nil, apperror.NewUpstreamError(order.FiscalError)
	}
	return order, nil
}

// fiscalize submits the order to the fiscal gateway and records the
// outcome on the order. The order struct is updated in place.
func (s *OrderService) fiscalize(ctx context.Context, order *entity.Order) error {
	s.fiscalMu.Lock()
	if s.fiscalizing[order.ID] {
		s.fiscalMu.Unlock()
		return apperror.ErrFiscalizeInFlight
	}
	s.fiscalizing[order.ID] = true
	s.fiscalMu.Unlock()

	defer func() {
		s.fiscalMu.Lock()
		delete(s.fiscalizing, order.ID)
		s.fiscalMu.Unlock()
	}()

	device, err := s.sessionDevice(ctx, order.SessionID)
	if err != nil {
		return s.recordFiscalError(ctx, order, err)
	}

	receipt, err := s.gateway.SubmitSale(ctx, device, order)
	if err != nil {
		return s.recordFiscalError(ctx, order, err)
	}

	update := &repository.FiscalResultUpdate{
		FiscalStatus:     enum.FiscalStatusFiscalized,
		FiscalReceiptID:  receipt.ReceiptID,
		VerificationCode: receipt.VerificationCode,
		VerificationURL:  receipt.VerificationURL,
	}
	if err := s.orders.UpdateFiscalResult(ctx, order.ID, update); err != nil {
		return err
	}

	order.FiscalStatus = enum.FiscalStatusFiscalized
	order.FiscalError = ""
	order.FiscalReceiptID = receipt.ReceiptID
	order.VerificationCode = receipt.VerificationCode
	order.VerificationURL = receipt.VerificationURL

	s.logger.Info("order fiscalized",
		zap.String("reference", order.Reference),
		zap.String("fiscal_receipt_id", receipt.ReceiptID),
	)
	return nil
}

func (s *OrderService) recordFiscalError(ctx context.Context, order *entity.Order, cause error) error {
	update := &repository.FiscalResultUpdate{
		FiscalStatus: enum.FiscalStatusError,
		FiscalError:  cause.Error(),
	}
	if err := s.orders.UpdateFiscalResult(ctx, order.ID, update); err != nil {
		s.logger.Error("failed to record fiscal error",
			zap.String("reference", order.Reference),
			zap.Error(err),
		)
	}
	order.FiscalStatus = enum.FiscalStatusError
	order.FiscalError = cause.Error()
	return cause
}

func (s *OrderService) sessionDevice(ctx context.Context, sessionID uuid.UUID) (*entity.Device, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil || session.DeviceID == nil {
		return nil, apperror.NewBadRequestError("No fiscal device bound to session")
	}
	return s.devices.GetByID(ctx, *session.DeviceID)
}

// RefundInput carries the refund parameters.
type RefundInput struct {
	CashierID *uuid.UUID
	Reason    string
}

// Refund issues a full refund of a completed order: a sibling order
// with negated amounts and quantities is created, the original flips
// to refunded, tracked stock is restored, the open session's returns
// total grows by the refunded amount, and when the session has a
// fiscal device the credit note is submitted for fiscalization best
// effort.
func (s *OrderService) Refund(ctx context.Context, id uuid.UUID, input *RefundInput) (*entity.Order, error) {
	if input.Reason == "" {
		return nil, apperror.NewBadRequestError("Refund reason is required")
	}

	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !original.IsRefundable() {
		return nil, apperror.NewBadRequestError("Order cannot be refunded")
	}

	session, err := s.sessions.GetOpenByCompany(ctx, original.CompanyID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewBadRequestError("No open session to record the refund in")
	}

	now := time.Now().UTC()
	refund := &entity.Order{
		ID:             uuid.New(),
		SessionID:      session.ID,
		CompanyID:      original.CompanyID,
		CustomerID:     original.CustomerID,
		CashierID:      input.CashierID,
		RefundOfID:     &original.ID,
		Status:         enum.OrderStatusCompleted,
		FiscalStatus:   enum.FiscalStatusNotFiscalized,
		OrderDate:      now,
		Currency:       original.Currency,
		PaymentMethod:  original.PaymentMethod,
		SubTotal:       -original.SubTotal,
		DiscountAmount: -original.DiscountAmount,
		TaxAmount:      -original.TaxAmount,
		TotalAmount:    -original.TotalAmount,
		CashAmount:     -original.CashAmount + original.ChangeAmount,
		CardAmount:     -original.CardAmount,
		MobileAmount:   -original.MobileAmount,
		Notes:          input.Reason,
	}

	if err := s.createWithNextReference(ctx, refund, now); err != nil {
		return nil, err
	}

	refundLines := make([]entity.OrderLine, 0, len(original.Lines))
	increments := make(map[uuid.UUID]int)
	for i := range original.Lines {
		ol := &original.Lines[i]
		refundLines = append(refundLines, entity.OrderLine{
			OrderID:     refund.ID,
			ProductID:   ol.ProductID,
			Description: ol.Description,
			Quantity:    -ol.Quantity,
			UOM:         ol.UOM,
			UnitPrice:   ol.UnitPrice,
			DiscountPct: ol.DiscountPct,
			VATRate:     ol.VATRate,
			SubTotal:    -ol.SubTotal,
			TaxAmount:   -ol.TaxAmount,
			TotalPrice:  -ol.TotalPrice,
		})
		if ol.ProductID != nil {
			increments[*ol.ProductID] += ol.Quantity
		}
	}
	if err := s.lines.CreateBatch(ctx, refundLines); err != nil {
		return nil, err
	}
	refund.Lines = refundLines

	if err := s.orders.UpdateStatus(ctx, original.ID, enum.OrderStatusRefunded); err != nil {
		return nil, err
	}

	if err := s.products.AtomicIncrementBatch(ctx, increments); err != nil {
		s.logger.Error("failed to restore stock on refund",
			zap.String("reference", refund.Reference),
			zap.Error(err),
		)
	}

	session.TotalReturns += original.TotalAmount
	session.TransactionCount++
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Error("failed to advance session returns",
			zap.String("session", session.Name),
			zap.Error(err),
		)
	}

	s.logger.Info("order refunded",
		zap.String("original", original.Reference),
		zap.String("refund", refund.Reference),
		zap.Int64("amount_cents", original.TotalAmount),
	)

	if session.DeviceID != nil {
		if fiscalErr := s.fiscalize(ctx, refund); fiscalErr != nil {
			s.logger.Warn("credit note fiscalization failed",
				zap.String("reference", refund.Reference),
				zap.Error(fiscalErr),
			)
		}
	}

	return refund, nil
}
