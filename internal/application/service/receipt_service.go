package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/pkg/apperror"
	"github.com/takudzwan/fiscalpos-api/pkg/printer"
)

// ReceiptService renders printable receipts from persisted orders.
// Rendering is deterministic and side-effect free: the same order
// always yields the same receipt, and reprinting changes nothing.
type ReceiptService struct {
	orders    repository.OrderRepository
	sessions  repository.SessionRepository
	companies repository.CompanyRepository
	devices   repository.DeviceRepository
	cashiers  repository.CashierRepository
	customers repository.CustomerRepository
	printer   printer.Printer
	charWidth int
	logger    *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	orders repository.OrderRepository,
	sessions repository.SessionRepository,
	companies repository.CompanyRepository,
	devices repository.DeviceRepository,
	cashiers repository.CashierRepository,
	customers repository.CustomerRepository,
	p printer.Printer,
	charWidth int,
	logger *zap.Logger,
) *ReceiptService {
	if charWidth <= 0 {
		charWidth = 48
	}
	return &ReceiptService{
		orders:    orders,
		sessions:  sessions,
		companies: companies,
		devices:   devices,
		cashiers:  cashiers,
		customers: customers,
		printer:   p,
		charWidth: charWidth,
		logger:    logger,
	}
}

// Render builds the receipt value object for an order.
func (s *ReceiptService) Render(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orders.GetWithLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	company, err := s.companies.GetByID(ctx, order.CompanyID)
	if err != nil {
		return nil, err
	}

	receipt := &entity.Receipt{
		Reference: order.Reference,
		Date:      order.OrderDate.UTC().Format("2006-01-02 15:04:05"),
		Currency:  order.Currency,
		IsRefund:  order.RefundOfID != nil,
		SubTotal:  float64(order.SubTotal) / 100,
		Discount:  float64(order.DiscountAmount) / 100,
		Tax:       float64(order.TaxAmount) / 100,
		Total:     float64(order.TotalAmount) / 100,
		Change:    float64(order.ChangeAmount) / 100,
	}

	if company != nil {
		receipt.Header = entity.ReceiptHeader{
			StoreName: company.Name,
			Address:   company.Address,
			Phone:     company.Phone,
			TIN:       company.TIN,
			VATNumber: company.VATNumber,
		}
	}

	session, err := s.sessions.GetByID(ctx, order.SessionID)
	if err == nil && session != nil {
		receipt.SessionName = session.Name
		if session.DeviceID != nil {
			if device, derr := s.devices.GetByID(ctx, *session.DeviceID); derr == nil && device != nil {
				receipt.DeviceSerial = device.SerialNumber
			}
		}
	}

	if order.CashierID != nil {
		if cashier, cerr := s.cashiers.GetByID(ctx, *order.CashierID); cerr == nil && cashier != nil {
			receipt.Cashier = cashier.Name
		}
	}
	if order.CustomerID != nil {
		if customer, cerr := s.customers.GetByID(ctx, *order.CustomerID); cerr == nil && customer != nil {
			receipt.Customer = customer.Name
		}
	}

	for i := range order.Lines {
		line := &order.Lines[i]
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:        line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   float64(line.UnitPrice) / 100,
			DiscountPct: line.DiscountPct,
			VATRate:     line.VATRate,
			Total:       float64(line.TotalPrice) / 100,
		})
	}

	receipt.Tenders = tenderLines(order)

	if order.IsFiscalized() && order.VerificationCode != "" {
		verification := &entity.ReceiptVerification{
			Code: order.VerificationCode,
			URL:  order.VerificationURL,
		}
		if order.VerificationURL != "" {
			png, qerr := qrcode.Encode(order.VerificationURL, qrcode.Medium, 256)
			if qerr != nil {
				s.logger.Warn("failed to encode verification QR",
					zap.String("reference", order.Reference),
					zap.Error(qerr),
				)
			} else {
				verification.QRPNG = png
			}
		}
		receipt.Verification = verification
	}

	return receipt, nil
}

// tenderLines lists only the tenders actually used.
func tenderLines(order *entity.Order) []entity.ReceiptTender {
	var tenders []entity.ReceiptTender
	add := func(method string, cents int64) {
		if cents != 0 {
			tenders = append(tenders, entity.ReceiptTender{Method: method, Amount: float64(cents) / 100})
		}
	}
	add("Cash", order.CashAmount)
	add("Card", order.CardAmount)
	add("Mobile", order.MobileAmount)
	if len(tenders) == 0 {
		add(capitalize(string(order.PaymentMethod)), order.TotalAmount)
	}
	return tenders
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatESCPOS turns a receipt into the printer byte stream.
func (s *ReceiptService) FormatESCPOS(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.charWidth)
	money := func(v float64) string {
		return fmt.Sprintf("%s %.2f", r.Currency, v)
	}

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TIN != "" {
		doc.TextF("TIN: %s", r.Header.TIN)
	}
	if r.Header.VATNumber != "" {
		doc.TextF("VAT: %s", r.Header.VATNumber)
	}

	doc.SetAlign(printer.AlignLeft).Separator('-')
	if r.IsRefund {
		doc.SetAlign(printer.AlignCenter).SetBold(true).
			Text("*** REFUND ***").
			SetBold(false).SetAlign(printer.AlignLeft)
	}
	doc.KeyValue("Receipt", r.Reference)
	doc.KeyValue("Date", r.Date)
	if r.SessionName != "" {
		doc.KeyValue("Session", r.SessionName)
	}
	if r.Cashier != "" {
		doc.KeyValue("Cashier", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer", r.Customer)
	}
	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, money(item.Total))
		if item.DiscountPct > 0 || item.Quantity > 1 {
			doc.ItemDetail(item.Quantity, money(item.UnitPrice), item.DiscountPct, item.VATRate)
		}
	}

	doc.Separator('-')
	doc.KeyValue("Subtotal", money(r.SubTotal))
	if r.Discount != 0 {
		doc.KeyValue("Discount", money(-r.Discount))
	}
	doc.KeyValue("Tax", money(r.Tax))
	doc.SetBold(true).KeyValue("TOTAL", money(r.Total)).SetBold(false)
	doc.Separator('-')

	for _, t := range r.Tenders {
		doc.KeyValue(t.Method, money(t.Amount))
	}
	if r.Change > 0 {
		doc.KeyValue("Change", money(r.Change))
	}

	if r.Verification != nil {
		doc.Separator('-')
		doc.SetAlign(printer.AlignCenter)
		doc.TextF("Verification: %s", r.Verification.Code)
		if r.Verification.URL != "" {
			doc.QRCode(r.Verification.URL)
		}
		doc.SetAlign(printer.AlignLeft)
	}

	doc.LineFeed().
		SetAlign(printer.AlignCenter).
		Text("Thank you for your purchase").
		FeedLines(3).
		Cut()

	return doc.Bytes()
}

// Print renders the order's receipt and sends it to the configured
// printer. Reprint-safe: the order is never mutated.
func (s *ReceiptService) Print(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.Render(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.printer.Print(s.FormatESCPOS(receipt)); err != nil {
		s.logger.Error("receipt print failed",
			zap.String("reference", receipt.Reference),
			zap.Error(err),
		)
		return receipt, apperror.NewUpstreamError("Printer unavailable: " + err.Error())
	}
	return receipt, nil
}
