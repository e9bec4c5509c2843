package request

import (
	"math"

	"github.com/google/uuid"
)

// Cents converts a decimal money amount from the wire into cents.
func Cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// VerifyPINRequest is the PIN pad submission.
type VerifyPINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// OpenSessionRequest opens a cash-drawer session.
type OpenSessionRequest struct {
	OpenedByID     uuid.UUID  `json:"opened_by_id" binding:"required"`
	DeviceID       *uuid.UUID `json:"device_id"`
	OpeningBalance float64    `json:"opening_balance" binding:"gte=0"`
	Notes          string     `json:"notes"`
}

// CloseSessionRequest closes a cash-drawer session with the counted
// cash amount.
type CloseSessionRequest struct {
	ClosedByID     uuid.UUID `json:"closed_by_id" binding:"required"`
	ClosingBalance float64   `json:"closing_balance" binding:"gte=0"`
	Notes          string    `json:"notes"`
}

// AddToCartRequest adds a product to the live cart.
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity"`
}

// ScanRequest resolves a barcode or reference code into a cart line.
type ScanRequest struct {
	Code string `json:"code" binding:"required"`
}

// SetQuantityRequest replaces a cart line's quantity. Zero removes
// the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetDiscountRequest sets a cart line's discount percentage.
type SetDiscountRequest struct {
	Discount float64 `json:"discount" binding:"gte=0,lte=100"`
}

// SetUnitPriceRequest overrides a cart line's unit price with a
// decimal money amount.
type SetUnitPriceRequest struct {
	UnitPrice float64 `json:"unit_price" binding:"gte=0"`
}

// SubmitOrderRequest is the checkout payload. Amounts are decimal
// money; only the amounts for the chosen method(s) need be present.
type SubmitOrderRequest struct {
	SessionID     uuid.UUID  `json:"session_id" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required"`
	CashAmount    float64    `json:"cash_amount" binding:"gte=0"`
	CardAmount    float64    `json:"card_amount" binding:"gte=0"`
	MobileAmount  float64    `json:"mobile_amount" binding:"gte=0"`
	CustomerID    *uuid.UUID `json:"customer_id"`
	CashierID     *uuid.UUID `json:"cashier_id"`
	AutoFiscalize bool       `json:"auto_fiscalize"`
	Notes         string     `json:"notes"`
}

// RefundOrderRequest issues a full refund of a completed order. The
// reason is mandatory free text; its content is not validated.
type RefundOrderRequest struct {
	CashierID *uuid.UUID `json:"cashier_id"`
	Reason    string     `json:"reason" binding:"required"`
}

// CreateCashierRequest enrolls a new POS employee.
type CreateCashierRequest struct {
	Name      string `json:"name" binding:"required"`
	Role      string `json:"role"`
	PIN       string `json:"pin" binding:"required,min=4"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCashierRequest edits a POS employee. Nil fields are unchanged.
type UpdateCashierRequest struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	PIN       *string `json:"pin"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}
