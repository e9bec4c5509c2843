package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order is an immutable record of a completed sale. Once persisted,
// only the fiscal status, fiscal error text and the completed→refunded
// status flip may change; amounts and lines never do. A refund is a
// sibling order with negated amounts and a back-reference.
type Order struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SessionID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"session_id"`
	CompanyID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	CustomerID       *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CashierID        *uuid.UUID         `gorm:"type:uuid" json:"cashier_id,omitempty"`
	RefundOfID       *uuid.UUID         `gorm:"type:uuid;index" json:"refund_of_id,omitempty"`
	Reference        string             `gorm:"size:100;unique;not null" json:"reference"`
	Status           enum.OrderStatus   `gorm:"default:0" json:"status"`
	FiscalStatus     enum.FiscalStatus  `gorm:"default:0" json:"fiscal_status"`
	FiscalError      string             `gorm:"type:text" json:"fiscal_error"`
	FiscalReceiptID  string             `gorm:"size:100" json:"fiscal_receipt_id"`
	VerificationCode string             `gorm:"size:100" json:"verification_code"`
	VerificationURL  string             `gorm:"size:512" json:"verification_url"`
	OrderDate        time.Time          `gorm:"not null;index" json:"order_date"`
	Currency         string             `gorm:"size:10;default:'USD'" json:"currency"`
	PaymentMethod    enum.PaymentMethod `gorm:"size:20;default:'cash'" json:"payment_method"`
	SubTotal         int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	DiscountAmount   int64              `gorm:"default:0" json:"-"`
	TaxAmount        int64              `gorm:"default:0" json:"-"`
	TotalAmount      int64              `gorm:"default:0" json:"-"`
	CashAmount       int64              `gorm:"default:0" json:"-"`
	CardAmount       int64              `gorm:"default:0" json:"-"`
	MobileAmount     int64              `gorm:"default:0" json:"-"`
	ChangeAmount     int64              `gorm:"default:0" json:"-"`
	Notes            string             `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`

	Session  Session     `gorm:"foreignKey:SessionID" json:"-"`
	Customer *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Lines    []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		TaxAmount      float64 `json:"tax_amount"`
		TotalAmount    float64 `json:"total_amount"`
		CashAmount     float64 `json:"cash_amount"`
		CardAmount     float64 `json:"card_amount"`
		MobileAmount   float64 `json:"mobile_amount"`
		ChangeAmount   float64 `json:"change_amount"`
	}{
		Alias:          Alias(o),
		SubTotal:       float64(o.SubTotal) / 100,
		DiscountAmount: float64(o.DiscountAmount) / 100,
		TaxAmount:      float64(o.TaxAmount) / 100,
		TotalAmount:    float64(o.TotalAmount) / 100,
		CashAmount:     float64(o.CashAmount) / 100,
		CardAmount:     float64(o.CardAmount) / 100,
		MobileAmount:   float64(o.MobileAmount) / 100,
		ChangeAmount:   float64(o.ChangeAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "pos_orders"
}

// IsFiscalized reports whether the order carries a fiscal certificate.
func (o *Order) IsFiscalized() bool {
	return o.FiscalStatus == enum.FiscalStatusFiscalized
}

// IsRefundable reports whether a refund may still be issued. Refunds
// of refunds (negative totals) are out of scope.
func (o *Order) IsRefundable() bool {
	return o.Status != enum.OrderStatusRefunded && o.TotalAmount > 0
}

// OrderLine is a snapshot of a cart line at submission time.
type OrderLine struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   *uuid.UUID     `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Description string         `gorm:"size:255;not null" json:"description"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UOM         string         `gorm:"size:50;default:'Units'" json:"uom"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	DiscountPct float64        `gorm:"default:0" json:"discount"`
	VATRate     float64        `gorm:"default:0" json:"vat_rate"`
	SubTotal    int64          `gorm:"not null" json:"-"`
	TaxAmount   int64          `gorm:"not null" json:"-"`
	TotalPrice  int64          `gorm:"not null" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order    `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (l OrderLine) MarshalJSON() ([]byte, error) {
	type Alias OrderLine
	return json.Marshal(&struct {
		Alias
		UnitPrice  float64 `json:"unit_price"`
		SubTotal   float64 `json:"sub_total"`
		TaxAmount  float64 `json:"tax_amount"`
		TotalPrice float64 `json:"total_price"`
	}{
		Alias:      Alias(l),
		UnitPrice:  float64(l.UnitPrice) / 100,
		SubTotal:   float64(l.SubTotal) / 100,
		TaxAmount:  float64(l.TaxAmount) / 100,
		TotalPrice: float64(l.TotalPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order line
func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderLine model
func (OrderLine) TableName() string {
	return "pos_order_lines"
}
