package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Session is a single cash-drawer shift from open to close. Running
// totals are only ever advanced by completed orders and refunds;
// closing is terminal and records the counted balance alongside the
// expected one without blocking on a mismatch.
type Session struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"company_id"`
	DeviceID         *uuid.UUID         `gorm:"type:uuid;index" json:"device_id,omitempty"`
	OpenedByID       uuid.UUID          `gorm:"type:uuid;not null" json:"opened_by_id"`
	ClosedByID       *uuid.UUID         `gorm:"type:uuid" json:"closed_by_id,omitempty"`
	Name             string             `gorm:"size:100;unique;not null" json:"name"`
	Status           enum.SessionStatus `gorm:"default:0" json:"status"`
	OpenedAt         time.Time          `gorm:"not null" json:"opened_at"`
	ClosedAt         *time.Time         `json:"closed_at,omitempty"`
	OpeningBalance   int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ClosingBalance   *int64             `json:"-"`                  // Stored in cents, excluded from JSON
	TotalSales       int64              `gorm:"default:0" json:"-"`
	TotalReturns     int64              `gorm:"default:0" json:"-"`
	TotalCash        int64              `gorm:"default:0" json:"-"`
	TotalCard        int64              `gorm:"default:0" json:"-"`
	TotalMobile      int64              `gorm:"default:0" json:"-"`
	TransactionCount int                `gorm:"default:0" json:"transaction_count"`
	Notes            string             `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
	Device  *Device `gorm:"foreignKey:DeviceID" json:"device,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Session) MarshalJSON() ([]byte, error) {
	type Alias Session
	out := &struct {
		Alias
		OpeningBalance float64  `json:"opening_balance"`
		ClosingBalance *float64 `json:"closing_balance,omitempty"`
		TotalSales     float64  `json:"total_sales"`
		TotalReturns   float64  `json:"total_returns"`
		TotalCash      float64  `json:"total_cash"`
		TotalCard      float64  `json:"total_card"`
		TotalMobile    float64  `json:"total_mobile"`
	}{
		Alias:          Alias(s),
		OpeningBalance: float64(s.OpeningBalance) / 100,
		TotalSales:     float64(s.TotalSales) / 100,
		TotalReturns:   float64(s.TotalReturns) / 100,
		TotalCash:      float64(s.TotalCash) / 100,
		TotalMobile:    float64(s.TotalMobile) / 100,
		TotalCard:      float64(s.TotalCard) / 100,
	}
	if s.ClosingBalance != nil {
		closing := float64(*s.ClosingBalance) / 100
		out.ClosingBalance = &closing
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new session
func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Session model
func (Session) TableName() string {
	return "pos_sessions"
}

// IsOpen reports whether the session can still take orders.
func (s *Session) IsOpen() bool {
	return s.Status == enum.SessionStatusOpen
}

// ExpectedCash is what the drawer should hold: opening float plus cash
// sales minus cash handed back on refunds.
func (s *Session) ExpectedCash() int64 {
	return s.OpeningBalance + s.TotalCash - s.TotalReturns
}

// Difference is the counted-vs-expected drawer delta. It is advisory
// only; closing proceeds regardless of its value.
func (s *Session) Difference(closingBalance int64) int64 {
	return closingBalance - s.ExpectedCash()
}
