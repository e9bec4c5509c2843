package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Cashier is a POS employee identified by a short PIN on the terminal.
// The PIN is stored as a bcrypt hash and never serialized or logged.
type Cashier struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID        `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Role      enum.CashierRole `gorm:"size:50;default:'cashier'" json:"role"`
	PINHash   string           `gorm:"size:255;not null" json:"-"`
	IsActive  bool             `gorm:"default:true" json:"is_active"`
	SortOrder int              `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new cashier
func (c *Cashier) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Cashier model
func (Cashier) TableName() string {
	return "cashiers"
}
