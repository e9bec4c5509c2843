package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a sellable catalog item. The cart copies its price and
// VAT rate at add-time, so later catalog edits never reprice lines
// already rung up.
type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	CategoryID     *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	Barcode        string         `gorm:"size:100;index" json:"barcode"`
	Reference      string         `gorm:"size:100;index" json:"reference"`
	UOM            string         `gorm:"size:50;default:'Units'" json:"uom"`
	SalePrice      int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	VATRate        float64        `gorm:"default:0" json:"vat_rate"`
	TrackInventory bool           `gorm:"default:false" json:"track_inventory"`
	OnHand         int            `gorm:"default:0" json:"on_hand"`
	ImageURL       string         `gorm:"size:512" json:"image_url"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Company  Company   `gorm:"foreignKey:CompanyID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SalePrice float64 `json:"sale_price"`
	}{
		Alias:     Alias(p),
		SalePrice: float64(p.SalePrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// GetSalePriceDecimal returns the sale price as a decimal (for display)
func (p *Product) GetSalePriceDecimal() float64 {
	return float64(p.SalePrice) / 100
}

// SetSalePriceFromDecimal sets the sale price from a decimal value
func (p *Product) SetSalePriceFromDecimal(price float64) {
	p.SalePrice = int64(price * 100)
}

// Category groups products for the POS filter rail.
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
