package entity

import (
	"github.com/google/uuid"
	"github.com/takudzwan/fiscalpos-api/internal/domain/pricing"
)

// CartLine is a mutable, in-memory line of the live cart. Price, VAT
// rate and descriptive fields are snapshots copied from the catalog at
// add-time. Line IDs are generated once and never reused, so display
// diffing stays stable across mutations.
type CartLine struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	Name        string    `json:"name"`
	Barcode     string    `json:"barcode"`
	Reference   string    `json:"reference"`
	UOM         string    `json:"uom"`
	ImageURL    string    `json:"image_url"`
	UnitPrice   int64     `json:"unit_price"` // cents
	Quantity    int       `json:"quantity"`
	DiscountPct float64   `json:"discount"`
	VATRate     float64   `json:"vat_rate"`
}

// Amounts computes the line's money fields.
func (l *CartLine) Amounts() pricing.LineAmounts {
	return pricing.ComputeLine(l.Quantity, l.UnitPrice, l.DiscountPct, l.VATRate)
}

// Cart is the live, not-yet-submitted sale on a terminal. It is
// locally authoritative until submission; nothing here is persisted.
type Cart struct {
	TerminalID string     `json:"terminal_id"`
	CompanyID  uuid.UUID  `json:"company_id"`
	Lines      []CartLine `json:"lines"`
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Totals aggregates all line amounts.
func (c *Cart) Totals() pricing.CartTotals {
	var t pricing.CartTotals
	for i := range c.Lines {
		t = t.Accumulate(c.Lines[i].Amounts())
	}
	return t
}

// FindLine returns the line with the given id, or nil.
func (c *Cart) FindLine(lineID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// FindProductLine returns the line holding the given product, or nil.
// The cart keeps at most one line per product (merge-on-add).
func (c *Cart) FindProductLine(productID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
