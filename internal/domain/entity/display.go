package entity

// DisplayLine is one cart row as shown on the customer display.
type DisplayLine struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"qty"`
	UnitPrice   float64 `json:"price"`
	DiscountPct float64 `json:"discount"`
	VATRate     float64 `json:"vat_rate"`
	ImageURL    string  `json:"image_url"`
	SubTotal    float64 `json:"subtotal"`
	Total       float64 `json:"total"`
}

// DisplaySnapshot is the full cart state broadcast to the customer
// display on every mutation. Snapshots are complete, not deltas, so a
// receiver that misses one simply renders the next.
type DisplaySnapshot struct {
	Type        string        `json:"type"` // always "pos-cart-update"
	Cart        []DisplayLine `json:"cart"`
	SubTotal    float64       `json:"subtotal"`
	Tax         float64       `json:"tax"`
	Total       float64       `json:"total"`
	CompanyName string        `json:"companyName"`
	CompanyLogo string        `json:"companyLogo"`
	// IdleText is only set on empty-cart snapshots; displays show it
	// as the welcome screen between sales.
	IdleText string `json:"idle_text,omitempty"`
}

// DisplaySnapshotType is the message discriminator for display feeds.
const DisplaySnapshotType = "pos-cart-update"
