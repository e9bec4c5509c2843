package entity

// ReceiptHeader holds the merchant header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TIN       string `json:"tin,omitempty"`
	VATNumber string `json:"vat_number,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	DiscountPct float64 `json:"discount,omitempty"`
	VATRate     float64 `json:"vat_rate"`
	Total       float64 `json:"total"`
}

// ReceiptTender is one paid tender line. Only non-zero tenders appear
// on a receipt.
type ReceiptTender struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// ReceiptVerification carries the fiscal certificate of a fiscalized
// sale: the human-readable code, the lookup URL and a QR encoding of
// that URL.
type ReceiptVerification struct {
	Code  string `json:"code"`
	URL   string `json:"url"`
	QRPNG []byte `json:"qr_png,omitempty"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity — it is rendered from a persisted order
// plus company/device/session context, deterministically: the same
// order always yields the same receipt, and reprinting has no side
// effects.
type Receipt struct {
	Header       ReceiptHeader        `json:"header"`
	Reference    string               `json:"reference"`
	Date         string               `json:"date"`
	SessionName  string               `json:"session_name,omitempty"`
	DeviceSerial string               `json:"device_serial,omitempty"`
	Cashier      string               `json:"cashier,omitempty"`
	Customer     string               `json:"customer,omitempty"`
	Currency     string               `json:"currency"`
	IsRefund     bool                 `json:"is_refund"`
	Items        []ReceiptItem        `json:"items"`
	SubTotal     float64              `json:"sub_total"`
	Discount     float64              `json:"discount"`
	Tax          float64              `json:"tax"`
	Total        float64              `json:"total"`
	Tenders      []ReceiptTender      `json:"tenders"`
	Change       float64              `json:"change"`
	Verification *ReceiptVerification `json:"verification,omitempty"`
}
