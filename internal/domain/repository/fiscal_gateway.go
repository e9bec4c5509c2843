package repository

import (
	"context"

	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
)

// FiscalReceipt is the certificate returned by the fiscal authority
// for a submitted sale.
type FiscalReceipt struct {
	ReceiptID        string
	VerificationCode string
	VerificationURL  string
}

// FiscalGateway submits completed sales to the government fiscal
// device service. The engine does not implement the device protocol;
// this is the seam to whatever does. Submission failures are expected
// and recoverable — the pipeline attaches them to the order and moves
// on, never failing the sale itself.
type FiscalGateway interface {
	// SubmitSale certifies an order (or credit note) on the given
	// device. Delivery is at-most-once per call; the caller owns retry.
	SubmitSale(ctx context.Context, device *entity.Device, order *entity.Order) (*FiscalReceipt, error)
}
