package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// ReceiptHandler exposes receipt rendering and printing
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

// Render handles GET /pos/orders/:id/receipt
func (h *ReceiptHandler) Render(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipt, err := h.receipts.Render(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt rendered", receipt)
}

// Print handles POST /pos/orders/:id/receipt/print. Safe to repeat:
// printing never mutates the order.
func (h *ReceiptHandler) Print(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	receipt, err := h.receipts.Print(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", receipt)
}
