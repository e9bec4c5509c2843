package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/request"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// CartHandler exposes the live-cart endpoints. The cart lives in
// memory on the server; every mutation returns the full cart so the
// till never has to reconcile partial state.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Get handles GET /pos/cart
func (h *CartHandler) Get(c *gin.Context) {
	response.OK(c, "Cart retrieved", h.carts.Get(terminalID(c)))
}

// AddProduct handles POST /pos/cart/lines
func (h *CartHandler) AddProduct(c *gin.Context) {
	var req request.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.carts.AddProduct(c.Request.Context(), terminalID(c), req.ProductID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product added", cart)
}

// Scan handles POST /pos/cart/scan
func (h *CartHandler) Scan(c *gin.Context) {
	var req request.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Code is required")
		return
	}

	cart, err := h.carts.Scan(c.Request.Context(), terminalID(c), req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product scanned", cart)
}

// SetQuantity handles PUT /pos/cart/lines/:lineId/quantity
func (h *CartHandler) SetQuantity(c *gin.Context) {
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.carts.SetQuantity(c.Request.Context(), terminalID(c), lineID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Quantity updated", cart)
}

// SetDiscount handles PUT /pos/cart/lines/:lineId/discount
func (h *CartHandler) SetDiscount(c *gin.Context) {
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Discount must be between 0 and 100")
		return
	}

	cart, err := h.carts.SetDiscount(c.Request.Context(), terminalID(c), lineID, req.Discount)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Discount updated", cart)
}

// SetUnitPrice handles PUT /pos/cart/lines/:lineId/price
func (h *CartHandler) SetUnitPrice(c *gin.Context) {
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	var req request.SetUnitPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Unit price must be zero or more")
		return
	}

	cart, err := h.carts.SetUnitPrice(c.Request.Context(), terminalID(c), lineID, request.Cents(req.UnitPrice))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Price updated", cart)
}

// RemoveLine handles DELETE /pos/cart/lines/:lineId
func (h *CartHandler) RemoveLine(c *gin.Context) {
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		response.BadRequest(c, "Invalid line ID")
		return
	}

	cart, err := h.carts.RemoveLine(c.Request.Context(), terminalID(c), lineID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed", cart)
}

// Clear handles DELETE /pos/cart
func (h *CartHandler) Clear(c *gin.Context) {
	cart := h.carts.Clear(c.Request.Context(), terminalID(c))
	response.OK(c, "Cart cleared", cart)
}
