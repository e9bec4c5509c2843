package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/internal/domain/tender"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/request"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// OrderHandler exposes the order pipeline endpoints
type OrderHandler struct {
	orders    *service.OrderService
	companyID uuid.UUID
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *service.OrderService, companyID uuid.UUID) *OrderHandler {
	return &OrderHandler{orders: orders, companyID: companyID}
}

// Submit handles POST /pos/orders
func (h *OrderHandler) Submit(c *gin.Context) {
	var req request.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	order, err := h.orders.Submit(c.Request.Context(), &service.SubmitOrderInput{
		TerminalID:    terminalID(c),
		SessionID:     req.SessionID,
		PaymentMethod: enum.PaymentMethod(req.PaymentMethod),
		Tender: tender.Amounts{
			Cash:   request.Cents(req.CashAmount),
			Card:   request.Cents(req.CardAmount),
			Mobile: request.Cents(req.MobileAmount),
		},
		CustomerID:    req.CustomerID,
		CashierID:     req.CashierID,
		AutoFiscalize: req.AutoFiscalize,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order completed", order)
}

// Get handles GET /pos/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order retrieved", order)
}

// List handles GET /pos/orders
func (h *OrderHandler) List(c *gin.Context) {
	params := &repository.OrderFilterParams{Pagination: parsePagination(c)}

	if sessionID, err := uuid.Parse(c.Query("session_id")); err == nil {
		params.SessionID = &sessionID
	}
	switch c.Query("status") {
	case "completed":
		s := enum.OrderStatusCompleted
		params.Status = &s
	case "refunded":
		s := enum.OrderStatusRefunded
		params.Status = &s
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		params.StartDate = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		params.EndDate = &to
	}

	result, err := h.orders.List(c.Request.Context(), h.companyID, params)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Orders retrieved", result)
}

// Fiscalize handles POST /pos/orders/:id/fiscalize
func (h *OrderHandler) Fiscalize(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	order, err := h.orders.RetryFiscalize(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Order fiscalized", order)
}

// Refund handles POST /pos/orders/:id/refund
func (h *OrderHandler) Refund(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid order ID")
		return
	}

	var req request.RefundOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	refund, err := h.orders.Refund(c.Request.Context(), id, &service.RefundInput{
		CashierID: req.CashierID,
		Reason:    req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order refunded", refund)
}
