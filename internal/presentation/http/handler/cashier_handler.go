package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/request"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// CashierHandler exposes the employee roster endpoints
type CashierHandler struct {
	cashiers *service.CashierService
}

// NewCashierHandler creates a new cashier handler
func NewCashierHandler(cashiers *service.CashierService) *CashierHandler {
	return &CashierHandler{cashiers: cashiers}
}

// List handles GET /pos/cashiers
func (h *CashierHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	cashiers, err := h.cashiers.List(c.Request.Context(), includeInactive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashiers retrieved", cashiers)
}

// Create handles POST /pos/cashiers
func (h *CashierHandler) Create(c *gin.Context) {
	var req request.CreateCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cashier, err := h.cashiers.Create(c.Request.Context(), &service.CreateCashierInput{
		Name:      req.Name,
		Role:      enum.CashierRole(req.Role),
		PIN:       req.PIN,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Cashier created", cashier)
}

// Update handles PUT /pos/cashiers/:id
func (h *CashierHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashier ID")
		return
	}

	var req request.UpdateCashierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateCashierInput{
		Name:      req.Name,
		PIN:       req.PIN,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
	if req.Role != nil {
		role := enum.CashierRole(*req.Role)
		input.Role = &role
	}

	cashier, err := h.cashiers.Update(c.Request.Context(), id, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cashier updated", cashier)
}

// Delete handles DELETE /pos/cashiers/:id
func (h *CashierHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid cashier ID")
		return
	}

	if err := h.cashiers.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
