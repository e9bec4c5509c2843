package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// CustomerHandler exposes the customer picker endpoints
type CustomerHandler struct {
	customers *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// Search handles GET /pos/customers. A query superseded by a newer
// keystroke gets 204, telling the till to simply ignore it.
func (h *CustomerHandler) Search(c *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}

	customers, err := h.customers.Search(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		if errors.Is(err, service.ErrSearchSuperseded) {
			response.NoContent(c)
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Customers retrieved", customers)
}

// Get handles GET /pos/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer retrieved", customer)
}
