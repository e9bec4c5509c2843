package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// CatalogHandler exposes the product grid, categories, company
// profile and fiscal device endpoints
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// SearchProducts handles GET /pos/products
func (h *CatalogHandler) SearchProducts(c *gin.Context) {
	var categoryID *uuid.UUID
	if id, err := uuid.Parse(c.Query("category_id")); err == nil {
		categoryID = &id
	}

	limit := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}

	products, err := h.catalog.SearchProducts(c.Request.Context(), c.Query("search"), categoryID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Products retrieved", products)
}

// GetProduct handles GET /pos/products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Product retrieved", product)
}

// ListCategories handles GET /pos/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Categories retrieved", categories)
}

// Company handles GET /pos/company
func (h *CatalogHandler) Company(c *gin.Context) {
	company, err := h.catalog.Company(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Company retrieved", company)
}

// ListDevices handles GET /pos/devices
func (h *CatalogHandler) ListDevices(c *gin.Context) {
	devices, err := h.catalog.ListDevices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Devices retrieved", devices)
}
