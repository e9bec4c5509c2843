package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/takudzwan/fiscalpos-api/pkg/pagination"
)

// TerminalIDHeader names the header identifying the sending terminal.
// Every till keeps its own cart, so the header scopes cart routes.
const TerminalIDHeader = "X-Terminal-ID"

// terminalID returns the caller's terminal identifier, defaulting to a
// single shared till when the header is absent.
func terminalID(c *gin.Context) string {
	if id := c.GetHeader(TerminalIDHeader); id != "" {
		return id
	}
	return "terminal-1"
}

// parseUUIDParam parses a UUID path parameter.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination binds page/per_page query parameters.
func parsePagination(c *gin.Context) *pagination.PaginationParams {
	params := pagination.DefaultPagination()
	_ = c.ShouldBindQuery(params)
	params.Validate()
	return params
}
