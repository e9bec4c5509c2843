package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/request"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

// SessionHandler exposes the cash-drawer session endpoints
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// VerifyPIN handles POST /pos/verify-pin
func (h *SessionHandler) VerifyPIN(c *gin.Context) {
	var req request.VerifyPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "PIN is required")
		return
	}

	identity, err := h.sessions.VerifyPIN(c.Request.Context(), req.PIN)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "PIN verified", identity)
}

// Open handles POST /pos/sessions
func (h *SessionHandler) Open(c *gin.Context) {
	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessions.Open(c.Request.Context(), &service.OpenSessionInput{
		OpenedByID:     req.OpenedByID,
		DeviceID:       req.DeviceID,
		OpeningBalance: request.Cents(req.OpeningBalance),
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Session opened", session)
}

// Close handles POST /pos/sessions/:id/close
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.sessions.Close(c.Request.Context(), id, &service.CloseSessionInput{
		ClosedByID:     req.ClosedByID,
		ClosingBalance: request.Cents(req.ClosingBalance),
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session closed", result)
}

// Current handles GET /pos/sessions/current
func (h *SessionHandler) Current(c *gin.Context) {
	session, err := h.sessions.Current(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if session == nil {
		response.NotFound(c, "No open session")
		return
	}
	response.OK(c, "Current session", session)
}

// Get handles GET /pos/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session retrieved", session)
}

// Summary handles GET /pos/sessions/:id/summary
func (h *SessionHandler) Summary(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	summary, err := h.sessions.GetSummary(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session summary", summary)
}

// List handles GET /pos/sessions
func (h *SessionHandler) List(c *gin.Context) {
	var status *enum.SessionStatus
	switch c.Query("status") {
	case "open":
		s := enum.SessionStatusOpen
		status = &s
	case "closed":
		s := enum.SessionStatusClosed
		status = &s
	}

	result, err := h.sessions.List(c.Request.Context(), status, parsePagination(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Sessions retrieved", result)
}
