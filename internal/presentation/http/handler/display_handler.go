package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/dto/response"
)

const (
	displayWriteWait = 10 * time.Second
	displayPingEvery = 30 * time.Second
)

// DisplayHandler streams live-cart snapshots to customer displays over
// WebSocket. Displays are read-only clients; anything they send is
// drained and ignored.
type DisplayHandler struct {
	display  *service.DisplayService
	carts    *service.CartService
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(display *service.DisplayService, carts *service.CartService, logger *zap.Logger) *DisplayHandler {
	return &DisplayHandler{
		display: display,
		carts:   carts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Displays live on the shop LAN, often served from file://
			// or a kiosk origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Stream handles GET /pos/display/ws
func (h *DisplayHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("display upgrade failed", zap.Error(err))
		return
	}

	snapshots, cancel := h.display.Subscribe()
	defer cancel()
	defer conn.Close()

	h.logger.Info("customer display attached",
		zap.String("remote", conn.RemoteAddr().String()),
		zap.Int("displays", h.display.SubscriberCount()),
	)

	// Drain reads so pings/pongs and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(displayPingEvery)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-snapshots:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(displayWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(displayWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				h.logger.Debug("display write failed, detaching", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(displayWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Snapshot handles GET /pos/display/snapshot. Polling fallback for
// displays that cannot hold a WebSocket.
func (h *DisplayHandler) Snapshot(c *gin.Context) {
	cart := h.carts.Get(terminalID(c))
	response.OK(c, "Display snapshot", h.display.Snapshot(c.Request.Context(), cart))
}
