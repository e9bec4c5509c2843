package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/takudzwan/fiscalpos-api/internal/config"
	"github.com/takudzwan/fiscalpos-api/internal/domain/repository"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/handler"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/middleware"
	"github.com/takudzwan/fiscalpos-api/pkg/utils"
)

// Handlers groups all HTTP handlers for route registration
type Handlers struct {
	Session  *handler.SessionHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Catalog  *handler.CatalogHandler
	Customer *handler.CustomerHandler
	Cashier  *handler.CashierHandler
	Display  *handler.DisplayHandler
	Receipt  *handler.ReceiptHandler
}

// Deps holds the cross-cutting dependencies routes need
type Deps struct {
	Config          *config.Config
	Logger          *zap.Logger
	JWTManager      *utils.JWTManager
	IdempotencyRepo repository.IdempotencyRepository
}

// Setup builds the router with all middleware and routes registered
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	if deps.Config.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.Config.CORS.AllowedOrigins,
		AllowMethods:     deps.Config.CORS.AllowedMethods,
		AllowHeaders:     deps.Config.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-Idempotency-Replayed"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	generalLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: deps.Config.RateLimit.RequestsPerSecond,
		BurstSize:         deps.Config.RateLimit.Burst,
	})
	router.Use(generalLimiter.Middleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	pos := v1.Group("/pos")

	registerAuthRoutes(pos, h, deps)
	registerSessionRoutes(pos, h)
	registerCartRoutes(pos, h)
	registerOrderRoutes(pos, h, deps)
	registerCatalogRoutes(pos, h)
	registerCustomerRoutes(pos, h)
	registerCashierRoutes(pos, h, deps)
	registerDisplayRoutes(pos, h)

	return router
}

// registerAuthRoutes wires the PIN pad. PIN attempts get their own,
// much tighter limiter.
func registerAuthRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	pinLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: deps.Config.RateLimit.PINAttemptsPerMinute / 60,
		BurstSize:         deps.Config.RateLimit.PINBurst,
	})
	rg.POST("/verify-pin", pinLimiter.Middleware(), h.Session.VerifyPIN)
}

func registerSessionRoutes(rg *gin.RouterGroup, h *Handlers) {
	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.Session.Open)
		sessions.GET("", h.Session.List)
		sessions.GET("/current", h.Session.Current)
		sessions.GET("/:id", h.Session.Get)
		sessions.GET("/:id/summary", h.Session.Summary)
		sessions.POST("/:id/close", h.Session.Close)
	}
}

func registerCartRoutes(rg *gin.RouterGroup, h *Handlers) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/lines", h.Cart.AddProduct)
		cart.POST("/scan", h.Cart.Scan)
		cart.PUT("/lines/:lineId/quantity", h.Cart.SetQuantity)
		cart.PUT("/lines/:lineId/discount", h.Cart.SetDiscount)
		cart.PUT("/lines/:lineId/price", h.Cart.SetUnitPrice)
		cart.DELETE("/lines/:lineId", h.Cart.RemoveLine)
	}
}

func registerOrderRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	orders := rg.Group("/orders")
	{
		// Checkout must carry an Idempotency-Key so a network retry
		// replays the original response instead of ringing twice.
		orders.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
			TTL:  deps.Config.POS.IdempotencyTTL,
		}), h.Order.Submit)
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/fiscalize", h.Order.Fiscalize)
		orders.POST("/:id/refund", h.Order.Refund)
		orders.GET("/:id/receipt", h.Receipt.Render)
		orders.POST("/:id/receipt/print", h.Receipt.Print)
	}
}

func registerCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/products", h.Catalog.SearchProducts)
	rg.GET("/products/:id", h.Catalog.GetProduct)
	rg.GET("/categories", h.Catalog.ListCategories)
	rg.GET("/company", h.Catalog.Company)
	rg.GET("/devices", h.Catalog.ListDevices)
}

func registerCustomerRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/customers", h.Customer.Search)
	rg.GET("/customers/:id", h.Customer.Get)
}

// registerCashierRoutes wires the roster. Reading the roster is open
// (the PIN pad needs it before anyone is signed in); editing it is a
// back-office operation behind JWT auth.
func registerCashierRoutes(rg *gin.RouterGroup, h *Handlers, deps *Deps) {
	cashiers := rg.Group("/cashiers")
	cashiers.GET("", h.Cashier.List)

	managed := cashiers.Group("")
	managed.Use(middleware.AuthMiddleware(deps.JWTManager))
	managed.Use(middleware.RequireRole("admin", "manager"))
	{
		managed.POST("", h.Cashier.Create)
		managed.PUT("/:id", h.Cashier.Update)
		managed.DELETE("/:id", h.Cashier.Delete)
	}
}

func registerDisplayRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/display/ws", h.Display.Stream)
	rg.GET("/display/snapshot", h.Display.Snapshot)
}
