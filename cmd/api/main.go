package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/takudzwan/fiscalpos-api/internal/application/service"
	"github.com/takudzwan/fiscalpos-api/internal/config"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/infrastructure/database"
	"github.com/takudzwan/fiscalpos-api/internal/infrastructure/fiscal"
	"github.com/takudzwan/fiscalpos-api/internal/infrastructure/repository"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/handler"
	"github.com/takudzwan/fiscalpos-api/internal/presentation/http/routes"
	"github.com/takudzwan/fiscalpos-api/pkg/printer"
	"github.com/takudzwan/fiscalpos-api/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck

	gormLevel := gormlogger.Warn
	if !cfg.App.IsProduction() {
		gormLevel = gormlogger.Info
	}

	db, err := database.NewPostgresDB(&cfg.Database, gormLevel)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	if err := database.SeedDefaultData(db); err != nil {
		logger.Warn("failed to seed default data", zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	// Repositories
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderLineRepo := repository.NewOrderLineRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cashierRepo := repository.NewCashierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	companyID := resolveCompanyID(cfg, db, logger)

	// Fiscal gateway
	fiscalClient := fiscal.NewClient(&cfg.Fiscal, logger)

	// Thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		logger.Warn("failed to initialize printer, falling back to null printer", zap.Error(err))
		thermalPrinter = printer.NewNullPrinter()
	}

	// Services
	displayService := service.NewDisplayService(companyRepo, companyID, cfg.POS.DisplayIdleText, logger)
	cartService := service.NewCartService(productRepo, displayService, companyID, logger)
	sessionService := service.NewSessionService(sessionRepo, cashierRepo, deviceRepo, companyID, logger)
	orderService := service.NewOrderService(orderRepo, orderLineRepo, sessionRepo, productRepo, customerRepo, deviceRepo, fiscalClient, cartService, cfg.POS.Currency, logger)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, companyRepo, deviceRepo, companyID, logger)
	customerService := service.NewCustomerService(customerRepo, companyID, cfg.POS.SearchDebounce, logger)
	cashierService := service.NewCashierService(cashierRepo, companyID, logger)
	receiptService := service.NewReceiptService(orderRepo, sessionRepo, companyRepo, deviceRepo, cashierRepo, customerRepo, thermalPrinter, cfg.Printer.CharWidth, logger)

	// Handlers
	handlers := &routes.Handlers{
		Session:  handler.NewSessionHandler(sessionService),
		Cart:     handler.NewCartHandler(cartService),
		Order:    handler.NewOrderHandler(orderService, companyID),
		Catalog:  handler.NewCatalogHandler(catalogService),
		Customer: handler.NewCustomerHandler(customerService),
		Cashier:  handler.NewCashierHandler(cashierService),
		Display:  handler.NewDisplayHandler(displayService, cartService, logger),
		Receipt:  handler.NewReceiptHandler(receiptService),
	}

	router := routes.Setup(handlers, &routes.Deps{
		Config:          cfg,
		Logger:          logger,
		JWTManager:      jwtManager,
		IdempotencyRepo: idempotencyRepo,
	})

	// Expired idempotency keys pile up otherwise.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := idempotencyRepo.DeleteExpired(context.Background()); err != nil {
				logger.Warn("idempotency cleanup failed", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // WebSocket display feeds are long-lived
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.Int("port", cfg.App.Port),
			zap.String("environment", cfg.App.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	displayService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.App.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// resolveCompanyID takes the configured merchant, or the only company
// in the database when none is configured (the single-store case).
func resolveCompanyID(cfg *config.Config, db *gorm.DB, logger *zap.Logger) uuid.UUID {
	if cfg.POS.CompanyID != "" {
		id, err := uuid.Parse(cfg.POS.CompanyID)
		if err == nil {
			return id
		}
		logger.Warn("invalid pos.company_id, falling back to first company", zap.Error(err))
	}

	var company entity.Company
	if err := db.Order("created_at ASC").First(&company).Error; err != nil {
		logger.Fatal("no company configured and none found in database", zap.Error(err))
	}
	return company.ID
}
