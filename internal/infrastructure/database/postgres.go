package database

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/takudzwan/fiscalpos-api/internal/config"
	"github.com/takudzwan/fiscalpos-api/internal/domain/entity"
	"github.com/takudzwan/fiscalpos-api/internal/domain/enum"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate runs database migrations for all entities
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Company{},
		&entity.Device{},
		&entity.Category{},
		&entity.Product{},
		&entity.Cashier{},
		&entity.Customer{},
		&entity.Session{},
		&entity.Order{},
		&entity.OrderLine{},
		&entity.IdempotencyKey{},
	)
}

// SeedDefaultData inserts a demo company, device, catalog and cashiers
// so a fresh install can ring a sale immediately. Idempotent.
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Company{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	company := &entity.Company{
		Name:     "Demo Retail Store",
		Address:  "12 Samora Machel Ave, Harare",
		Phone:    "+263 242 000000",
		Email:    "sales@demoretail.example",
		TIN:      "2000012345",
		VATNumber: "220001234",
		Currency: "USD",
	}
	if err := db.Create(company).Error; err != nil {
		return err
	}

	device := &entity.Device{
		CompanyID:      company.ID,
		FiscalDeviceID: "FD-0001",
		SerialNumber:   "SN-DEMO-0001",
		Model:          "Virtual Fiscal Printer",
	}
	if err := db.Create(device).Error; err != nil {
		return err
	}

	grocery := &entity.Category{CompanyID: company.ID, Name: "Grocery"}
	beverages := &entity.Category{CompanyID: company.ID, Name: "Beverages"}
	if err := db.Create(&[]*entity.Category{grocery, beverages}).Error; err != nil {
		return err
	}

	products := []*entity.Product{
		{
			CompanyID:      company.ID,
			CategoryID:     &grocery.ID,
			Name:           "White Bread 700g",
			Barcode:        "6001234500017",
			Reference:      "GRO-0001",
			UOM:            "ea",
			SalePrice:      150,
			VATRate:        0,
			TrackInventory: true,
			OnHand:         80,
			IsActive:       true,
		},
		{
			CompanyID:      company.ID,
			CategoryID:     &grocery.ID,
			Name:           "Sugar 2kg",
			Barcode:        "6001234500024",
			Reference:      "GRO-0002",
			UOM:            "ea",
			SalePrice:      320,
			VATRate:        15,
			TrackInventory: true,
			OnHand:         50,
			IsActive:       true,
		},
		{
			CompanyID:      company.ID,
			CategoryID:     &beverages.ID,
			Name:           "Sparkling Water 500ml",
			Barcode:        "6001234500031",
			Reference:      "BEV-0001",
			UOM:            "ea",
			SalePrice:      120,
			VATRate:        15,
			TrackInventory: true,
			OnHand:         200,
			IsActive:       true,
		},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	cashiers := []struct {
		name string
		role enum.CashierRole
		pin  string
	}{
		{"Tendai M", enum.CashierRoleSupervisor, "1234"},
		{"Rudo C", enum.CashierRoleCashier, "5678"},
	}
	for i, c := range cashiers {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.pin), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		cashier := &entity.Cashier{
			CompanyID: company.ID,
			Name:      c.name,
			Role:      c.role,
			PINHash:   string(hash),
			IsActive:  true,
			SortOrder: i,
		}
		if err := db.Create(cashier).Error; err != nil {
			return err
		}
	}

	return nil
}

// HealthCheck pings the database with a short deadline.
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
