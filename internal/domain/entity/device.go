package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device is a registered fiscal device through which sales are
// certified. The engine never speaks the device protocol itself; it
// only records which device a session is bound to.
type Device struct {
	ID              uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CompanyID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"company_id"`
	FiscalDeviceID  string         `gorm:"size:100;not null" json:"fiscal_device_id"`
	SerialNumber    string         `gorm:"size:100" json:"serial_number"`
	Model           string         `gorm:"size:100" json:"model"`
	FiscalDayStatus string         `gorm:"size:50" json:"fiscal_day_status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new device
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Device model
func (Device) TableName() string {
	return "devices"
}
