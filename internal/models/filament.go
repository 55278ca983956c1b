package models

import (
	"time"
)

// Filament status and spool type enumerations.
const (
	StatusSealed = "sealed"
	StatusOpened = "opened"

	SpoolTypeSpooled   = "spooled"
	SpoolTypeSpoolless = "spoolless"
)

// Filament represents one tracked spool. The manufacturer, material, color
// and storage location fields hold denormalized display copies of the
// reference list names; the reference services refuse to delete a list
// entry while any filament still carries its name.
type Filament struct {
	ID                  uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID              uint       `gorm:"not null;index" json:"userId"`
	User                *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Name                string     `gorm:"size:255;not null" json:"name"`
	Manufacturer        string     `gorm:"size:255" json:"manufacturer,omitempty"`
	Material            string     `gorm:"size:255;index" json:"material"`
	ColorName           string     `gorm:"size:255" json:"colorName"`
	ColorCode           string     `gorm:"size:16" json:"colorCode,omitempty"`
	Diameter            *float64   `json:"diameter,omitempty"`
	PrintTemp           string     `gorm:"size:64" json:"printTemp,omitempty"`
	TotalWeight         float64    `gorm:"not null" json:"totalWeight"`
	RemainingPercentage int        `gorm:"not null;default:100" json:"remainingPercentage"`
	PurchaseDate        *time.Time `json:"purchaseDate,omitempty"`
	PurchasePrice       *float64   `json:"purchasePrice,omitempty"`
	Status              string     `gorm:"size:16;not null;default:sealed" json:"status"`
	SpoolType           string     `gorm:"size:16;not null;default:spooled" json:"spoolType"`
	DryerCount          int        `gorm:"not null;default:0" json:"dryerCount"`
	LastDryingDate      *time.Time `json:"lastDryingDate,omitempty"`
	StorageLocation     string     `gorm:"size:255" json:"storageLocation,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// TableName overrides the table name for Filament
func (Filament) TableName() string {
	return "filaments"
}
