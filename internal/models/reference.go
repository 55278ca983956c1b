package models

import "time"

// The five reference lists backing the client form choices. Names are
// unique case-insensitively in application logic; the unique indexes here
// are defense-in-depth against concurrent imports.

// Manufacturer is a filament brand (Prusament, eSun, ...).
type Manufacturer struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Material is a filament polymer type (PLA, PETG, ...).
type Material struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Color is a named color with a hex code.
type Color struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Code      string    `gorm:"size:16;not null" json:"code"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Diameter is a nozzle-facing filament diameter in millimeters.
type Diameter struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Value     float64   `gorm:"not null;uniqueIndex" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StorageLocation is a free-form place where spools live.
type StorageLocation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	SortOrder int       `gorm:"not null;default:0" json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Manufacturer
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// TableName overrides the table name for Material
func (Material) TableName() string {
	return "materials"
}

// TableName overrides the table name for Color
func (Color) TableName() string {
	return "colors"
}

// TableName overrides the table name for Diameter
func (Diameter) TableName() string {
	return "diameters"
}

// TableName overrides the table name for StorageLocation
func (StorageLocation) TableName() string {
	return "storage_locations"
}
