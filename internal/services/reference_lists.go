package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Constructors for the five reference list stores. Each wires the generic
// RefStore machinery to one table: validation, dedup key, CSV shape and the
// filament column that guards deletes.

// NewManufacturerStore builds the manufacturers store.
func NewManufacturerStore(db *gorm.DB, log *zap.Logger) *RefStore[models.Manufacturer] {
	return &RefStore[models.Manufacturer]{
		DB:       db,
		Log:      log,
		resource: "manufacturers",
		keywords: []string{"manufacturer", "brand", "hersteller", "name"},
		header:   []string{"name"},
		orderBy:  "sort_order ASC, name ASC",
		sortable: true,
		build: func(f RefFields) (*models.Manufacturer, error) {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				return nil, types.Validation("Manufacturer name is required")
			}
			return &models.Manufacturer{Name: name}, nil
		},
		key:    func(m *models.Manufacturer) string { return m.Name },
		csvRow: func(m *models.Manufacturer) []string { return []string{m.Name} },
		usage: func(tx *gorm.DB, m *models.Manufacturer) (int64, error) {
			return countFilamentsBy(tx, "manufacturer", m.Name)
		},
		fromCSV: nameOnlyFromCSV,
	}
}

// NewMaterialStore builds the materials store.
func NewMaterialStore(db *gorm.DB, log *zap.Logger) *RefStore[models.Material] {
	return &RefStore[models.Material]{
		DB:       db,
		Log:      log,
		resource: "materials",
		keywords: []string{"material", "type", "name"},
		header:   []string{"name"},
		orderBy:  "sort_order ASC, name ASC",
		sortable: true,
		build: func(f RefFields) (*models.Material, error) {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				return nil, types.Validation("Material name is required")
			}
			return &models.Material{Name: name}, nil
		},
		key:    func(m *models.Material) string { return m.Name },
		csvRow: func(m *models.Material) []string { return []string{m.Name} },
		usage: func(tx *gorm.DB, m *models.Material) (int64, error) {
			return countFilamentsBy(tx, "material", m.Name)
		},
		fromCSV: nameOnlyFromCSV,
	}
}

// NewColorStore builds the colors store. Color rows carry a hex code, and
// the importer understands both "name,code" and the three-column
// "Brand,ColorName,HexCode" export format, which synthesizes
// "ColorName (Brand)" names.
func NewColorStore(db *gorm.DB, log *zap.Logger) *RefStore[models.Color] {
	return &RefStore[models.Color]{
		DB:       db,
		Log:      log,
		resource: "colors",
		keywords: []string{"color", "colour", "farbe", "brand", "hex", "name"},
		header:   []string{"name", "code"},
		orderBy:  "name ASC",
		build: func(f RefFields) (*models.Color, error) {
			name := strings.TrimSpace(f.Name)
			code := strings.TrimSpace(f.Code)
			if name == "" {
				return nil, types.Validation("Color name is required")
			}
			if code == "" {
				return nil, types.Validation("Color code is required")
			}
			if !strings.HasPrefix(code, "#") {
				code = "#" + code
			}
			return &models.Color{Name: name, Code: code}, nil
		},
		key:    func(c *models.Color) string { return c.Name },
		csvRow: func(c *models.Color) []string { return []string{c.Name, c.Code} },
		usage: func(tx *gorm.DB, c *models.Color) (int64, error) {
			return countFilamentsBy(tx, "color_name", c.Name)
		},
		fromCSV: func(cols []string, nameIdx int) RefFields {
			if len(cols) >= 3 {
				// Brand,ColorName,HexCode
				return RefFields{
					Name: fmt.Sprintf("%s (%s)", colAt(cols, 1), colAt(cols, 0)),
					Code: colAt(cols, 2),
				}
			}
			return RefFields{Name: colAt(cols, 0), Code: colAt(cols, 1)}
		},
	}
}

// NewDiameterStore builds the diameters store.
func NewDiameterStore(db *gorm.DB, log *zap.Logger) *RefStore[models.Diameter] {
	return &RefStore[models.Diameter]{
		DB:       db,
		Log:      log,
		resource: "diameters",
		keywords: []string{"diameter", "durchmesser", "value"},
		header:   []string{"value"},
		orderBy:  "value ASC",
		build: func(f RefFields) (*models.Diameter, error) {
			raw := strings.TrimSpace(f.Value)
			if raw == "" {
				raw = strings.TrimSpace(f.Name)
			}
			if raw == "" {
				return nil, types.Validation("Diameter value is required")
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v <= 0 {
				return nil, types.Validation("Diameter %q is not a positive number", raw)
			}
			return &models.Diameter{Value: v}, nil
		},
		key:    func(d *models.Diameter) string { return formatDiameter(d.Value) },
		csvRow: func(d *models.Diameter) []string { return []string{formatDiameter(d.Value)} },
		usage: func(tx *gorm.DB, d *models.Diameter) (int64, error) {
			var count int64
			err := tx.Model(&models.Filament{}).Where("diameter = ?", d.Value).Count(&count).Error
			return count, err
		},
		fromCSV: func(cols []string, nameIdx int) RefFields {
			return RefFields{Value: colAt(cols, nameIdx)}
		},
	}
}

// NewStorageLocationStore builds the storage locations store.
func NewStorageLocationStore(db *gorm.DB, log *zap.Logger) *RefStore[models.StorageLocation] {
	return &RefStore[models.StorageLocation]{
		DB:       db,
		Log:      log,
		resource: "storage-locations",
		keywords: []string{"location", "storage", "lagerort", "name"},
		header:   []string{"name"},
		orderBy:  "sort_order ASC, name ASC",
		sortable: true,
		build: func(f RefFields) (*models.StorageLocation, error) {
			name := strings.TrimSpace(f.Name)
			if name == "" {
				return nil, types.Validation("Storage location name is required")
			}
			return &models.StorageLocation{Name: name}, nil
		},
		key:    func(l *models.StorageLocation) string { return l.Name },
		csvRow: func(l *models.StorageLocation) []string { return []string{l.Name} },
		usage: func(tx *gorm.DB, l *models.StorageLocation) (int64, error) {
			return countFilamentsBy(tx, "storage_location", l.Name)
		},
		fromCSV: nameOnlyFromCSV,
	}
}

func nameOnlyFromCSV(cols []string, nameIdx int) RefFields {
	return RefFields{Name: colAt(cols, nameIdx)}
}

func countFilamentsBy(tx *gorm.DB, column, value string) (int64, error) {
	var count int64
	err := tx.Model(&models.Filament{}).Where(column+" = ?", value).Count(&count).Error
	return count, err
}

func formatDiameter(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
