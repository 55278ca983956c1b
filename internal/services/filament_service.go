package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FilamentInput is the client payload for create and patch operations. All
// fields are pointers so PATCH can distinguish "absent" from "zero"; the
// Flex types coerce numeric strings from form clients.
type FilamentInput struct {
	Name                *string            `json:"name"`
	Manufacturer        *string            `json:"manufacturer"`
	Material            *string            `json:"material"`
	ColorName           *string            `json:"colorName"`
	ColorCode           *string            `json:"colorCode"`
	Diameter            *types.FlexFloat64 `json:"diameter"`
	PrintTemp           *string            `json:"printTemp"`
	TotalWeight         *types.FlexFloat64 `json:"totalWeight"`
	RemainingPercentage *types.FlexInt     `json:"remainingPercentage"`
	PurchaseDate        *string            `json:"purchaseDate"`
	PurchasePrice       *types.FlexFloat64 `json:"purchasePrice"`
	Status              *string            `json:"status"`
	SpoolType           *string            `json:"spoolType"`
	DryerCount          *types.FlexInt     `json:"dryerCount"`
	LastDryingDate      *string            `json:"lastDryingDate"`
	StorageLocation     *string            `json:"storageLocation"`
}

// FilamentService owns spool CRUD and export.
type FilamentService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// List returns the caller's filaments. Admins may request the unscoped
// collection.
func (s *FilamentService) List(caller *models.User, all bool) ([]models.Filament, error) {
	var filaments []models.Filament
	query := s.DB.Order("created_at DESC, id DESC")
	if !(all && caller.IsAdmin) {
		query = query.Where("user_id = ?", caller.ID)
	}
	if err := query.Find(&filaments).Error; err != nil {
		return nil, err
	}
	return filaments, nil
}

// Get returns one filament by id.
func (s *FilamentService) Get(id uint) (*models.Filament, error) {
	var filament models.Filament
	if err := s.DB.First(&filament, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("Filament %d not found", id)
		}
		return nil, err
	}
	return &filament, nil
}

// Create inserts a new spool owned by the caller. Name and a positive total
// weight are mandatory.
func (s *FilamentService) Create(caller *models.User, in FilamentInput) (*models.Filament, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, types.Validation("Filament name is required")
	}
	if in.TotalWeight == nil {
		return nil, types.Validation("Total weight is required")
	}

	filament := models.Filament{
		UserID:              caller.ID,
		RemainingPercentage: 100,
		Status:              models.StatusSealed,
		SpoolType:           models.SpoolTypeSpooled,
	}
	if err := applyInput(&filament, in); err != nil {
		return nil, err
	}

	if err := s.DB.Create(&filament).Error; err != nil {
		return nil, err
	}
	s.Log.Debug("filament created",
		zap.Uint("id", filament.ID), zap.Uint("userId", caller.ID))
	return &filament, nil
}

// Update applies a partial patch. Only the owner or an admin may modify a
// spool; an empty patch is a no-op that returns the row unchanged.
func (s *FilamentService) Update(id uint, caller *models.User, in FilamentInput) (*models.Filament, error) {
	filament, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if filament.UserID != caller.ID && !caller.IsAdmin {
		return nil, types.Forbidden("Not allowed to modify this filament")
	}

	if err := applyInput(filament, in); err != nil {
		return nil, err
	}

	if err := s.DB.Save(filament).Error; err != nil {
		return nil, err
	}
	return filament, nil
}

// Delete removes a spool, same ownership rule as Update.
func (s *FilamentService) Delete(id uint, caller *models.User) error {
	filament, err := s.Get(id)
	if err != nil {
		return err
	}
	if filament.UserID != caller.ID && !caller.IsAdmin {
		return types.Forbidden("Not allowed to delete this filament")
	}
	return s.DB.Delete(filament).Error
}

// Export returns the caller's filaments restricted to an explicit id list.
// An empty id list exports everything the caller owns.
func (s *FilamentService) Export(caller *models.User, ids []uint) ([]models.Filament, error) {
	query := s.DB.Where("user_id = ?", caller.ID).Order("id ASC")
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	var filaments []models.Filament
	if err := query.Find(&filaments).Error; err != nil {
		return nil, err
	}
	return filaments, nil
}

// ExportCSV renders filaments in the flat spreadsheet format the client
// imports back.
func ExportCSV(filaments []models.Filament) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"name", "manufacturer", "material", "colorName", "colorCode",
		"diameter", "printTemp", "totalWeight", "remainingPercentage",
		"purchaseDate", "purchasePrice", "status", "spoolType",
		"dryerCount", "lastDryingDate", "storageLocation",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for i := range filaments {
		f := &filaments[i]
		row := []string{
			f.Name, f.Manufacturer, f.Material, f.ColorName, f.ColorCode,
			formatFloatPtr(f.Diameter), f.PrintTemp,
			strconv.FormatFloat(f.TotalWeight, 'f', -1, 64),
			strconv.Itoa(f.RemainingPercentage),
			formatDatePtr(f.PurchaseDate),
			formatFloatPtr(f.PurchasePrice),
			f.Status, f.SpoolType,
			strconv.Itoa(f.DryerCount),
			formatDatePtr(f.LastDryingDate),
			f.StorageLocation,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// applyInput copies the supplied fields onto the row, validating the
// invariants: remaining percentage within 0..100, total weight positive,
// known status and spool type values.
func applyInput(f *models.Filament, in FilamentInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return types.Validation("Filament name must not be empty")
		}
		f.Name = name
	}
	if in.Manufacturer != nil {
		f.Manufacturer = strings.TrimSpace(*in.Manufacturer)
	}
	if in.Material != nil {
		f.Material = strings.TrimSpace(*in.Material)
	}
	if in.ColorName != nil {
		f.ColorName = strings.TrimSpace(*in.ColorName)
	}
	if in.ColorCode != nil {
		f.ColorCode = strings.TrimSpace(*in.ColorCode)
	}
	if in.Diameter != nil {
		v := in.Diameter.Float64()
		if v <= 0 {
			return types.Validation("Diameter must be positive")
		}
		f.Diameter = &v
	}
	if in.PrintTemp != nil {
		f.PrintTemp = strings.TrimSpace(*in.PrintTemp)
	}
	if in.TotalWeight != nil {
		v := in.TotalWeight.Float64()
		if v <= 0 {
			return types.Validation("Total weight must be positive")
		}
		f.TotalWeight = v
	}
	if in.RemainingPercentage != nil {
		v := in.RemainingPercentage.Int()
		if v < 0 || v > 100 {
			return types.Validation("Remaining percentage must be between 0 and 100")
		}
		f.RemainingPercentage = v
	}
	if in.PurchaseDate != nil {
		t, err := parseDate(*in.PurchaseDate)
		if err != nil {
			return err
		}
		f.PurchaseDate = t
	}
	if in.PurchasePrice != nil {
		v := in.PurchasePrice.Float64()
		if v < 0 {
			return types.Validation("Purchase price must not be negative")
		}
		f.PurchasePrice = &v
	}
	if in.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*in.Status))
		if status != models.StatusSealed && status != models.StatusOpened {
			return types.Validation("Status must be %q or %q", models.StatusSealed, models.StatusOpened)
		}
		f.Status = status
	}
	if in.SpoolType != nil {
		spool := strings.ToLower(strings.TrimSpace(*in.SpoolType))
		if spool != models.SpoolTypeSpooled && spool != models.SpoolTypeSpoolless {
			return types.Validation("Spool type must be %q or %q", models.SpoolTypeSpooled, models.SpoolTypeSpoolless)
		}
		f.SpoolType = spool
	}
	if in.DryerCount != nil {
		v := in.DryerCount.Int()
		if v < 0 {
			return types.Validation("Dryer count must not be negative")
		}
		f.DryerCount = v
	}
	if in.LastDryingDate != nil {
		t, err := parseDate(*in.LastDryingDate)
		if err != nil {
			return err
		}
		f.LastDryingDate = t
	}
	if in.StorageLocation != nil {
		f.StorageLocation = strings.TrimSpace(*in.StorageLocation)
	}
	return nil
}

// parseDate accepts a bare date or a full RFC3339 timestamp; an empty
// string clears the field.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, types.Validation("Invalid date %q, expected YYYY-MM-DD", s)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// ParseIDList parses a comma-separated id list query parameter.
func ParseIDList(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, types.Validation("Invalid id %q in ids parameter", p)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
