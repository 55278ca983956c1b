package services

import (
	"errors"
	"strings"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SharingView is one sharing setting joined with its material name for the
// settings screen. MaterialName is empty for the global flag.
type SharingView struct {
	ID           uint   `json:"id"`
	MaterialID   *uint  `json:"materialId"`
	MaterialName string `json:"materialName,omitempty"`
	IsPublic     bool   `json:"isPublic"`
}

// PublicView is the unauthenticated public inventory payload.
type PublicView struct {
	Filaments []models.Filament `json:"filaments"`
	User      PublicUser        `json:"user"`
}

// PublicUser exposes only the owner's username.
type PublicUser struct {
	Username string `json:"username"`
}

// SharingService manages visibility flags and the public inventory view.
type SharingService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// List returns the caller's sharing settings with material names resolved.
func (s *SharingService) List(userID uint) ([]SharingView, error) {
	var settings []models.SharingSetting
	if err := s.DB.Where("user_id = ?", userID).Order("material_id ASC").Find(&settings).Error; err != nil {
		return nil, err
	}

	views := make([]SharingView, 0, len(settings))
	for _, setting := range settings {
		view := SharingView{
			ID:         setting.ID,
			MaterialID: setting.MaterialID,
			IsPublic:   setting.IsPublic,
		}
		if setting.MaterialID != nil {
			var material models.Material
			if err := s.DB.First(&material, *setting.MaterialID).Error; err == nil {
				view.MaterialName = material.Name
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Set upserts one sharing flag keyed (userID, materialID). A nil materialID
// is the "share everything" toggle. The exclusivity invariant is enforced
// here rather than trusted to the client: enabling the global flag disables
// every per-material flag, and enabling any per-material flag disables the
// global one.
func (s *SharingService) Set(userID uint, materialID *uint, isPublic bool) error {
	if materialID != nil {
		var material models.Material
		if err := s.DB.First(&material, *materialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("Material %d not found", *materialID)
			}
			return err
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ?", userID)
		if materialID == nil {
			query = query.Where("material_id IS NULL")
		} else {
			query = query.Where("material_id = ?", *materialID)
		}

		var setting models.SharingSetting
		err := query.First(&setting).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = models.SharingSetting{UserID: userID, MaterialID: materialID, IsPublic: isPublic}
			if err := tx.Create(&setting).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&setting).Update("is_public", isPublic).Error; err != nil {
				return err
			}
		}

		if !isPublic {
			return nil
		}
		if materialID == nil {
			return tx.Model(&models.SharingSetting{}).
				Where("user_id = ? AND material_id IS NOT NULL", userID).
				Update("is_public", false).Error
		}
		return tx.Model(&models.SharingSetting{}).
			Where("user_id = ? AND material_id IS NULL", userID).
			Update("is_public", false).Error
	})
}

// PublicFilaments returns the owner's shared filaments for the
// unauthenticated public endpoint. A filament is visible when the owner's
// global flag is on, or a per-material flag matches its material name
// case-insensitively.
func (s *SharingService) PublicFilaments(ownerID uint) (*PublicView, error) {
	var owner models.User
	if err := s.DB.First(&owner, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("User %d not found", ownerID)
		}
		return nil, err
	}

	var settings []models.SharingSetting
	if err := s.DB.Where("user_id = ? AND is_public = ?", ownerID, true).Find(&settings).Error; err != nil {
		return nil, err
	}

	view := &PublicView{
		Filaments: []models.Filament{},
		User:      PublicUser{Username: owner.Username},
	}

	shareAll := false
	sharedMaterials := make(map[string]struct{})
	for _, setting := range settings {
		if setting.MaterialID == nil {
			shareAll = true
			continue
		}
		var material models.Material
		if err := s.DB.First(&material, *setting.MaterialID).Error; err == nil {
			sharedMaterials[strings.ToLower(material.Name)] = struct{}{}
		}
	}

	if !shareAll && len(sharedMaterials) == 0 {
		return view, nil
	}

	var filaments []models.Filament
	if err := s.DB.Where("user_id = ?", ownerID).Order("created_at DESC").Find(&filaments).Error; err != nil {
		return nil, err
	}

	if shareAll {
		view.Filaments = filaments
		return view, nil
	}

	for _, filament := range filaments {
		if _, ok := sharedMaterials[strings.ToLower(strings.TrimSpace(filament.Material))]; ok {
			view.Filaments = append(view.Filaments, filament)
		}
	}
	return view, nil
}
