package services

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ThemeConfig is the client appearance preference, persisted as a JSON
// column on the user row.
type ThemeConfig struct {
	Variant    string  `json:"variant"`
	Primary    string  `json:"primary"`
	Appearance string  `json:"appearance"`
	Radius     float64 `json:"radius"`
}

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultTheme is returned for anonymous callers and users that never
// saved a preference.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Variant:    "professional",
		Primary:    "#3B82F6",
		Appearance: "light",
		Radius:     0.5,
	}
}

// ThemeService persists the per-user theme preference.
type ThemeService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Get returns the user's stored theme, or defaults when none is stored or
// user is nil (anonymous).
func (s *ThemeService) Get(user *models.User) ThemeConfig {
	if user == nil || len(user.Theme) == 0 {
		return DefaultTheme()
	}
	var cfg ThemeConfig
	if err := json.Unmarshal(user.Theme, &cfg); err != nil {
		s.Log.Warn("stored theme is unreadable, falling back to defaults",
			zap.Uint("userId", user.ID), zap.Error(err))
		return DefaultTheme()
	}
	return cfg
}

// Set validates and stores the theme on the user row.
func (s *ThemeService) Set(user *models.User, cfg ThemeConfig) (ThemeConfig, error) {
	cfg.Appearance = strings.ToLower(strings.TrimSpace(cfg.Appearance))
	if cfg.Appearance != "light" && cfg.Appearance != "dark" {
		return cfg, types.Validation("Appearance must be \"light\" or \"dark\"")
	}
	if !hexColorPattern.MatchString(cfg.Primary) {
		return cfg, types.Validation("Primary must be a #RRGGBB hex color")
	}
	if cfg.Radius < 0 || cfg.Radius > 2 {
		return cfg, types.Validation("Radius must be between 0 and 2")
	}
	if strings.TrimSpace(cfg.Variant) == "" {
		cfg.Variant = DefaultTheme().Variant
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return cfg, err
	}
	if err := s.DB.Model(user).Update("theme", raw).Error; err != nil {
		return cfg, err
	}
	user.Theme = raw
	return cfg, nil
}
