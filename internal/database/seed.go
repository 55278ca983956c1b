package database

import (
	"fmt"

	"github.com/filadex/filadex-server/internal/config"
	"github.com/filadex/filadex-server/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// Seed creates the initial admin account when the users table is empty.
// When ADMIN_PASSWORD is not configured, the account is created with the
// username as password and ForceChangePassword set, so first login demands
// a change.
func Seed(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := cfg.AdminPassword
	forceChange := false
	if password == "" {
		password = cfg.AdminUsername
		forceChange = true
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		Username:            cfg.AdminUsername,
		PasswordHash:        string(hash),
		IsAdmin:             true,
		ForceChangePassword: forceChange,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Info("seeded initial admin user",
		zap.String("username", admin.Username),
		zap.Bool("forceChangePassword", forceChange))

	return nil
}
