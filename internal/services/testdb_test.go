package services_test

import (
	"testing"

	"github.com/filadex/filadex-server/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Filament{},
		&models.Manufacturer{},
		&models.Material{},
		&models.Color{},
		&models.Diameter{},
		&models.StorageLocation{},
		&models.SharingSetting{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user row directly, bypassing password hashing.
func createTestUser(t *testing.T, db *gorm.DB, username string, isAdmin bool) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "not-a-real-hash",
		IsAdmin:      isAdmin,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
