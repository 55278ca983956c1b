package services_test

import (
	"testing"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/services"
)

func boolPtr(v bool) *bool { return &v }

// TestUserCreate tests account creation with the case-insensitive username
// uniqueness check.
func TestUserCreate(t *testing.T) {
	db := setupTestDB(t)
	svc := &services.UserService{DB: db, Log: testLogger()}

	user, err := svc.Create(services.UserInput{Username: strPtr("Alice"), Password: strPtr("secret")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !user.ForceChangePassword {
		t.Error("Expected new accounts to require a password change by default")
	}
	if user.PasswordHash == "secret" {
		t.Error("Expected the password to be hashed")
	}

	if _, err := svc.Create(services.UserInput{Username: strPtr("alice"), Password: strPtr("x")}); err == nil {
		t.Error("Expected case-insensitive duplicate username to be rejected")
	}
	if _, err := svc.Create(services.UserInput{Username: strPtr("bob")}); err == nil {
		t.Error("Expected missing password to be rejected")
	}
}

// TestUserUpdate tests partial updates including the empty-password rule.
func TestUserUpdate(t *testing.T) {
	db := setupTestDB(t)
	svc := &services.UserService{DB: db, Log: testLogger()}

	user, err := svc.Create(services.UserInput{Username: strPtr("alice"), Password: strPtr("secret")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	originalHash := user.PasswordHash

	updated, err := svc.Update(user.ID, services.UserInput{
		Password: strPtr(""),
		IsAdmin:  boolPtr(true),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.IsAdmin {
		t.Error("Expected admin flag to be set")
	}
	if updated.PasswordHash != originalHash {
		t.Error("Expected empty password to leave the hash untouched")
	}
}

// TestUserDelete tests the self-delete refusal and the ownership cascade.
func TestUserDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := &services.UserService{DB: db, Log: testLogger()}
	admin := createTestUser(t, db, "root", true)
	victim := createTestUser(t, db, "alice", false)

	filament := models.Filament{UserID: victim.ID, Name: "spool", TotalWeight: 1, RemainingPercentage: 100}
	if err := db.Create(&filament).Error; err != nil {
		t.Fatalf("Failed to create filament: %v", err)
	}
	sharing := models.SharingSetting{UserID: victim.ID, IsPublic: true}
	if err := db.Create(&sharing).Error; err != nil {
		t.Fatalf("Failed to create sharing setting: %v", err)
	}

	if err := svc.Delete(admin.ID, admin); err == nil {
		t.Error("Expected self-deletion to be forbidden")
	}

	if err := svc.Delete(victim.ID, admin); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var filamentCount, sharingCount int64
	db.Model(&models.Filament{}).Where("user_id = ?", victim.ID).Count(&filamentCount)
	db.Model(&models.SharingSetting{}).Where("user_id = ?", victim.ID).Count(&sharingCount)
	if filamentCount != 0 || sharingCount != 0 {
		t.Errorf("Expected cascade to remove owned rows, got %d filaments and %d settings", filamentCount, sharingCount)
	}
}
