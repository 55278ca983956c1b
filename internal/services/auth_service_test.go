package services_test

import (
	"testing"

	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// createCredentialedUser inserts a user with a real bcrypt hash. A low cost
// keeps the test fast.
func createCredentialedUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{Username: username, PasswordHash: string(hash)}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// TestLoginSuccess tests a valid credential pair and the last login stamp.
func TestLoginSuccess(t *testing.T) {
	db := setupTestDB(t)
	createCredentialedUser(t, db, "alice", "hunter2")
	svc := &services.AuthService{DB: db, Log: testLogger()}

	user, err := svc.Login("alice", "hunter2")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Unexpected user: %q", user.Username)
	}
	if user.LastLogin == nil {
		t.Error("Expected last login to be stamped")
	}
}

// TestLoginUniformFailure tests that unknown usernames and wrong passwords
// produce the same 401.
func TestLoginUniformFailure(t *testing.T) {
	db := setupTestDB(t)
	createCredentialedUser(t, db, "alice", "hunter2")
	svc := &services.AuthService{DB: db, Log: testLogger()}

	_, errUnknown := svc.Login("nobody", "hunter2")
	_, errWrongPw := svc.Login("alice", "wrong")

	for _, err := range []error{errUnknown, errWrongPw} {
		apiErr, ok := err.(*types.ApiError)
		if !ok || apiErr.Code != 401 {
			t.Fatalf("Expected 401 ApiError, got %v", err)
		}
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("Expected identical messages, got %q vs %q", errUnknown, errWrongPw)
	}
}

// TestChangePassword tests the re-verify, rehash and flag clearing.
func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	user := createCredentialedUser(t, db, "alice", "hunter2")
	if err := db.Model(user).Update("force_change_password", true).Error; err != nil {
		t.Fatalf("Failed to set flag: %v", err)
	}
	svc := &services.AuthService{DB: db, Log: testLogger()}

	if err := svc.ChangePassword(user, "wrong", "newpass"); err == nil {
		t.Error("Expected wrong current password to be rejected")
	}
	if err := svc.ChangePassword(user, "hunter2", ""); err == nil {
		t.Error("Expected empty new password to be rejected")
	}

	if err := svc.ChangePassword(user, "hunter2", "newpass"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := svc.Login("alice", "newpass"); err != nil {
		t.Errorf("Expected login with new password to succeed: %v", err)
	}
	if _, err := svc.Login("alice", "hunter2"); err == nil {
		t.Error("Expected old password to stop working")
	}

	reloaded, err := svc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.ForceChangePassword {
		t.Error("Expected forced-change flag to be cleared")
	}
}
