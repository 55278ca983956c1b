package services

import (
	"errors"
	"strings"
	"time"

	"github.com/filadex/filadex-server/internal/database"
	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService verifies credentials and manages password state.
type AuthService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// Login checks username and password and returns the matching user. The
// error is the same uniform 401 whether the username is unknown or the
// password is wrong; bcrypt's comparison keeps the hash check constant-time.
func (s *AuthService) Login(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, types.Unauthorized("Invalid username or password")
	}

	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a hash comparison so unknown usernames cost the same
			// as wrong passwords.
			_ = bcrypt.CompareHashAndPassword(
				[]byte("$2a$12$C6UzMDM.H6dfI/f/IKcEeO7p2u8rqYkNvCldW9vBVpGkXhtWoTJO2"), []byte(password))
			return nil, types.Unauthorized("Invalid username or password")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.Log.Debug("password mismatch", zap.String("username", username))
		return nil, types.Unauthorized("Invalid username or password")
	}

	now := time.Now().UTC()
	if err := s.DB.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, err
	}
	user.LastLogin = &now

	return &user, nil
}

// ChangePassword re-verifies the current password, then stores a fresh hash
// of the new one and clears the forced-change flag.
func (s *AuthService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if newPassword == "" {
		return types.Validation("New password must not be empty")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return types.Validation("Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), database.BcryptCost)
	if err != nil {
		return err
	}

	return s.DB.Model(user).Updates(map[string]interface{}{
		"password_hash":         string(hash),
		"force_change_password": false,
	}).Error
}

// GetUser loads a user row by id.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.Unauthorized("Session user no longer exists")
		}
		return nil, err
	}
	return &user, nil
}
