package services

import (
	"errors"
	"strings"

	"github.com/filadex/filadex-server/internal/database"
	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/types"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput is the admin payload for creating or updating accounts.
// Password is only applied when non-empty on update.
type UserInput struct {
	Username            *string `json:"username"`
	Password            *string `json:"password"`
	IsAdmin             *bool   `json:"isAdmin"`
	ForceChangePassword *bool   `json:"forceChangePassword"`
}

// UserService implements the admin-only user management endpoints.
type UserService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// List returns all accounts.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("username ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create adds an account. Username and password are mandatory; usernames
// are unique case-insensitively.
func (s *UserService) Create(in UserInput) (*models.User, error) {
	if in.Username == nil || strings.TrimSpace(*in.Username) == "" {
		return nil, types.Validation("Username is required")
	}
	if in.Password == nil || *in.Password == "" {
		return nil, types.Validation("Password is required")
	}
	username := strings.TrimSpace(*in.Username)

	var count int64
	if err := s.DB.Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, types.Duplicate("Username %q is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), database.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:            username,
		PasswordHash:        string(hash),
		ForceChangePassword: true,
	}
	if in.IsAdmin != nil {
		user.IsAdmin = *in.IsAdmin
	}
	if in.ForceChangePassword != nil {
		user.ForceChangePassword = *in.ForceChangePassword
	}

	if err := s.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	s.Log.Info("user created", zap.String("username", username), zap.Bool("isAdmin", user.IsAdmin))
	return &user, nil
}

// Update modifies an account; an empty password field leaves the hash
// untouched.
func (s *UserService) Update(id uint, in UserInput) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("User %d not found", id)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return nil, types.Validation("Username must not be empty")
		}
		if !strings.EqualFold(username, user.Username) {
			var count int64
			if err := s.DB.Model(&models.User{}).Where("LOWER(username) = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
				return nil, err
			}
			if count > 0 {
				return nil, types.Duplicate("Username %q is already taken", username)
			}
		}
		updates["username"] = username
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), database.BcryptCost)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = string(hash)
	}
	if in.IsAdmin != nil {
		updates["is_admin"] = *in.IsAdmin
	}
	if in.ForceChangePassword != nil {
		updates["force_change_password"] = *in.ForceChangePassword
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

// Delete removes an account and, through the cascade, its filaments.
// Self-deletion is refused so the instance cannot lock itself out.
func (s *UserService) Delete(id uint, caller *models.User) error {
	if id == caller.ID {
		return types.Forbidden("Cannot delete your own account")
	}

	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NotFound("User %d not found", id)
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Filament{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.SharingSetting{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}
