package models

import (
	"time"

	"gorm.io/datatypes"
)

// User represents an account that owns filaments and sharing settings.
type User struct {
	ID                  uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Username            string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	PasswordHash        string         `gorm:"size:128;not null" json:"-"`
	IsAdmin             bool           `gorm:"not null;default:false" json:"isAdmin"`
	ForceChangePassword bool           `gorm:"not null;default:false" json:"forceChangePassword"`
	LastLogin           *time.Time     `json:"lastLogin,omitempty"`
	Theme               datatypes.JSON `gorm:"type:json" json:"-"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}
