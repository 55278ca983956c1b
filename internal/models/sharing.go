package models

import "time"

// SharingSetting is a per-user visibility flag for the public inventory
// view. A nil MaterialID is the "share everything" toggle; at most one of
// the global flag and the per-material flags is enabled at a time, enforced
// by the sharing service.
type SharingSetting struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_user_material,unique" json:"userId"`
	MaterialID *uint     `gorm:"index:idx_user_material,unique" json:"materialId"`
	IsPublic   bool      `gorm:"not null;default:false" json:"isPublic"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName overrides the table name for SharingSetting
func (SharingSetting) TableName() string {
	return "sharing_settings"
}
