package models

import "time"

// Account is a registered shopper or administrator.
type Account struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;not null;uniqueIndex:accounts_email_key"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	ProfileImage string    `gorm:"column:profile_image"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	IsAdmin      bool      `gorm:"column:is_admin;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
