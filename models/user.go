package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户模型
// UUID 为对外标识，ID 仅在库内关联使用
type User struct {
	ID           uint           `json:"-" gorm:"primaryKey"`
	UUID         string         `json:"uuid" gorm:"size:36;uniqueIndex;not null"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Email        string         `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 未指定 UUID 时自动生成
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	return nil
}

// UserProfile 对外展示的用户信息
type UserProfile struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile 转换为对外展示结构
func (u *User) Profile() UserProfile {
	return UserProfile{UUID: u.UUID, Name: u.Name, Email: u.Email}
}
