package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Entry 收入记录
type Entry struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	UUID      string          `json:"uuid" gorm:"size:36;uniqueIndex;not null"`
	UserID    uint            `json:"-" gorm:"index;not null"`
	Value     decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	Date      time.Time       `json:"date" gorm:"type:date;index;not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
	User      User            `json:"-" gorm:"foreignKey:UserID"`
}

func (Entry) TableName() string {
	return "entries"
}

func (e *Entry) BeforeCreate(*gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	return nil
}
