package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FrequencyMonthly 按月
const FrequencyMonthly = "monthly"

// RecurringExpense 周期消费定义
// NextDueDate 为首次发生日期，EndDate 必填
type RecurringExpense struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	UUID        string          `json:"uuid" gorm:"size:36;uniqueIndex;not null"`
	UserID      uint            `json:"-" gorm:"index;not null"`
	Title       string          `json:"title" gorm:"size:255;not null"`
	Value       decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	CategoryID  *uint           `json:"category_id" gorm:"index"`
	NextDueDate time.Time       `json:"next_due_date" gorm:"type:date;not null"`
	EndDate     time.Time       `json:"end_date" gorm:"type:date;not null"`
	Frequency   string          `json:"frequency" gorm:"size:20;not null;default:monthly"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}

func (r *RecurringExpense) BeforeCreate(*gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	return nil
}
