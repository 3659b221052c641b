package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Expense 消费记录模型
// 每个自然日的发生各占一行：单笔、分期的某一期、或周期消费的某一次
type Expense struct {
	ID                 uint            `json:"-" gorm:"primaryKey"`
	UUID               string          `json:"uuid" gorm:"size:36;uniqueIndex;not null"`
	UserID             uint            `json:"-" gorm:"index;not null"`
	Title              string          `json:"title" gorm:"size:255;not null"`
	Value              decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	Date               time.Time       `json:"date" gorm:"type:date;index;not null"`
	CategoryID         *uint           `json:"category_id" gorm:"index"`
	InstallmentGroup   *string         `json:"installment_group,omitempty" gorm:"size:36;index"`
	RecurringExpenseID *uint           `json:"recurring_expense_id,omitempty" gorm:"index"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `json:"-" gorm:"index"`
	User               User            `json:"-" gorm:"foreignKey:UserID"`
	Category           *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) BeforeCreate(*gorm.DB) error {
	if e.UUID == "" {
		e.UUID = uuid.NewString()
	}
	return nil
}

// ExpenseListItem 看板中的消费明细
type ExpenseListItem struct {
	UUID     string          `json:"uuid"`
	Title    string          `json:"title"`
	Value    decimal.Decimal `json:"value"`
	Category *CategoryRef    `json:"category"`
	Date     time.Time       `json:"date"`
}

// CategoryRef 明细中引用的类别名
type CategoryRef struct {
	Name string `json:"name"`
}
