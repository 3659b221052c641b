package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment 分期明细（与每期 Expense 一一对应）
type Installment struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	GroupUUID         string          `json:"group_uuid" gorm:"size:36;index;not null"`
	ExpenseID         uint            `json:"expense_id" gorm:"index;not null"`
	Number            int             `json:"number" gorm:"not null"`
	TotalInstallments int             `json:"total_installments" gorm:"not null"`
	Title             string          `json:"title" gorm:"size:255;not null"`
	Value             decimal.Decimal `json:"value" gorm:"type:decimal(12,2);not null"`
	Date              time.Time       `json:"date" gorm:"type:date;not null"`
	CreatedAt         time.Time       `json:"created_at"`
}

func (Installment) TableName() string {
	return "installments"
}
