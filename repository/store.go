// Package repository 持久层：服务层通过 Store 接口访问存储
package repository

import (
	"context"
	"errors"
	"time"

	"financas/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// ErrDuplicate 唯一键冲突
var ErrDuplicate = errors.New("duplicate record")

// DateRange 半开区间 [Start, End)
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains 判断时间是否落在区间内
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ExpenseFilter 消费明细筛选条件
type ExpenseFilter struct {
	Range    DateRange
	Category string // 类别名，精确匹配
	Title    string // 标题子串，不区分大小写
}

// ExpenseUpdate 可更新的字段，nil 表示不变
type ExpenseUpdate struct {
	Title      *string
	Value      *decimal.Decimal
	Date       *time.Time
	CategoryID *uint
}

// UserUpdate 可更新的用户字段
type UserUpdate struct {
	Name  *string
	Email *string
}

// Store 存储接口
type Store interface {
	FindUserByUUID(ctx context.Context, uuid string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User, upd UserUpdate) error

	FindCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateEntry(ctx context.Context, entry *models.Entry) error

	CreateExpense(ctx context.Context, expense *models.Expense) error
	CreateExpenses(ctx context.Context, expenses []models.Expense) error
	CreateInstallments(ctx context.Context, installments []models.Installment) error
	CreateRecurringExpense(ctx context.Context, def *models.RecurringExpense) error
	FindExpenseByUUID(ctx context.Context, uuid string) (*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense, upd ExpenseUpdate) error
	// DeleteExpense 删除消费记录及其分期明细
	DeleteExpense(ctx context.Context, expense *models.Expense) error

	SumEntries(ctx context.Context, userID uint, r DateRange) (decimal.Decimal, error)
	SumExpenses(ctx context.Context, userID uint, r DateRange) (decimal.Decimal, error)
	FindExpenses(ctx context.Context, userID uint, f ExpenseFilter) ([]models.ExpenseListItem, error)

	// WithTx 在单个事务中执行 fn，fn 返回错误则回滚
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
