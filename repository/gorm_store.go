package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"financas/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormStore 基于 gorm 的 Store 实现
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建 gorm 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB 底层连接
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

func (s *GormStore) FindUserByUUID(ctx context.Context, uuid string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormStore) UpdateUser(ctx context.Context, user *models.User, upd UserUpdate) error {
	updates := make(map[string]interface{})
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Email != nil {
		updates["email"] = *upd.Email
	}
	if len(updates) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return translate(err)
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	return nil
}

func (s *GormStore) FindCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var cat models.Category
	if err := s.db.WithContext(ctx).First(&cat, id).Error; err != nil {
		return nil, translate(err)
	}
	return &cat, nil
}

func (s *GormStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (s *GormStore) CreateEntry(ctx context.Context, entry *models.Entry) error {
	return translate(s.db.WithContext(ctx).Create(entry).Error)
}

func (s *GormStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	return translate(s.db.WithContext(ctx).Create(expense).Error)
}

func (s *GormStore) CreateExpenses(ctx context.Context, expenses []models.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(&expenses).Error)
}

func (s *GormStore) CreateInstallments(ctx context.Context, installments []models.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(&installments).Error)
}

func (s *GormStore) CreateRecurringExpense(ctx context.Context, def *models.RecurringExpense) error {
	return translate(s.db.WithContext(ctx).Create(def).Error)
}

func (s *GormStore) FindExpenseByUUID(ctx context.Context, uuid string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.WithContext(ctx).Where("uuid = ?", uuid).First(&expense).Error; err != nil {
		return nil, translate(err)
	}
	return &expense, nil
}

func (s *GormStore) UpdateExpense(ctx context.Context, expense *models.Expense, upd ExpenseUpdate) error {
	updates := make(map[string]interface{})
	if upd.Title != nil {
		updates["title"] = *upd.Title
	}
	if upd.Value != nil {
		updates["value"] = *upd.Value
	}
	if upd.Date != nil {
		updates["date"] = *upd.Date
	}
	if upd.CategoryID != nil {
		updates["category_id"] = *upd.CategoryID
	}
	if len(updates) == 0 {
		return nil
	}

	// 分期明细与消费记录保持一致，类别只存在于消费记录
	legs := make(map[string]interface{})
	for _, col := range []string{"title", "value", "date"} {
		if v, ok := updates[col]; ok {
			legs[col] = v
		}
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(expense).Updates(updates).Error; err != nil {
			return err
		}
		if len(legs) == 0 {
			return nil
		}
		return tx.Model(&models.Installment{}).Where("expense_id = ?", expense.ID).Updates(legs).Error
	})
	if err != nil {
		return translate(err)
	}
	applyExpenseUpdate(expense, upd)
	return nil
}

func (s *GormStore) DeleteExpense(ctx context.Context, expense *models.Expense) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.Installment{}).Error; err != nil {
			return err
		}
		return tx.Delete(expense).Error
	})
}

func (s *GormStore) SumEntries(ctx context.Context, userID uint, r DateRange) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Entry{}).
		Select("COALESCE(SUM(value), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, r.Start, r.End).
		Row().Scan(&total)
	return total, err
}

func (s *GormStore) SumExpenses(ctx context.Context, userID uint, r DateRange) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(value), 0)").
		Where("user_id = ? AND date >= ? AND date < ?", userID, r.Start, r.End).
		Row().Scan(&total)
	return total, err
}

type expenseRow struct {
	UUID         string
	Title        string
	Value        decimal.Decimal
	CategoryName *string
	Date         time.Time
}

func (s *GormStore) FindExpenses(ctx context.Context, userID uint, f ExpenseFilter) ([]models.ExpenseListItem, error) {
	query := s.db.WithContext(ctx).Table("expenses").
		Select("expenses.uuid, expenses.title, expenses.value, categories.name AS category_name, expenses.date").
		Joins("LEFT JOIN categories ON categories.id = expenses.category_id").
		Where("expenses.user_id = ? AND expenses.date >= ? AND expenses.date < ?", userID, f.Range.Start, f.Range.End).
		Where("expenses.deleted_at IS NULL")

	if f.Category != "" {
		query = query.Where("categories.name = ?", f.Category)
	}
	if f.Title != "" {
		query = query.Where("LOWER(expenses.title) LIKE ?", "%"+escapeLike(strings.ToLower(f.Title))+"%")
	}

	var rows []expenseRow
	if err := query.Order("expenses.date DESC, expenses.id DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	items := make([]models.ExpenseListItem, 0, len(rows))
	for _, r := range rows {
		item := models.ExpenseListItem{
			UUID:  r.UUID,
			Title: r.Title,
			Value: r.Value,
			Date:  models.Day(r.Date),
		}
		if r.CategoryName != nil {
			item.Category = &models.CategoryRef{Name: *r.CategoryName}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *GormStore) WithTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func applyExpenseUpdate(e *models.Expense, upd ExpenseUpdate) {
	if upd.Title != nil {
		e.Title = *upd.Title
	}
	if upd.Value != nil {
		e.Value = *upd.Value
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.CategoryID != nil {
		id := *upd.CategoryID
		e.CategoryID = &id
	}
}
