package service

import (
	"context"
	"strings"
	"time"

	"financas/logger"
	"financas/models"
	"financas/repository"

	"github.com/shopspring/decimal"
)

const (
	msgCreateEntryFailed    = "Internal error while creating entry"
	msgUpdateExpenseFailed  = "Internal error while updating expense"
	msgDeleteExpenseFailed  = "Internal error while deleting expense"
	msgListCategoriesFailed = "Internal error while listing categories"
)

// CreateEntryInput 收入记录
type CreateEntryInput struct {
	Value decimal.Decimal
	Date  time.Time
}

// UpdateExpenseInput nil 字段保持不变
type UpdateExpenseInput struct {
	Title      *string
	Value      *decimal.Decimal
	Date       *time.Time
	CategoryID *uint
}

// TransactionService 收入登记、单条消费维护、类别查询
type TransactionService struct {
	store repository.Store
	log   *logger.Logger
}

func NewTransactionService(store repository.Store, log *logger.Logger) *TransactionService {
	if log == nil {
		log = logger.Discard()
	}
	return &TransactionService{store: store, log: log.WithComponent(logger.ComponentExpense)}
}

// CreateEntry 登记一笔收入
func (s *TransactionService) CreateEntry(ctx context.Context, userUUID string, in CreateEntryInput) (*models.Entry, error) {
	in.Value = in.Value.Round(2)
	if !in.Value.IsPositive() {
		return nil, BadRequest(MsgValueNotPositive)
	}
	user, err := findUser(ctx, s.store, userUUID, msgCreateEntryFailed)
	if err != nil {
		return nil, logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
	}
	entry := &models.Entry{UserID: user.ID, Value: in.Value, Date: models.Day(in.Date)}
	if err := s.store.CreateEntry(ctx, entry); err != nil {
		return nil, logInternal(ctx, s.log, Internal(err, msgCreateEntryFailed), logger.FieldUser, userUUID)
	}
	return entry, nil
}

// ownedExpense 查找属于该用户的消费，他人的记录同样视为不存在
func (s *TransactionService) ownedExpense(ctx context.Context, userUUID, expenseUUID, fallback string) (*models.Expense, error) {
	user, err := findUser(ctx, s.store, userUUID, fallback)
	if err != nil {
		return nil, err
	}
	expense, err := s.store.FindExpenseByUUID(ctx, expenseUUID)
	if err != nil {
		return nil, notFoundOr(err, MsgExpenseNotFound, fallback)
	}
	if expense.UserID != user.ID {
		return nil, NotFound(MsgExpenseNotFound)
	}
	return expense, nil
}

// UpdateExpense 修改单条消费，不影响同组的其它分期或周期记录
func (s *TransactionService) UpdateExpense(ctx context.Context, userUUID, expenseUUID string, in UpdateExpenseInput) (*models.Expense, error) {
	var upd repository.ExpenseUpdate
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, BadRequest(MsgTitleRequired)
		}
		upd.Title = &title
	}
	if in.Value != nil {
		value := in.Value.Round(2)
		if !value.IsPositive() {
			return nil, BadRequest(MsgValueNotPositive)
		}
		upd.Value = &value
	}
	if in.Date != nil {
		d := models.Day(*in.Date)
		upd.Date = &d
	}

	expense, err := s.ownedExpense(ctx, userUUID, expenseUUID, msgUpdateExpenseFailed)
	if err != nil {
		return nil, logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
	}
	if in.CategoryID != nil && *in.CategoryID != 0 {
		if err := ensureCategory(ctx, s.store, *in.CategoryID, msgUpdateExpenseFailed); err != nil {
			return nil, logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
		}
		upd.CategoryID = in.CategoryID
	}

	if err := s.store.UpdateExpense(ctx, expense, upd); err != nil {
		return nil, logInternal(ctx, s.log, notFoundOr(err, MsgExpenseNotFound, msgUpdateExpenseFailed), logger.FieldUser, userUUID)
	}
	return expense, nil
}

// DeleteExpense 删除单条消费及其分期明细
func (s *TransactionService) DeleteExpense(ctx context.Context, userUUID, expenseUUID string) error {
	expense, err := s.ownedExpense(ctx, userUUID, expenseUUID, msgDeleteExpenseFailed)
	if err != nil {
		return logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
	}
	if err := s.store.DeleteExpense(ctx, expense); err != nil {
		return logInternal(ctx, s.log, notFoundOr(err, MsgExpenseNotFound, msgDeleteExpenseFailed), logger.FieldUser, userUUID)
	}
	s.log.InfoContext(ctx, "expense deleted", logger.FieldUser, userUUID, "expense", expenseUUID)
	return nil
}

// ListCategories 全部消费类别，按 ID 排序
func (s *TransactionService) ListCategories(ctx context.Context) ([]models.Category, error) {
	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, logInternal(ctx, s.log, Internal(err, msgListCategoriesFailed))
	}
	return list, nil
}
