package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"financas/logger"
	"financas/models"
	"financas/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const msgCreateExpenseFailed = "Internal error while creating expense"

// ExpenseMode 消费生成方式
type ExpenseMode string

const (
	ModeSimple      ExpenseMode = "simple"
	ModeInstallment ExpenseMode = "installment"
	ModeRecurring   ExpenseMode = "recurring"
)

// CreateExpenseInput 创建消费的请求
type CreateExpenseInput struct {
	Title        string
	Value        decimal.Decimal
	Date         time.Time
	CategoryID   *uint
	Installments *int
	IsRecurring  bool
	EndDate      *time.Time
}

// CreateExpenseResult 一次创建产生的全部记录
type CreateExpenseResult struct {
	Mode         ExpenseMode              `json:"mode"`
	Expenses     []models.Expense         `json:"expenses"`
	Installments []models.Installment     `json:"installments,omitempty"`
	Recurring    *models.RecurringExpense `json:"recurring,omitempty"`
}

// GeneratorLimits 单次请求允许生成的最大行数，0 表示不限制
type GeneratorLimits struct {
	MaxInstallments int
	MaxOccurrences  int
}

// ExpenseGenerator 根据一次创建请求生成单笔、分期或周期消费
type ExpenseGenerator struct {
	store  repository.Store
	limits GeneratorLimits
	log    *logger.Logger
}

func NewExpenseGenerator(store repository.Store, limits GeneratorLimits, log *logger.Logger) *ExpenseGenerator {
	if log == nil {
		log = logger.Discard()
	}
	return &ExpenseGenerator{
		store:  store,
		limits: limits,
		log:    log.WithComponent(logger.ComponentExpense),
	}
}

func (in *CreateExpenseInput) normalize() error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return BadRequest(MsgTitleRequired)
	}
	// 金额按分存储，与 decimal(12,2) 列一致
	in.Value = in.Value.Round(2)
	if !in.Value.IsPositive() {
		return BadRequest(MsgValueNotPositive)
	}
	if in.Installments != nil && *in.Installments < 1 {
		return BadRequest(MsgInvalidInstallment)
	}
	// categoryId 为 0 视为未指定
	if in.CategoryID != nil && *in.CategoryID == 0 {
		in.CategoryID = nil
	}
	in.Date = models.Day(in.Date)
	if in.EndDate != nil {
		end := models.Day(*in.EndDate)
		in.EndDate = &end
	}
	return nil
}

// CreateExpense 按请求生成消费记录
// 先确认用户存在，再校验请求；周期消费优先于分期，installments 为空或 1 时生成单笔消费
func (g *ExpenseGenerator) CreateExpense(ctx context.Context, userUUID string, in CreateExpenseInput) (*CreateExpenseResult, error) {
	user, err := findUser(ctx, g.store, userUUID, msgCreateExpenseFailed)
	if err != nil {
		return nil, logInternal(ctx, g.log, err, logger.FieldUser, userUUID)
	}
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if in.CategoryID != nil {
		if err := ensureCategory(ctx, g.store, *in.CategoryID, msgCreateExpenseFailed); err != nil {
			return nil, logInternal(ctx, g.log, err, logger.FieldUser, userUUID)
		}
	}

	var res *CreateExpenseResult
	switch {
	case in.IsRecurring:
		res, err = g.createRecurring(ctx, user, in)
	case in.Installments != nil && *in.Installments > 1:
		res, err = g.createInstallments(ctx, user, in)
	default:
		res, err = g.createSimple(ctx, user, in)
	}
	if err != nil {
		return nil, logInternal(ctx, g.log, Internal(err, msgCreateExpenseFailed), logger.FieldUser, userUUID)
	}

	g.log.InfoContext(ctx, "expense created",
		logger.FieldUser, userUUID,
		logger.FieldKind, string(res.Mode),
		logger.FieldCount, len(res.Expenses),
	)
	return res, nil
}

func (g *ExpenseGenerator) createSimple(ctx context.Context, user *models.User, in CreateExpenseInput) (*CreateExpenseResult, error) {
	e := models.Expense{
		UserID:     user.ID,
		Title:      in.Title,
		Value:      in.Value,
		Date:       in.Date,
		CategoryID: in.CategoryID,
	}
	if err := g.store.CreateExpense(ctx, &e); err != nil {
		return nil, err
	}
	return &CreateExpenseResult{Mode: ModeSimple, Expenses: []models.Expense{e}}, nil
}

func (g *ExpenseGenerator) createRecurring(ctx context.Context, user *models.User, in CreateExpenseInput) (*CreateExpenseResult, error) {
	if in.EndDate == nil {
		return nil, BadRequest(MsgEndDateRequired)
	}
	if in.Date.After(*in.EndDate) {
		return nil, BadRequest(MsgStartAfterEnd)
	}
	dates, err := RecurringDates(in.Date, *in.EndDate, g.limits.MaxOccurrences)
	if err != nil {
		return nil, err
	}

	def := models.RecurringExpense{
		UserID:      user.ID,
		Title:       in.Title,
		Value:       in.Value,
		CategoryID:  in.CategoryID,
		NextDueDate: in.Date,
		EndDate:     *in.EndDate,
		Frequency:   models.FrequencyMonthly,
	}
	expenses := make([]models.Expense, len(dates))

	err = g.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateRecurringExpense(ctx, &def); err != nil {
			return err
		}
		for i, d := range dates {
			expenses[i] = models.Expense{
				UserID:             user.ID,
				Title:              in.Title,
				Value:              in.Value,
				Date:               d,
				CategoryID:         in.CategoryID,
				RecurringExpenseID: &def.ID,
			}
		}
		return tx.CreateExpenses(ctx, expenses)
	})
	if err != nil {
		return nil, err
	}
	return &CreateExpenseResult{Mode: ModeRecurring, Expenses: expenses, Recurring: &def}, nil
}

func (g *ExpenseGenerator) createInstallments(ctx context.Context, user *models.User, in CreateExpenseInput) (*CreateExpenseResult, error) {
	n := *in.Installments
	if limit := g.limits.MaxInstallments; limit > 0 && n > limit {
		return nil, BadRequest(fmt.Sprintf("Installments cannot exceed %d", limit))
	}

	values, err := SplitValue(in.Value, n)
	if err != nil {
		return nil, err
	}
	group := uuid.NewString()
	expenses := make([]models.Expense, n)
	installments := make([]models.Installment, n)

	err = g.store.WithTx(ctx, func(tx repository.Store) error {
		// 逐条创建，分期明细需要每条消费的 ID
		for i := 0; i < n; i++ {
			expenses[i] = models.Expense{
				UserID:           user.ID,
				Title:            InstallmentTitle(in.Title, i+1, n),
				Value:            values[i],
				Date:             AddMonthsClamped(in.Date, i),
				CategoryID:       in.CategoryID,
				InstallmentGroup: &group,
			}
			if err := tx.CreateExpense(ctx, &expenses[i]); err != nil {
				return err
			}
		}
		for i, e := range expenses {
			installments[i] = models.Installment{
				GroupUUID:         group,
				ExpenseID:         e.ID,
				Number:            i + 1,
				TotalInstallments: n,
				Title:             e.Title,
				Value:             e.Value,
				Date:              e.Date,
			}
		}
		return tx.CreateInstallments(ctx, installments)
	})
	if err != nil {
		return nil, err
	}
	return &CreateExpenseResult{Mode: ModeInstallment, Expenses: expenses, Installments: installments}, nil
}

// InstallmentTitle 分期标题，如 "TV (Parcela 1/3)"
func InstallmentTitle(title string, number, total int) string {
	return fmt.Sprintf("%s (Parcela %d/%d)", title, number, total)
}

// SplitValue 把 total 均分为 n 份，每份向下取整到分，余数计入最后一份
// 每份不足 0.01 时返回 BadRequest，保证每一期都是正数
func SplitValue(total decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n < 1 {
		return nil, BadRequest(MsgInvalidInstallment)
	}
	count := decimal.NewFromInt(int64(n))
	share := total.Div(count).RoundFloor(2)
	if !share.IsPositive() {
		return nil, BadRequest(fmt.Sprintf("Value is too small to split into %d installments", n))
	}
	out := make([]decimal.Decimal, n)
	for i := 0; i < n-1; i++ {
		out[i] = share
	}
	out[n-1] = total.Sub(share.Mul(decimal.NewFromInt(int64(n - 1))))
	return out, nil
}

// RecurringDates 从 start 起每月一次直到 end（含），日按月末截断
// limit > 0 时超过 limit 次返回 BadRequest
func RecurringDates(start, end time.Time, limit int) ([]time.Time, error) {
	var dates []time.Time
	for i := 0; ; i++ {
		d := AddMonthsClamped(start, i)
		if d.After(end) {
			break
		}
		if limit > 0 && len(dates) == limit {
			return nil, BadRequest(fmt.Sprintf("Recurring expenses cannot exceed %d occurrences", limit))
		}
		dates = append(dates, d)
	}
	return dates, nil
}
