package service

import (
	"context"
	"strings"
	"time"

	"financas/logger"
	"financas/models"
	"financas/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const msgDashboardFailed = "Internal error while loading dashboard"

// DashboardFilters 看板筛选条件
type DashboardFilters struct {
	Month    string // YYYY-MM，空为当月
	Category string // 类别名，精确匹配
	Title    string // 标题子串，不区分大小写
}

// DashboardSummary 看板汇总
type DashboardSummary struct {
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// Dashboard 看板数据
type Dashboard struct {
	User     DashboardSummary         `json:"user"`
	Expenses []models.ExpenseListItem `json:"expenses"`
}

// DashboardAggregator 按月汇总收入、支出与消费明细，只读
type DashboardAggregator struct {
	store repository.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewDashboardAggregator(store repository.Store, log *logger.Logger) *DashboardAggregator {
	if log == nil {
		log = logger.Discard()
	}
	return &DashboardAggregator{
		store: store,
		log:   log.WithComponent(logger.ComponentDashboard),
		now:   time.Now,
	}
}

// SetClock 替换当前时间来源，用于确定"当月"
func (a *DashboardAggregator) SetClock(now func() time.Time) {
	a.now = now
}

// GetDashboard 计算指定月份的余额、收入、支出和筛选后的消费明细
func (a *DashboardAggregator) GetDashboard(ctx context.Context, userUUID string, f DashboardFilters) (*Dashboard, error) {
	user, err := findUser(ctx, a.store, userUUID, msgDashboardFailed)
	if err != nil {
		return nil, logInternal(ctx, a.log, err, logger.FieldUser, userUUID)
	}
	month, err := ParseMonth(f.Month, a.now())
	if err != nil {
		return nil, err
	}

	window := MonthWindow(month)
	var (
		income, spent decimal.Decimal
		items         []models.ExpenseListItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = a.store.SumEntries(gctx, user.ID, window)
		return err
	})
	g.Go(func() error {
		var err error
		spent, err = a.store.SumExpenses(gctx, user.ID, window)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = a.store.FindExpenses(gctx, user.ID, repository.ExpenseFilter{
			Range:    window,
			Category: strings.TrimSpace(f.Category),
			Title:    strings.TrimSpace(f.Title),
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, logInternal(ctx, a.log, Internal(err, msgDashboardFailed),
			logger.FieldUser, userUUID, logger.FieldMonth, month.Format(models.MonthLayout))
	}
	if items == nil {
		items = []models.ExpenseListItem{}
	}

	return &Dashboard{
		User: DashboardSummary{
			Name:     user.Name,
			Balance:  income.Sub(spent),
			Income:   income,
			Expenses: spent,
		},
		Expenses: items,
	}, nil
}
