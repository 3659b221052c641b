package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"financas/models"
	"financas/repository"
	"financas/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboard(t *testing.T) (*DashboardAggregator, *memory.Store, *models.User) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.CreateUser(ctx, user))

	require.NoError(t, store.CreateEntry(ctx, &models.Entry{UserID: user.ID, Value: dec("3000"), Date: day("2025-03-01")}))
	require.NoError(t, store.CreateEntry(ctx, &models.Entry{UserID: user.ID, Value: dec("500.50"), Date: day("2025-03-31")}))
	require.NoError(t, store.CreateEntry(ctx, &models.Entry{UserID: user.ID, Value: dec("9999"), Date: day("2025-04-01")}))
	require.NoError(t, store.CreateExpenses(ctx, []models.Expense{
		{UserID: user.ID, Title: "Gym", Value: dec("100"), Date: day("2025-03-10"), CategoryID: uintPtr(5)},
		{UserID: user.ID, Title: "Groceries", Value: dec("250.25"), Date: day("2025-03-12"), CategoryID: uintPtr(1)},
		{UserID: user.ID, Title: "GYM shoes", Value: dec("300"), Date: day("2025-03-20"), CategoryID: uintPtr(7)},
		{UserID: user.ID, Title: "Old", Value: dec("80"), Date: day("2025-02-28")},
	}))

	a := NewDashboardAggregator(store, nil)
	a.SetClock(func() time.Time { return time.Date(2025, 3, 18, 12, 0, 0, 0, time.UTC) })
	return a, store, user
}

func TestGetDashboard_CurrentMonth(t *testing.T) {
	a, _, user := setupDashboard(t)

	d, err := a.GetDashboard(context.Background(), user.UUID, DashboardFilters{})
	require.NoError(t, err)
	assert.Equal(t, "Ana", d.User.Name)
	assert.True(t, d.User.Income.Equal(dec("3500.50")), d.User.Income.String())
	assert.True(t, d.User.Expenses.Equal(dec("650.25")), d.User.Expenses.String())
	assert.True(t, d.User.Balance.Equal(dec("2850.25")), d.User.Balance.String())

	require.Len(t, d.Expenses, 3)
	assert.Equal(t, "GYM shoes", d.Expenses[0].Title)
	assert.Equal(t, "Groceries", d.Expenses[1].Title)
	assert.Equal(t, "Gym", d.Expenses[2].Title)
}

func TestGetDashboard_EmptyWindow(t *testing.T) {
	a, _, user := setupDashboard(t)

	d, err := a.GetDashboard(context.Background(), user.UUID, DashboardFilters{Month: "2024-01"})
	require.NoError(t, err)
	assert.True(t, d.User.Income.IsZero())
	assert.True(t, d.User.Expenses.IsZero())
	assert.True(t, d.User.Balance.IsZero())
	assert.NotNil(t, d.Expenses)
	assert.Empty(t, d.Expenses)

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":{"name":"Ana","balance":0,"income":0,"expenses":0},"expenses":[]}`, string(raw))
}

func TestGetDashboard_CategoryFilterIsExact(t *testing.T) {
	a, _, user := setupDashboard(t)
	ctx := context.Background()

	food, err := a.GetDashboard(ctx, user.UUID, DashboardFilters{Month: "2025-03", Category: string(models.CategoryFood)})
	require.NoError(t, err)
	require.Len(t, food.Expenses, 1)
	assert.Equal(t, "Groceries", food.Expenses[0].Title)

	health, err := a.GetDashboard(ctx, user.UUID, DashboardFilters{Month: "2025-03", Category: string(models.CategoryHealth)})
	require.NoError(t, err)
	require.Len(t, health.Expenses, 1)
	assert.Equal(t, "Gym", health.Expenses[0].Title)
	assert.Equal(t, "Saúde", health.Expenses[0].Category.Name)

	partial, err := a.GetDashboard(ctx, user.UUID, DashboardFilters{Month: "2025-03", Category: "Saú"})
	require.NoError(t, err)
	assert.Empty(t, partial.Expenses)

	// 筛选只影响明细，汇总仍按整月计算
	assert.True(t, health.User.Expenses.Equal(dec("650.25")))
}

func TestGetDashboard_TitleFilterIsCaseInsensitive(t *testing.T) {
	a, _, user := setupDashboard(t)

	d, err := a.GetDashboard(context.Background(), user.UUID, DashboardFilters{Month: "2025-03", Title: "gym"})
	require.NoError(t, err)
	require.Len(t, d.Expenses, 2)
	assert.Equal(t, "GYM shoes", d.Expenses[0].Title)
	assert.Equal(t, "Gym", d.Expenses[1].Title)
}

func TestGetDashboard_Idempotent(t *testing.T) {
	a, _, user := setupDashboard(t)
	f := DashboardFilters{Month: "2025-03", Title: "g"}

	first, err := a.GetDashboard(context.Background(), user.UUID, f)
	require.NoError(t, err)
	second, err := a.GetDashboard(context.Background(), user.UUID, f)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetDashboard_Errors(t *testing.T) {
	a, _, user := setupDashboard(t)
	ctx := context.Background()

	_, err := a.GetDashboard(ctx, "missing", DashboardFilters{})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, MsgUserNotFound)

	_, err = a.GetDashboard(ctx, user.UUID, DashboardFilters{Month: "março"})
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.EqualError(t, err, MsgInvalidMonth)
}

// failingSums 汇总查询失败的 Store
type failingSums struct {
	repository.Store
}

func (failingSums) SumExpenses(context.Context, uint, repository.DateRange) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("timeout")
}

func TestGetDashboard_StoreFailureIsInternal(t *testing.T) {
	_, store, user := setupDashboard(t)
	a := NewDashboardAggregator(failingSums{Store: store}, nil)

	_, err := a.GetDashboard(context.Background(), user.UUID, DashboardFilters{Month: "2025-03"})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, msgDashboardFailed, err.(*Error).Message)
}
