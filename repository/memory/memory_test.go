package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"financas/models"
	"financas/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func uintPtr(v uint) *uint { return &v }

func TestStore_UserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Len(t, u.UUID, 36)

	got, err := s.FindUserByUUID(ctx, u.UUID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	_, err = s.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	dup := &models.User{Name: "Other", Email: "ana@example.com"}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), repository.ErrDuplicate)

	name := "Ana Maria"
	require.NoError(t, s.UpdateUser(ctx, got, repository.UserUpdate{Name: &name}))
	again, _ := s.FindUserByEmail(ctx, "ana@example.com")
	assert.Equal(t, "Ana Maria", again.Name)
}

func TestStore_CategoriesSeeded(t *testing.T) {
	s := New()
	list, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 10)

	c, err := s.FindCategoryByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryHealth, c.Name)

	_, err = s.FindCategoryByID(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_SumsAndFilters(t *testing.T) {
	ctx := context.Background()
	s := New()
	march := repository.DateRange{Start: day("2025-03-01"), End: day("2025-04-01")}

	require.NoError(t, s.CreateEntry(ctx, &models.Entry{UserID: 1, Value: decimal.NewFromInt(3000), Date: day("2025-03-01")}))
	require.NoError(t, s.CreateEntry(ctx, &models.Entry{UserID: 1, Value: decimal.NewFromInt(999), Date: day("2025-04-01")}))
	require.NoError(t, s.CreateExpenses(ctx, []models.Expense{
		{UserID: 1, Title: "Gym", Value: decimal.NewFromInt(100), Date: day("2025-03-10"), CategoryID: uintPtr(5)},
		{UserID: 1, Title: "Groceries", Value: decimal.NewFromInt(250), Date: day("2025-03-20"), CategoryID: uintPtr(1)},
		{UserID: 1, Title: "gym bag", Value: decimal.NewFromInt(50), Date: day("2025-03-20")},
		{UserID: 2, Title: "Gym", Value: decimal.NewFromInt(70), Date: day("2025-03-10")},
	}))

	income, err := s.SumEntries(ctx, 1, march)
	require.NoError(t, err)
	assert.True(t, income.Equal(decimal.NewFromInt(3000)))

	spent, err := s.SumExpenses(ctx, 1, march)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.NewFromInt(400)))

	all, err := s.FindExpenses(ctx, 1, repository.ExpenseFilter{Range: march})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// 日期倒序，同日按 ID 倒序
	assert.Equal(t, "gym bag", all[0].Title)
	assert.Nil(t, all[0].Category)
	assert.Equal(t, "Groceries", all[1].Title)
	assert.Equal(t, "Gym", all[2].Title)

	health, _ := s.FindExpenses(ctx, 1, repository.ExpenseFilter{Range: march, Category: "Saúde"})
	require.Len(t, health, 1)
	assert.Equal(t, "Saúde", health[0].Category.Name)

	gym, _ := s.FindExpenses(ctx, 1, repository.ExpenseFilter{Range: march, Title: "GYM"})
	assert.Len(t, gym, 2)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.CreateExpense(ctx, &models.Expense{UserID: 1, Title: "A", Value: decimal.NewFromInt(1), Date: day("2025-01-01")}))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Expenses())

	err = s.WithTx(ctx, func(tx repository.Store) error {
		return tx.CreateExpense(ctx, &models.Expense{UserID: 1, Title: "B", Value: decimal.NewFromInt(1), Date: day("2025-01-01")})
	})
	require.NoError(t, err)
	assert.Len(t, s.Expenses(), 1)
}

func TestStore_WithTxKeepsConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.CreateExpense(ctx, &models.Expense{UserID: 1, Title: "A", Value: decimal.NewFromInt(1), Date: day("2025-01-01")}))

		// 事务进行中，其他请求直接写入
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.CreateUser(ctx, &models.User{Name: "Bia", Email: "bia@example.com"}))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, s.CreateEntry(ctx, &models.Entry{UserID: 1, Value: decimal.NewFromInt(10), Date: day("2025-01-02")}))
		}()
		wg.Wait()
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Expenses())

	bia, err := s.FindUserByEmail(ctx, "bia@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bia", bia.Name)
	assert.Len(t, s.Entries(), 1)
}

func TestStore_WithTxUndoesUpdatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")

	e := &models.Expense{UserID: 1, Title: "TV", Value: decimal.NewFromInt(50), Date: day("2025-01-01")}
	gone := &models.Expense{UserID: 1, Title: "Radio", Value: decimal.NewFromInt(20), Date: day("2025-01-05")}
	require.NoError(t, s.CreateExpense(ctx, e))
	require.NoError(t, s.CreateExpense(ctx, gone))
	require.NoError(t, s.CreateInstallments(ctx, []models.Installment{{ExpenseID: gone.ID, Number: 1, TotalInstallments: 1}}))

	err := s.WithTx(ctx, func(tx repository.Store) error {
		title, loaded := "TV 4K", *e
		require.NoError(t, tx.UpdateExpense(ctx, &loaded, repository.ExpenseUpdate{Title: &title}))
		require.NoError(t, tx.DeleteExpense(ctx, gone))
		// 嵌套事务提交后随外层一起撤销
		return errors.Join(tx.WithTx(ctx, func(inner repository.Store) error {
			return inner.CreateEntry(ctx, &models.Entry{UserID: 1, Value: decimal.NewFromInt(5), Date: day("2025-01-03")})
		}), boom)
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.FindExpenseByUUID(ctx, e.UUID)
	require.NoError(t, err)
	assert.Equal(t, "TV", got.Title)
	_, err = s.FindExpenseByUUID(ctx, gone.UUID)
	assert.NoError(t, err)
	assert.Len(t, s.Installments(), 1)
	assert.Empty(t, s.Entries())
}

func TestStore_UpdateExpenseSyncsInstallment(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := &models.Expense{UserID: 1, Title: "TV (Parcela 1/2)", Value: decimal.NewFromInt(50), Date: day("2025-01-01")}
	require.NoError(t, s.CreateExpense(ctx, e))
	require.NoError(t, s.CreateInstallments(ctx, []models.Installment{
		{ExpenseID: e.ID, Number: 1, TotalInstallments: 2, Title: e.Title, Value: e.Value, Date: e.Date},
	}))

	value := decimal.RequireFromString("55.10")
	date := day("2025-01-10")
	require.NoError(t, s.UpdateExpense(ctx, e, repository.ExpenseUpdate{Value: &value, Date: &date}))

	legs := s.Installments()
	require.Len(t, legs, 1)
	assert.True(t, legs[0].Value.Equal(value))
	assert.Equal(t, date, legs[0].Date)
	assert.Equal(t, "TV (Parcela 1/2)", legs[0].Title)
	assert.Equal(t, 1, legs[0].Number)
}

func TestStore_DeleteExpenseRemovesInstallments(t *testing.T) {
	ctx := context.Background()
	s := New()

	e := &models.Expense{UserID: 1, Title: "TV (Parcela 1/2)", Value: decimal.NewFromInt(50), Date: day("2025-01-01")}
	other := &models.Expense{UserID: 1, Title: "TV (Parcela 2/2)", Value: decimal.NewFromInt(50), Date: day("2025-02-01")}
	require.NoError(t, s.CreateExpense(ctx, e))
	require.NoError(t, s.CreateExpense(ctx, other))
	require.NoError(t, s.CreateInstallments(ctx, []models.Installment{
		{ExpenseID: e.ID, Number: 1, TotalInstallments: 2},
		{ExpenseID: other.ID, Number: 2, TotalInstallments: 2},
	}))

	require.NoError(t, s.DeleteExpense(ctx, e))
	assert.Len(t, s.Expenses(), 1)
	require.Len(t, s.Installments(), 1)
	assert.Equal(t, other.ID, s.Installments()[0].ExpenseID)

	assert.ErrorIs(t, s.DeleteExpense(ctx, e), repository.ErrNotFound)
}

func TestStore_FailHook(t *testing.T) {
	s := New()
	s.FailHook = func(op string) error {
		if op == "CreateInstallments" {
			return errors.New("disk full")
		}
		return nil
	}
	assert.NoError(t, s.CreateExpense(context.Background(), &models.Expense{Title: "ok"}))
	assert.EqualError(t, s.CreateInstallments(context.Background(), []models.Installment{{}}), "disk full")
}
