package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"financas/models"
	"financas/repository/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
func timePtr(s string) *time.Time {
	t := day(s)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func setupGenerator(t *testing.T) (*ExpenseGenerator, *memory.Store, *models.User) {
	t.Helper()
	store := memory.New()
	user := &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	g := NewExpenseGenerator(store, GeneratorLimits{MaxInstallments: 120, MaxOccurrences: 600}, nil)
	return g, store, user
}

func TestCreateExpense_Simple(t *testing.T) {
	g, store, user := setupGenerator(t)

	res, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "Coffee",
		Value: dec("10"),
		Date:  day("2025-03-05"),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, res.Mode)

	rows := store.Expenses()
	require.Len(t, rows, 1)
	assert.Equal(t, "Coffee", rows[0].Title)
	assert.True(t, rows[0].Value.Equal(dec("10")))
	assert.Equal(t, day("2025-03-05"), rows[0].Date)
	assert.Equal(t, user.ID, rows[0].UserID)
	assert.Nil(t, rows[0].CategoryID)
	assert.Nil(t, rows[0].InstallmentGroup)
	assert.Nil(t, rows[0].RecurringExpenseID)
	assert.Empty(t, store.Installments())
	assert.Empty(t, store.RecurringExpenses())
}

func TestCreateExpense_SingleInstallmentIsSimple(t *testing.T) {
	g, store, user := setupGenerator(t)

	res, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:        "Book",
		Value:        dec("80"),
		Date:         day("2025-03-05"),
		Installments: intPtr(1),
		CategoryID:   uintPtr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeSimple, res.Mode)
	require.Len(t, store.Expenses(), 1)
	assert.Equal(t, "Book", store.Expenses()[0].Title)
	assert.Equal(t, uint(6), *store.Expenses()[0].CategoryID)
	assert.Empty(t, store.Installments())
}

func TestCreateExpense_Installments(t *testing.T) {
	g, store, user := setupGenerator(t)

	res, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:        "TV",
		Value:        dec("1200"),
		Date:         day("2025-01-31"),
		Installments: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeInstallment, res.Mode)

	rows := store.Expenses()
	require.Len(t, rows, 3)
	wantDates := []string{"2025-01-31", "2025-02-28", "2025-03-31"}
	wantTitles := []string{"TV (Parcela 1/3)", "TV (Parcela 2/3)", "TV (Parcela 3/3)"}
	for i, e := range rows {
		assert.Equal(t, day(wantDates[i]), e.Date)
		assert.Equal(t, wantTitles[i], e.Title)
		assert.True(t, e.Value.Equal(dec("400")), e.Value.String())
		require.NotNil(t, e.InstallmentGroup)
		assert.Equal(t, *rows[0].InstallmentGroup, *e.InstallmentGroup)
	}

	legs := store.Installments()
	require.Len(t, legs, 3)
	for i, in := range legs {
		assert.Equal(t, rows[i].ID, in.ExpenseID)
		assert.Equal(t, i+1, in.Number)
		assert.Equal(t, 3, in.TotalInstallments)
		assert.Equal(t, rows[i].Title, in.Title)
		assert.Equal(t, rows[i].Date, in.Date)
		assert.True(t, in.Value.Equal(dec("400")))
		assert.Equal(t, *rows[0].InstallmentGroup, in.GroupUUID)
	}
}

func TestCreateExpense_InstallmentRemainder(t *testing.T) {
	g, store, user := setupGenerator(t)

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:        "Course",
		Value:        dec("100"),
		Date:         day("2025-05-10"),
		Installments: intPtr(3),
	})
	require.NoError(t, err)

	rows := store.Expenses()
	require.Len(t, rows, 3)
	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(e.Value)
	}
	assert.True(t, total.Equal(dec("100")))
	assert.True(t, rows[0].Value.Equal(dec("33.33")))
	assert.True(t, rows[1].Value.Equal(dec("33.33")))
	assert.True(t, rows[2].Value.Equal(dec("33.34")))
}

func TestCreateExpense_RecurringClampAndBound(t *testing.T) {
	g, store, user := setupGenerator(t)

	res, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:       "Rent",
		Value:       dec("500"),
		Date:        day("2025-01-31"),
		IsRecurring: true,
		EndDate:     timePtr("2025-04-15"),
		CategoryID:  uintPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeRecurring, res.Mode)

	defs := store.RecurringExpenses()
	require.Len(t, defs, 1)
	assert.Equal(t, day("2025-01-31"), defs[0].NextDueDate)
	assert.Equal(t, day("2025-04-15"), defs[0].EndDate)
	assert.Equal(t, models.FrequencyMonthly, defs[0].Frequency)

	rows := store.Expenses()
	require.Len(t, rows, 3)
	for i, want := range []string{"2025-01-31", "2025-02-28", "2025-03-31"} {
		assert.Equal(t, day(want), rows[i].Date)
		assert.Equal(t, "Rent", rows[i].Title)
		assert.True(t, rows[i].Value.Equal(dec("500")))
		assert.Equal(t, uint(4), *rows[i].CategoryID)
		require.NotNil(t, rows[i].RecurringExpenseID)
		assert.Equal(t, defs[0].ID, *rows[i].RecurringExpenseID)
		assert.False(t, rows[i].Date.After(defs[0].EndDate))
	}
	assert.Empty(t, store.Installments())
}

func TestCreateExpense_RecurringSameDay(t *testing.T) {
	g, store, user := setupGenerator(t)

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:       "Gym",
		Value:       dec("90"),
		Date:        day("2025-06-10"),
		IsRecurring: true,
		EndDate:     timePtr("2025-06-10"),
	})
	require.NoError(t, err)
	require.Len(t, store.Expenses(), 1)
}

func TestCreateExpense_RecurringTakesPrecedenceOverInstallments(t *testing.T) {
	g, store, user := setupGenerator(t)

	res, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title:        "Streaming",
		Value:        dec("30"),
		Date:         day("2025-01-01"),
		IsRecurring:  true,
		EndDate:      timePtr("2025-02-01"),
		Installments: intPtr(6),
	})
	require.NoError(t, err)
	assert.Equal(t, ModeRecurring, res.Mode)
	assert.Len(t, store.Expenses(), 2)
	assert.Empty(t, store.Installments())
}

func TestCreateExpense_RecurringValidation(t *testing.T) {
	g, store, user := setupGenerator(t)
	ctx := context.Background()

	_, err := g.CreateExpense(ctx, user.UUID, CreateExpenseInput{
		Title: "Rent", Value: dec("500"), Date: day("2025-01-31"), IsRecurring: true,
	})
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.EqualError(t, err, MsgEndDateRequired)

	_, err = g.CreateExpense(ctx, user.UUID, CreateExpenseInput{
		Title: "Rent", Value: dec("500"), Date: day("2025-05-01"), IsRecurring: true,
		EndDate: timePtr("2025-04-30"), Installments: intPtr(3),
	})
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.EqualError(t, err, MsgStartAfterEnd)

	assert.Empty(t, store.Expenses())
	assert.Empty(t, store.RecurringExpenses())
}

func TestCreateExpense_NotFound(t *testing.T) {
	g, store, user := setupGenerator(t)
	ctx := context.Background()

	_, err := g.CreateExpense(ctx, "00000000-0000-4000-8000-000000000000", CreateExpenseInput{
		Title: "Coffee", Value: dec("10"), Date: day("2025-03-05"),
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, MsgUserNotFound)

	_, err = g.CreateExpense(ctx, user.UUID, CreateExpenseInput{
		Title: "Coffee", Value: dec("10"), Date: day("2025-03-05"), CategoryID: uintPtr(99),
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, MsgCategoryNotExists)

	assert.Empty(t, store.Expenses())
}

func TestCreateExpense_InputValidation(t *testing.T) {
	g, _, user := setupGenerator(t)
	ctx := context.Background()

	cases := map[string]CreateExpenseInput{
		"blank title":      {Title: "  ", Value: dec("1"), Date: day("2025-01-01")},
		"zero value":       {Title: "A", Value: decimal.Zero, Date: day("2025-01-01")},
		"negative value":   {Title: "A", Value: dec("-5"), Date: day("2025-01-01")},
		"zero installment": {Title: "A", Value: dec("5"), Date: day("2025-01-01"), Installments: intPtr(0)},
		"too many":         {Title: "A", Value: dec("5"), Date: day("2025-01-01"), Installments: intPtr(121)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := g.CreateExpense(ctx, user.UUID, in)
			assert.Equal(t, KindBadRequest, KindOf(err))
		})
	}
}

func TestCreateExpense_MaxOccurrences(t *testing.T) {
	store := memory.New()
	user := &models.User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	g := NewExpenseGenerator(store, GeneratorLimits{MaxOccurrences: 12}, nil)

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "Rent", Value: dec("500"), Date: day("2025-01-01"), IsRecurring: true, EndDate: timePtr("2025-12-31"),
	})
	require.NoError(t, err)

	_, err = g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "Rent", Value: dec("500"), Date: day("2025-01-01"), IsRecurring: true, EndDate: timePtr("2026-01-01"),
	})
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.Len(t, store.Expenses(), 12)
}

func TestCreateExpense_InstallmentRollback(t *testing.T) {
	g, store, user := setupGenerator(t)
	disk := errors.New("disk full")
	store.FailHook = func(op string) error {
		if op == "CreateInstallments" {
			return disk
		}
		return nil
	}

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "TV", Value: dec("1200"), Date: day("2025-01-31"), Installments: intPtr(3),
	})
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, disk)
	assert.Equal(t, msgCreateExpenseFailed, err.(*Error).Message)

	assert.Empty(t, store.Expenses())
	assert.Empty(t, store.Installments())
}

func TestCreateExpense_RecurringRollback(t *testing.T) {
	g, store, user := setupGenerator(t)
	store.FailHook = func(op string) error {
		if op == "CreateExpenses" {
			return errors.New("connection reset")
		}
		return nil
	}

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "Rent", Value: dec("500"), Date: day("2025-01-31"), IsRecurring: true, EndDate: timePtr("2025-06-30"),
	})
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, store.RecurringExpenses())
	assert.Empty(t, store.Expenses())
}

func TestSplitValue(t *testing.T) {
	tests := []struct {
		total string
		n     int
		want  []string
	}{
		{"1200", 3, []string{"400", "400", "400"}},
		{"100", 3, []string{"33.33", "33.33", "33.34"}},
		{"10", 4, []string{"2.5", "2.5", "2.5", "2.5"}},
		{"0.05", 2, []string{"0.02", "0.03"}},
		{"10", 7, []string{"1.42", "1.42", "1.42", "1.42", "1.42", "1.42", "1.48"}},
		{"2", 3, []string{"0.66", "0.66", "0.68"}},
		{"99.99", 1, []string{"99.99"}},
	}
	for _, tt := range tests {
		got, err := SplitValue(dec(tt.total), tt.n)
		require.NoError(t, err)
		require.Len(t, got, tt.n)
		sum := decimal.Zero
		for i, v := range got {
			assert.True(t, v.Equal(dec(tt.want[i])), "%s/%d leg %d = %s", tt.total, tt.n, i, v)
			assert.True(t, v.IsPositive())
			sum = sum.Add(v)
		}
		assert.True(t, sum.Equal(dec(tt.total)))
	}

	_, err := SplitValue(dec("1"), 0)
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestSplitValue_BelowOneCentPerLeg(t *testing.T) {
	for _, tt := range []struct {
		total string
		n     int
	}{
		{"1.00", 120},
		{"0.05", 7},
		{"0.02", 3},
	} {
		got, err := SplitValue(dec(tt.total), tt.n)
		assert.Nil(t, got)
		assert.Equal(t, KindBadRequest, KindOf(err), "%s/%d", tt.total, tt.n)
	}

	// 恰好每期 1 分
	got, err := SplitValue(dec("1.20"), 120)
	require.NoError(t, err)
	for _, v := range got {
		assert.True(t, v.Equal(dec("0.01")))
	}
}

func TestCreateExpense_InstallmentsTooSmall(t *testing.T) {
	g, store, user := setupGenerator(t)

	_, err := g.CreateExpense(context.Background(), user.UUID, CreateExpenseInput{
		Title: "Gum", Value: dec("1.00"), Date: day("2025-01-01"), Installments: intPtr(120),
	})
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.Empty(t, store.Expenses())
	assert.Empty(t, store.Installments())
}

func TestCreateExpense_ValueRoundedToCents(t *testing.T) {
	g, store, user := setupGenerator(t)
	ctx := context.Background()

	res, err := g.CreateExpense(ctx, user.UUID, CreateExpenseInput{
		Title: "Lunch", Value: dec("10.005"), Date: day("2025-01-10"), Installments: intPtr(2),
	})
	require.NoError(t, err)
	require.Len(t, res.Expenses, 2)
	assert.Equal(t, "5.00", res.Expenses[0].Value.StringFixed(2))
	assert.Equal(t, "5.01", res.Expenses[1].Value.StringFixed(2))
	for _, e := range store.Expenses() {
		assert.LessOrEqual(t, -e.Value.Exponent(), int32(2), e.Value.String())
	}

	res, err = g.CreateExpense(ctx, user.UUID, CreateExpenseInput{Title: "Tip", Value: dec("3.14159"), Date: day("2025-01-10")})
	require.NoError(t, err)
	assert.True(t, res.Expenses[0].Value.Equal(dec("3.14")))

	_, err = g.CreateExpense(ctx, user.UUID, CreateExpenseInput{Title: "Dust", Value: dec("0.004"), Date: day("2025-01-10")})
	assert.Equal(t, KindBadRequest, KindOf(err))
	assert.EqualError(t, err, MsgValueNotPositive)
}

func TestCreateExpense_UnknownUserBeforeInputChecks(t *testing.T) {
	g, _, _ := setupGenerator(t)

	_, err := g.CreateExpense(context.Background(), "00000000-0000-0000-0000-000000000000", CreateExpenseInput{
		Title: " ", Value: decimal.Zero, Date: day("2025-01-01"),
	})
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.EqualError(t, err, MsgUserNotFound)
}

func TestRecurringDates(t *testing.T) {
	dates, err := RecurringDates(day("2024-01-31"), day("2024-03-30"), 0)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day("2024-01-31"), day("2024-02-29")}, dates)

	_, err = RecurringDates(day("2024-01-01"), day("2024-12-31"), 6)
	assert.Equal(t, KindBadRequest, KindOf(err))
}
