// Package memory 内存版 Store，用于本地调试（database.driver: memory）和测试
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"financas/models"
	"financas/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store 内存存储，进程重启后数据丢失
type Store struct {
	mu   sync.RWMutex
	data snapshot

	// FailHook 不为 nil 时在每次写操作前调用，返回错误则该操作失败
	FailHook func(op string) error
}

type snapshot struct {
	seq          uint
	users        []models.User
	categories   []models.Category
	entries      []models.Entry
	expenses     []models.Expense
	installments []models.Installment
	recurring    []models.RecurringExpense
}

// journal 记录事务内每次写入的撤销动作；nil 表示不在事务中
type journal struct {
	undo []func()
}

func (j *journal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

// New 创建内存存储，预置全部消费类别
func New() *Store {
	return &Store{data: snapshot{categories: models.GetCategories()}}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) fail(op string) error {
	if s.FailHook != nil {
		return s.FailHook(op)
	}
	return nil
}

func (s *Store) nextID() uint {
	s.data.seq++
	return s.data.seq
}

// dropID 按 ID 删除一行，供撤销插入使用
func dropID[T any](list []T, id uint, idOf func(T) uint) []T {
	for i, v := range list {
		if idOf(v) == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// putID 按 ID 覆盖一行，供撤销更新使用
func putID[T any](list []T, row T, idOf func(T) uint) {
	for i, v := range list {
		if idOf(v) == idOf(row) {
			list[i] = row
			return
		}
	}
}

func userID(u models.User) uint               { return u.ID }
func entryID(e models.Entry) uint             { return e.ID }
func expenseID(e models.Expense) uint         { return e.ID }
func installmentID(i models.Installment) uint { return i.ID }
func recurringID(r models.RecurringExpense) uint {
	return r.ID
}

func (s *Store) FindUserByUUID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.users {
		if u.UUID == id {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.data.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	return s.createUser(user, nil)
}

func (s *Store) createUser(user *models.User, j *journal) error {
	if err := s.fail("CreateUser"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.data.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = s.nextID()
	if user.UUID == "" {
		user.UUID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.data.users = append(s.data.users, *user)
	id := user.ID
	j.record(func() { s.data.users = dropID(s.data.users, id, userID) })
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *models.User, upd repository.UserUpdate) error {
	return s.updateUser(user, upd, nil)
}

func (s *Store) updateUser(user *models.User, upd repository.UserUpdate, j *journal) error {
	if err := s.fail("UpdateUser"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, u := range s.data.users {
		if u.ID == user.ID {
			idx = i
		} else if upd.Email != nil && u.Email == *upd.Email {
			return repository.ErrDuplicate
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}
	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	prev := s.data.users[idx]
	j.record(func() { putID(s.data.users, prev, userID) })
	user.UpdatedAt = time.Now()
	s.data.users[idx] = *user
	return nil
}

func (s *Store) FindCategoryByID(_ context.Context, id uint) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.data.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := append([]models.Category(nil), s.data.categories...)
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *Store) CreateEntry(_ context.Context, entry *models.Entry) error {
	return s.createEntry(entry, nil)
}

func (s *Store) createEntry(entry *models.Entry, j *journal) error {
	if err := s.fail("CreateEntry"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.ID = s.nextID()
	if entry.UUID == "" {
		entry.UUID = uuid.NewString()
	}
	now := time.Now()
	entry.CreatedAt, entry.UpdatedAt = now, now
	s.data.entries = append(s.data.entries, *entry)
	id := entry.ID
	j.record(func() { s.data.entries = dropID(s.data.entries, id, entryID) })
	return nil
}

func (s *Store) CreateExpense(_ context.Context, expense *models.Expense) error {
	return s.createExpense(expense, nil)
}

func (s *Store) createExpense(expense *models.Expense, j *journal) error {
	if err := s.fail("CreateExpense"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertExpense(expense, j)
	return nil
}

func (s *Store) insertExpense(expense *models.Expense, j *journal) {
	expense.ID = s.nextID()
	if expense.UUID == "" {
		expense.UUID = uuid.NewString()
	}
	now := time.Now()
	expense.CreatedAt, expense.UpdatedAt = now, now
	s.data.expenses = append(s.data.expenses, *expense)
	id := expense.ID
	j.record(func() { s.data.expenses = dropID(s.data.expenses, id, expenseID) })
}

func (s *Store) CreateExpenses(_ context.Context, expenses []models.Expense) error {
	return s.createExpenses(expenses, nil)
}

func (s *Store) createExpenses(expenses []models.Expense, j *journal) error {
	if err := s.fail("CreateExpenses"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range expenses {
		s.insertExpense(&expenses[i], j)
	}
	return nil
}

func (s *Store) CreateInstallments(_ context.Context, installments []models.Installment) error {
	return s.createInstallments(installments, nil)
}

func (s *Store) createInstallments(installments []models.Installment, j *journal) error {
	if err := s.fail("CreateInstallments"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for i := range installments {
		installments[i].ID = s.nextID()
		installments[i].CreatedAt = now
		s.data.installments = append(s.data.installments, installments[i])
		id := installments[i].ID
		j.record(func() { s.data.installments = dropID(s.data.installments, id, installmentID) })
	}
	return nil
}

func (s *Store) CreateRecurringExpense(_ context.Context, def *models.RecurringExpense) error {
	return s.createRecurringExpense(def, nil)
}

func (s *Store) createRecurringExpense(def *models.RecurringExpense, j *journal) error {
	if err := s.fail("CreateRecurringExpense"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	def.ID = s.nextID()
	if def.UUID == "" {
		def.UUID = uuid.NewString()
	}
	now := time.Now()
	def.CreatedAt, def.UpdatedAt = now, now
	s.data.recurring = append(s.data.recurring, *def)
	id := def.ID
	j.record(func() { s.data.recurring = dropID(s.data.recurring, id, recurringID) })
	return nil
}

func (s *Store) FindExpenseByUUID(_ context.Context, id string) (*models.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.data.expenses {
		if e.UUID == id {
			e := e
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) UpdateExpense(_ context.Context, expense *models.Expense, upd repository.ExpenseUpdate) error {
	return s.updateExpense(expense, upd, nil)
}

// updateExpense 同步更新对应的分期明细，保持标题、金额和日期一致
func (s *Store) updateExpense(expense *models.Expense, upd repository.ExpenseUpdate, j *journal) error {
	if err := s.fail("UpdateExpense"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, e := range s.data.expenses {
		if e.ID == expense.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}

	prev := s.data.expenses[idx]
	j.record(func() { putID(s.data.expenses, prev, expenseID) })
	if upd.Title != nil {
		expense.Title = *upd.Title
	}
	if upd.Value != nil {
		expense.Value = *upd.Value
	}
	if upd.Date != nil {
		expense.Date = *upd.Date
	}
	if upd.CategoryID != nil {
		id := *upd.CategoryID
		expense.CategoryID = &id
	}
	expense.UpdatedAt = time.Now()
	s.data.expenses[idx] = *expense

	if upd.Title == nil && upd.Value == nil && upd.Date == nil {
		return nil
	}
	for i, in := range s.data.installments {
		if in.ExpenseID != expense.ID {
			continue
		}
		prevLeg := in
		j.record(func() { putID(s.data.installments, prevLeg, installmentID) })
		leg := &s.data.installments[i]
		leg.Title, leg.Value, leg.Date = expense.Title, expense.Value, expense.Date
	}
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, expense *models.Expense) error {
	return s.deleteExpense(expense, nil)
}

func (s *Store) deleteExpense(expense *models.Expense, j *journal) error {
	if err := s.fail("DeleteExpense"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, e := range s.data.expenses {
		if e.ID == expense.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return repository.ErrNotFound
	}

	removed := s.data.expenses[idx]
	s.data.expenses = append(s.data.expenses[:idx], s.data.expenses[idx+1:]...)
	var legs []models.Installment
	kept := s.data.installments[:0]
	for _, in := range s.data.installments {
		if in.ExpenseID == expense.ID {
			legs = append(legs, in)
		} else {
			kept = append(kept, in)
		}
	}
	s.data.installments = kept
	j.record(func() {
		s.data.expenses = append(s.data.expenses, removed)
		s.data.installments = append(s.data.installments, legs...)
	})
	return nil
}

func (s *Store) SumEntries(_ context.Context, userID uint, r repository.DateRange) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range s.data.entries {
		if e.UserID == userID && r.Contains(e.Date) {
			total = total.Add(e.Value)
		}
	}
	return total, nil
}

func (s *Store) SumExpenses(_ context.Context, userID uint, r repository.DateRange) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, e := range s.data.expenses {
		if e.UserID == userID && r.Contains(e.Date) {
			total = total.Add(e.Value)
		}
	}
	return total, nil
}

func (s *Store) FindExpenses(_ context.Context, userID uint, f repository.ExpenseFilter) ([]models.ExpenseListItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[uint]models.CategoryType, len(s.data.categories))
	for _, c := range s.data.categories {
		names[c.ID] = c.Name
	}
	title := strings.ToLower(f.Title)

	var matched []models.Expense
	for _, e := range s.data.expenses {
		if e.UserID != userID || !f.Range.Contains(e.Date) {
			continue
		}
		var catName string
		if e.CategoryID != nil {
			catName = string(names[*e.CategoryID])
		}
		if f.Category != "" && catName != f.Category {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(e.Title), title) {
			continue
		}
		matched = append(matched, e)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].Date.Equal(matched[j].Date) {
			return matched[i].Date.After(matched[j].Date)
		}
		return matched[i].ID > matched[j].ID
	})

	items := make([]models.ExpenseListItem, 0, len(matched))
	for _, e := range matched {
		item := models.ExpenseListItem{UUID: e.UUID, Title: e.Title, Value: e.Value, Date: models.Day(e.Date)}
		if e.CategoryID != nil {
			if name, ok := names[*e.CategoryID]; ok {
				item.Category = &models.CategoryRef{Name: string(name)}
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// WithTx fn 内的写入记入日志；fn 失败时按相反顺序撤销，
// 只回滚本事务自己的写入，不影响并发的非事务写入
func (s *Store) WithTx(_ context.Context, fn func(tx repository.Store) error) error {
	return s.runTx(nil, fn)
}

func (s *Store) runTx(parent *journal, fn func(tx repository.Store) error) error {
	j := &journal{}
	if err := fn(&txStore{Store: s, j: j}); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	// 嵌套事务提交后并入外层，外层失败时一起撤销
	if parent != nil {
		parent.undo = append(parent.undo, j.undo...)
	}
	return nil
}

// txStore 事务视图，读操作直接走 Store，写操作记入 j
type txStore struct {
	*Store
	j *journal
}

func (t *txStore) CreateUser(_ context.Context, user *models.User) error {
	return t.createUser(user, t.j)
}

func (t *txStore) UpdateUser(_ context.Context, user *models.User, upd repository.UserUpdate) error {
	return t.updateUser(user, upd, t.j)
}

func (t *txStore) CreateEntry(_ context.Context, entry *models.Entry) error {
	return t.createEntry(entry, t.j)
}

func (t *txStore) CreateExpense(_ context.Context, expense *models.Expense) error {
	return t.createExpense(expense, t.j)
}

func (t *txStore) CreateExpenses(_ context.Context, expenses []models.Expense) error {
	return t.createExpenses(expenses, t.j)
}

func (t *txStore) CreateInstallments(_ context.Context, installments []models.Installment) error {
	return t.createInstallments(installments, t.j)
}

func (t *txStore) CreateRecurringExpense(_ context.Context, def *models.RecurringExpense) error {
	return t.createRecurringExpense(def, t.j)
}

func (t *txStore) UpdateExpense(_ context.Context, expense *models.Expense, upd repository.ExpenseUpdate) error {
	return t.updateExpense(expense, upd, t.j)
}

func (t *txStore) DeleteExpense(_ context.Context, expense *models.Expense) error {
	return t.deleteExpense(expense, t.j)
}

func (t *txStore) WithTx(_ context.Context, fn func(tx repository.Store) error) error {
	return t.runTx(t.j, fn)
}

// Expenses 当前全部消费记录副本
func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Expense(nil), s.data.expenses...)
}

// Installments 当前全部分期明细副本
func (s *Store) Installments() []models.Installment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Installment(nil), s.data.installments...)
}

// RecurringExpenses 当前全部周期消费定义副本
func (s *Store) RecurringExpenses() []models.RecurringExpense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.RecurringExpense(nil), s.data.recurring...)
}

// Entries 当前全部收入记录副本
func (s *Store) Entries() []models.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Entry(nil), s.data.entries...)
}
