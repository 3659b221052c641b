package api

import (
	"time"

	"financas/middleware"
	"financas/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler 收入与消费
type TransactionHandler struct {
	generator    *service.ExpenseGenerator
	transactions *service.TransactionService
}

func NewTransactionHandler(generator *service.ExpenseGenerator, transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{generator: generator, transactions: transactions}
}

// CreateEntryRequest 登记收入
type CreateEntryRequest struct {
	Value decimal.Decimal `json:"value" swaggertype:"number" example:"3500.00"`
	Date  string          `json:"date" binding:"required" example:"2025-03-01"`
}

// CreateExpenseRequest 创建消费
// isRecurring 为 true 时按月生成至 endDate；installments 大于 1 时拆分为分期
type CreateExpenseRequest struct {
	Title        string          `json:"title" binding:"required,max=255" example:"TV"`
	Value        decimal.Decimal `json:"value" swaggertype:"number" example:"1200"`
	Date         string          `json:"date" binding:"required" example:"2025-01-31"`
	CategoryID   *uint           `json:"categoryId" example:"7"`
	Installments *int            `json:"installments" binding:"omitempty,min=1" example:"3"`
	IsRecurring  bool            `json:"isRecurring" example:"false"`
	EndDate      *string         `json:"endDate" example:"2025-12-31"`
}

// UpdateExpenseRequest 修改消费，未提供的字段保持不变
type UpdateExpenseRequest struct {
	Title      *string          `json:"title" binding:"omitempty,max=255" example:"Jantar"`
	Value      *decimal.Decimal `json:"value" swaggertype:"number" example:"45.90"`
	Date       *string          `json:"date" example:"2025-03-02"`
	CategoryID *uint            `json:"categoryId" example:"1"`
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := service.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateEntry 登记收入
// @Summary 登记收入
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Param request body CreateEntryRequest true "收入信息"
// @Success 201 {object} Response{data=models.Entry} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/transactions/{userId}/entries [post]
func (h *TransactionHandler) CreateEntry(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	date, err := service.ParseDate(req.Date)
	if err != nil {
		Fail(c, err)
		return
	}

	entry, err := h.transactions.CreateEntry(c.Request.Context(), c.Param("userId"), service.CreateEntryInput{
		Value: req.Value,
		Date:  date,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "Entry created successfully", entry)
}

// CreateExpense 创建消费（单笔、分期或按月周期）
// @Summary 创建消费
// @Description 单笔消费；installments > 1 时按月拆分为分期；isRecurring 为 true 时从 date 起每月生成一笔直到 endDate
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Param request body CreateExpenseRequest true "消费信息"
// @Success 201 {object} Response{data=service.CreateExpenseResult} "创建成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "用户或类别不存在"
// @Router /api/transactions/{userId}/expenses [post]
func (h *TransactionHandler) CreateExpense(c *gin.Context) {
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	date, err := service.ParseDate(req.Date)
	if err != nil {
		Fail(c, err)
		return
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		Fail(c, err)
		return
	}

	res, err := h.generator.CreateExpense(c.Request.Context(), c.Param("userId"), service.CreateExpenseInput{
		Title:        req.Title,
		Value:        req.Value,
		Date:         date,
		CategoryID:   req.CategoryID,
		Installments: req.Installments,
		IsRecurring:  req.IsRecurring,
		EndDate:      endDate,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "Expense created successfully", res)
}

// UpdateExpense 修改消费
// @Summary 修改消费
// @Description 只修改这一条记录；只能修改自己的消费
// @Tags 交易
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param expenseId path string true "消费 UUID"
// @Param request body UpdateExpenseRequest true "要修改的字段"
// @Success 200 {object} Response{data=models.Expense} "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 404 {object} Response "消费或类别不存在"
// @Router /api/transactions/expenses/{expenseId} [put]
func (h *TransactionHandler) UpdateExpense(c *gin.Context) {
	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		Fail(c, err)
		return
	}

	expense, err := h.transactions.UpdateExpense(c.Request.Context(), middleware.GetCurrentUserUUID(c), c.Param("expenseId"), service.UpdateExpenseInput{
		Title:      req.Title,
		Value:      req.Value,
		Date:       date,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "Expense updated successfully", expense)
}

// DeleteExpense 删除消费
// @Summary 删除消费
// @Description 删除这一条消费及其分期明细
// @Tags 交易
// @Produce json
// @Security BearerAuth
// @Param expenseId path string true "消费 UUID"
// @Success 200 {object} Response "删除成功"
// @Failure 404 {object} Response "消费不存在"
// @Router /api/transactions/expenses/{expenseId} [delete]
func (h *TransactionHandler) DeleteExpense(c *gin.Context) {
	if err := h.transactions.DeleteExpense(c.Request.Context(), middleware.GetCurrentUserUUID(c), c.Param("expenseId")); err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "Expense deleted successfully", nil)
}
