package api

import (
	"financas/service"

	"github.com/gin-gonic/gin"
)

// CategoryHandler 消费类别（只读）
type CategoryHandler struct {
	transactions *service.TransactionService
}

func NewCategoryHandler(transactions *service.TransactionService) *CategoryHandler {
	return &CategoryHandler{transactions: transactions}
}

// List 列出全部类别
// @Summary 获取消费类别列表
// @Description 固定的 10 个类别，按 ID 排序
// @Tags 类别
// @Produce json
// @Success 200 {object} Response{data=[]models.Category} "获取成功"
// @Router /api/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.transactions.ListCategories(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, list)
}
