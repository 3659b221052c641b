package api

import (
	"fmt"
	"net/url"

	"financas/service"

	"github.com/gin-gonic/gin"
)

// UserHandler 用户资料、看板与导出
type UserHandler struct {
	users     *service.UserService
	dashboard *service.DashboardAggregator
	export    *service.ExportService
}

func NewUserHandler(users *service.UserService, dashboard *service.DashboardAggregator, export *service.ExportService) *UserHandler {
	return &UserHandler{users: users, dashboard: dashboard, export: export}
}

// UpdateUserRequest 更新用户资料
type UpdateUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=100" example:"Ana Souza"`
	Email *string `json:"email" binding:"omitempty,email,max=100" example:"ana@example.com"`
}

func dashboardFilters(c *gin.Context) service.DashboardFilters {
	return service.DashboardFilters{
		Month:    c.Query("month"),
		Category: c.Query("category"),
		Title:    c.Query("title"),
	}
}

// Get 获取用户资料
// @Summary 获取用户资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Success 200 {object} Response{data=models.UserProfile} "获取成功"
// @Failure 403 {object} Response "无权访问"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{userId} [get]
func (h *UserHandler) Get(c *gin.Context) {
	profile, err := h.users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, profile)
}

// Update 更新用户资料
// @Summary 更新用户资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Param request body UpdateUserRequest true "姓名或邮箱"
// @Success 200 {object} Response{data=models.UserProfile} "更新成功"
// @Failure 409 {object} Response "邮箱已被使用"
// @Router /api/users/{userId} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	profile, err := h.users.UpdateUser(c.Request.Context(), c.Param("userId"), service.UpdateUserInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessWithMessage(c, "User updated successfully", profile)
}

// Dashboard 月度看板
// @Summary 月度看板
// @Description 返回所选月份的余额、收入、支出以及按类别和标题筛选后的消费明细
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Param month query string false "月份 YYYY-MM，默认当月"
// @Param category query string false "类别名（精确匹配）"
// @Param title query string false "标题关键字（不区分大小写）"
// @Success 200 {object} Response{data=service.Dashboard} "获取成功"
// @Failure 400 {object} Response "月份格式错误"
// @Failure 404 {object} Response "用户不存在"
// @Router /api/users/{userId}/dashboard [get]
func (h *UserHandler) Dashboard(c *gin.Context) {
	d, err := h.dashboard.GetDashboard(c.Request.Context(), c.Param("userId"), dashboardFilters(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, d)
}

// Export 导出月度消费明细为 Excel
// @Summary 导出 Excel
// @Description 按看板的筛选条件导出消费明细和月度汇总
// @Tags 用户
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param userId path string true "用户 UUID"
// @Param month query string false "月份 YYYY-MM，默认当月"
// @Param category query string false "类别名（精确匹配）"
// @Param title query string false "标题关键字（不区分大小写）"
// @Success 200 {file} file "Excel 文件"
// @Failure 400 {object} Response "月份格式错误"
// @Router /api/users/{userId}/export [get]
func (h *UserHandler) Export(c *gin.Context) {
	file, err := h.export.Export(c.Request.Context(), c.Param("userId"), dashboardFilters(c))
	if err != nil {
		Fail(c, err)
		return
	}
	defer file.Book.Close()

	c.Header("Content-Type", service.XLSXContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(file.Name)))
	if err := file.Book.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
