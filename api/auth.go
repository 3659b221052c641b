package api

import (
	"time"

	"financas/middleware"
	"financas/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	auth     *service.AuthService
	tokenTTL time.Duration
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth *service.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Ana Souza"`
	Email    string `json:"email" binding:"required,email,max=100" example:"ana@example.com"`
	Password string `json:"password" binding:"required,max=72" example:"Secret!1"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ana@example.com"`
	Password string `json:"password" binding:"required" example:"Secret!1"`
}

// LoginUser 登录响应中的用户信息
type LoginUser struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User        LoginUser `json:"user"`
	AccessToken string    `json:"accessToken"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户。密码至少 6 位，需包含大写字母和特殊字符
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "注册信息"
// @Success 201 {object} Response{data=models.UserProfile} "注册成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 409 {object} Response "邮箱已注册"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	profile, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, "User registered successfully", profile)
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱和密码，返回访问令牌（默认 2 小时有效）
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body LoginRequest true "登录信息"
// @Success 200 {object} Response{data=LoginResponse} "登录成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "密码错误"
// @Failure 404 {object} Response "用户不存在"
// @Failure 429 {object} Response "尝试过于频繁"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		Fail(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.UUID, user.Name, h.tokenTTL)
	if err != nil {
		InternalError(c, "Failed to issue token")
		return
	}

	SuccessWithMessage(c, "Login successful", LoginResponse{
		User:        LoginUser{UUID: user.UUID, Name: user.Name},
		AccessToken: token,
	})
}
