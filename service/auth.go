package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"financas/logger"
	"financas/models"
	"financas/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	MsgUserAlreadyRegistered = "User already registered"
	MsgIncorrectPassword     = "Incorrect password"

	msgRegisterFailed = "Internal error while registering user"
	msgLoginFailed    = "Internal error while logging in"
)

// RegisterInput 注册请求
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService 注册与登录
// 令牌由调用方签发，这里只负责校验凭据
type AuthService struct {
	store  repository.Store
	mailer Mailer
	log    *logger.Logger
}

// NewAuthService mailer 可为 nil，此时不发送欢迎邮件
func NewAuthService(store repository.Store, mailer Mailer, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Discard()
	}
	return &AuthService{
		store:  store,
		mailer: mailer,
		log:    log.WithComponent(logger.ComponentAuth),
	}
}

// ValidatePassword 至少 6 位，包含大写字母和特殊字符
func ValidatePassword(password string) error {
	if len([]rune(password)) < 6 {
		return BadRequest("The password must have at least 6 characters")
	}
	var upper, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			special = true
		}
	}
	if !upper {
		return BadRequest("The password must contain at least one uppercase letter")
	}
	if !special {
		return BadRequest("The password must contain at least one special character")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 创建用户，邮箱已存在返回 Conflict
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.UserProfile, error) {
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	email := normalizeEmail(in.Email)

	_, err := s.store.FindUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, Conflict(MsgUserAlreadyRegistered)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, logInternal(ctx, s.log, Internal(err, msgRegisterFailed))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, logInternal(ctx, s.log, Internal(err, msgRegisterFailed))
	}
	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// 并发注册同一邮箱
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict(MsgUserAlreadyRegistered)
		}
		return nil, logInternal(ctx, s.log, Internal(err, msgRegisterFailed))
	}

	s.log.InfoContext(ctx, "user registered", logger.FieldUser, user.UUID)
	s.sendWelcome(ctx, user)

	profile := user.Profile()
	return &profile, nil
}

// sendWelcome 尽力发送，失败只记录日志
func (s *AuthService) sendWelcome(ctx context.Context, user *models.User) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendWelcomeEmail(user.Email, user.Name)
	switch {
	case err == nil:
	case errors.Is(err, ErrEmailDisabled):
		s.log.DebugContext(ctx, "welcome email skipped", logger.FieldUser, user.UUID)
	default:
		s.log.WarnContext(ctx, "welcome email failed", logger.FieldUser, user.UUID, logger.FieldError, err)
	}
}

// Authenticate 校验邮箱和密码，返回用户
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, logInternal(ctx, s.log, notFoundOr(err, MsgUserNotFound, msgLoginFailed))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, Unauthorized(MsgIncorrectPassword)
	}
	return user, nil
}
