package service

import (
	"context"
	"errors"
	"strings"

	"financas/logger"
	"financas/models"
	"financas/repository"
)

const (
	MsgEmailInUse = "Email already in use"

	msgFetchUserFailed  = "Internal error while fetching user data"
	msgUpdateUserFailed = "Internal error while updating user data"
)

// UpdateUserInput nil 字段保持不变
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserService 用户资料
type UserService struct {
	store repository.Store
	log   *logger.Logger
}

func NewUserService(store repository.Store, log *logger.Logger) *UserService {
	if log == nil {
		log = logger.Discard()
	}
	return &UserService{store: store, log: log}
}

// GetUser 获取用户资料
func (s *UserService) GetUser(ctx context.Context, userUUID string) (*models.UserProfile, error) {
	user, err := findUser(ctx, s.store, userUUID, msgFetchUserFailed)
	if err != nil {
		return nil, logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
	}
	profile := user.Profile()
	return &profile, nil
}

// UpdateUser 更新姓名或邮箱
func (s *UserService) UpdateUser(ctx context.Context, userUUID string, in UpdateUserInput) (*models.UserProfile, error) {
	user, err := findUser(ctx, s.store, userUUID, msgUpdateUserFailed)
	if err != nil {
		return nil, logInternal(ctx, s.log, err, logger.FieldUser, userUUID)
	}

	var upd repository.UserUpdate
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < 2 {
			return nil, BadRequest("The name must have at least 2 characters")
		}
		upd.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		upd.Email = &email
	}
	if upd.Name == nil && upd.Email == nil {
		profile := user.Profile()
		return &profile, nil
	}

	if err := s.store.UpdateUser(ctx, user, upd); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict(MsgEmailInUse)
		}
		return nil, logInternal(ctx, s.log, notFoundOr(err, MsgUserNotFound, msgUpdateUserFailed), logger.FieldUser, userUUID)
	}
	profile := user.Profile()
	return &profile, nil
}
