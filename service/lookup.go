package service

import (
	"context"
	"errors"

	"financas/logger"
	"financas/models"
	"financas/repository"
)

// notFoundOr ErrNotFound 转为 NotFound(msg)，其它错误包装为 Internal(fallback)
func notFoundOr(err error, msg, fallback string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound(msg)
	}
	return Internal(err, fallback)
}

// findUser 按对外 UUID 查找用户
func findUser(ctx context.Context, store repository.Store, userUUID, fallback string) (*models.User, error) {
	user, err := store.FindUserByUUID(ctx, userUUID)
	if err != nil {
		return nil, notFoundOr(err, MsgUserNotFound, fallback)
	}
	return user, nil
}

// ensureCategory 校验类别存在
func ensureCategory(ctx context.Context, store repository.Store, id uint, fallback string) error {
	if _, err := store.FindCategoryByID(ctx, id); err != nil {
		return notFoundOr(err, MsgCategoryNotExists, fallback)
	}
	return nil
}

// logInternal 记录内部错误，原样返回
func logInternal(ctx context.Context, log *logger.Logger, err error, args ...any) error {
	if err != nil && KindOf(err) == KindInternal {
		log.ErrorContext(ctx, "unexpected failure", append([]any{logger.FieldError, err}, args...)...)
	}
	return err
}
