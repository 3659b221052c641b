package service

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 业务错误，Message 可直接返回给调用方
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func BadRequest(msg string) *Error   { return &Error{Kind: KindBadRequest, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }

// Internal 包装未归类的错误；已是 *Error 的原样返回
func Internal(err error, msg string) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf 取错误类别，非 *Error 视为 Internal
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// 常用消息
const (
	MsgUserNotFound       = "User not found"
	MsgCategoryNotExists  = "Category not exists"
	MsgExpenseNotFound    = "Expense not found"
	MsgEndDateRequired    = "End date is required for recurring expenses"
	MsgStartAfterEnd      = "Start date cannot be after end date"
	MsgInvalidMonth       = "Invalid month, expected YYYY-MM"
	MsgValueNotPositive   = "Value must be a positive number"
	MsgTitleRequired      = "Title is required"
	MsgInvalidInstallment = "Installments must be at least 1"
)
