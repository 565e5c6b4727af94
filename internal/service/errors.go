package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrJournalEntryNotFound 日志不存在或不属于当前用户
	ErrJournalEntryNotFound = errors.New("journal entry not found")
	// ErrTaskNotFound 任务不存在或不属于当前用户
	ErrTaskNotFound = errors.New("task not found")
	// ErrCourseNotFound 课程不存在或不属于当前用户
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthenticated 用户不存在或已被停用
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials 登录失败，不区分邮箱不存在与密码错误
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrIncorrectPassword 修改密码或删除账号时的密码确认失败
	ErrIncorrectPassword = errors.New("incorrect password")
)

// FieldError 描述单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value"`
}

// ValidationError 汇总一次请求中全部字段错误，便于调用方一次性修正
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError 取出错误链中的 ValidationError
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// NewValidationError 构造只含单个字段错误的 ValidationError
func NewValidationError(field, message string, value any) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message, Value: value}}}
}
