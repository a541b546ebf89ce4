// pkg/common/errors/errors.go

/*
  - 使用实例
    // 业务层返回哨兵错误或带类型的错误，调用方用 errors.Is 判断:
    if errors.Is(err, apperrors.ErrPolicyViolation) {
    // 可以展示给用户
    }

    // 需要规则细节时:
    var pv *apperrors.PolicyViolation
    if errors.As(err, &pv) {
    // pv.Rule
    }
*/
package errors

import (
	"errors"
	"fmt"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 业务错误
var (
	ErrPolicyViolation     = errors.New("password does not meet the password policy")
	ErrValidation          = errors.New("invalid input")
	ErrDuplicateCredential = errors.New("username or email already registered")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUnauthenticated     = errors.New("please log in first")
	ErrUserNotFound        = errors.New("user not found")
	ErrNotFound            = errors.New("post not found")
	ErrForbidden           = errors.New("you are not allowed to modify this post")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// PolicyRule identifies one password strength rule. Rules are checked in
// declaration order.
type PolicyRule int

const (
	RuleMinLength PolicyRule = iota + 1
	RuleDigit
	RuleUpper
	RuleSpecial
)

func (r PolicyRule) String() string {
	switch r {
	case RuleMinLength:
		return "min_length"
	case RuleDigit:
		return "digit"
	case RuleUpper:
		return "upper"
	case RuleSpecial:
		return "special"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// PolicyViolation is returned for a weak password. It matches ErrPolicyViolation.
type PolicyViolation struct {
	Rule PolicyRule
}

func (v *PolicyViolation) Error() string {
	switch v.Rule {
	case RuleMinLength:
		return "password must be at least 8 characters long"
	case RuleDigit:
		return "password must contain at least one digit"
	case RuleUpper:
		return "password must contain at least one uppercase letter"
	case RuleSpecial:
		return "password must contain at least one special character (!@#$%^&*()-+?_=,<>/)"
	default:
		return ErrPolicyViolation.Error()
	}
}

func (v *PolicyViolation) Is(target error) bool {
	return target == ErrPolicyViolation
}

// ValidationError reports a bad form field. It matches ErrValidation.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// 包装成 Hertz 错误类型，挂到 RequestContext.Errors 上由日志中间件输出
func Public(err error, meta interface{}) *hzte.Error {
	return hzte.New(err, hzte.ErrorTypePublic, meta)
}

func Private(err error, meta interface{}) *hzte.Error {
	return hzte.New(err, hzte.ErrorTypePrivate, meta)
}
