package apperror

import (
	"fmt"
	"strings"
)

// AppError 可预期的业务错误，Message 可直接返回给调用方
// Operational=false 表示意外故障，对外只暴露通用提示
type AppError struct {
	Code        int
	Message     string
	Operational bool
}

func (e *AppError) Error() string {
	return e.Message
}

// New 创建一个 operational 错误
func New(message string, code int) *AppError {
	return &AppError{Code: code, Message: message, Operational: true}
}

// Status returns the envelope status field: "fail" for 4xx, "error" otherwise
func (e *AppError) Status() string {
	if e.Code >= 400 && e.Code < 500 {
		return "fail"
	}
	return "error"
}

// FieldError 单个字段的校验失败信息
type FieldError struct {
	Field   string
	Message string
}

// ValidationError 聚合实体校验错误，可逐字段枚举
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Error joins every field message with ". "
func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, ". ")
}

// InvalidIDError 标识符形态非法，无法指向任何实体（CastError 的对应物）
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s %s", e.Field, e.Value)
}
