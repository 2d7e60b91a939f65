package validator

import (
	"fmt"
	"strings"
)

// ValidationErrors represents a collection of validation errors.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// FieldError represents a single field validation error.
type FieldError struct {
	Field     string `json:"field"`           // 字段名（mapstructure/json 标签）
	Namespace string `json:"-"`               // 带结构体路径的字段名
	Tag       string `json:"tag"`             // 未通过的规则
	Param     string `json:"param,omitempty"` // 规则参数
	Message   string `json:"message"`         // 可读错误信息
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if v == nil || len(v.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("validation failed: ")
	for i, fe := range v.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fe.Message)
	}
	return sb.String()
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return v != nil && len(v.Errors) > 0
}

// HasTag reports whether any error failed the given rule.
func (v *ValidationErrors) HasTag(tag string) bool {
	if v == nil {
		return false
	}
	for _, fe := range v.Errors {
		if fe.Tag == tag {
			return true
		}
	}
	return false
}

// Prefixed returns one error per field, with the message prefixed by section.
// It is meant for aggregating option errors.
func (v *ValidationErrors) Prefixed(section string) []error {
	if v == nil || len(v.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(v.Errors))
	for _, fe := range v.Errors {
		errs = append(errs, fmt.Errorf("%s.%s: %s", section, fe.Field, fe.Message))
	}
	return errs
}

// NewValidationError creates a ValidationErrors holding a single error.
func NewValidationError(field, tag, message string) *ValidationErrors {
	return &ValidationErrors{
		Errors: []FieldError{{Field: field, Tag: tag, Message: message}},
	}
}
