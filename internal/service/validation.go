package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxTagLength = 20

// validator 收集字段错误，不在首个错误处中断
type validator struct {
	errs []FieldError
}

func (v *validator) add(field, message string, value any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message, Value: value})
}

func (v *validator) has(field string) bool {
	for _, fe := range v.errs {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}

// required 校验必填文本长度（按字符计）
func (v *validator) required(field, value string, max int) {
	if v.has(field) {
		return
	}
	n := utf8.RuneCountInString(value)
	switch {
	case n == 0:
		v.add(field, fmt.Sprintf("%s is required", field), value)
	case n > max:
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, max), value)
	}
}

func (v *validator) maxLength(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("%s must be at most %d characters", field, max), value)
	}
}

func (v *validator) intRange(field string, value, min, max int) {
	if v.has(field) {
		return
	}
	if value < min || value > max {
		v.add(field, fmt.Sprintf("%s must be between %d and %d", field, min, max), value)
	}
}

func (v *validator) tags(field string, tags []string) {
	for _, tag := range tags {
		if utf8.RuneCountInString(tag) > maxTagLength {
			v.add(field, fmt.Sprintf("each tag must be at most %d characters", maxTagLength), tag)
		}
	}
}

func (v *validator) httpURL(field, value string) {
	if value == "" {
		return
	}
	parsed, err := url.Parse(value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		v.add(field, fmt.Sprintf("%s must start with http or https", field), value)
	}
}

// parseEnumField 将原始字符串交给对应的 Parse 函数，失败时记录字段错误
func parseEnumField[T ~string](v *validator, field string, raw *string, parse func(string) (T, error), target *T) {
	if raw == nil {
		return
	}
	value, err := parse(*raw)
	if err != nil {
		v.add(field, fmt.Sprintf("%s %s", field, err.Error()), *raw)
		return
	}
	*target = value
}

// parseDateField 解析 RFC3339 或 YYYY-MM-DD；空字符串表示清空
func parseDateField(v *validator, field string, raw *string, target **time.Time) {
	if raw == nil {
		return
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		*target = nil
		return
	}
	parsed, err := parseDate(trimmed)
	if err != nil {
		v.add(field, fmt.Sprintf("%s must be a valid ISO 8601 date", field), *raw)
		return
	}
	*target = &parsed
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// normalizeTags 去除首尾空白并丢弃空标签
func normalizeTags(tags []string) []string {
	items := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		items = append(items, trimmed)
	}
	return items
}

func trimPtr(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
