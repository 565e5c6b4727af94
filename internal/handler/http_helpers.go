package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dailydev/internal/middleware"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	serverErrorMessage     = "Server error, please try again."
	validationErrorMessage = "Validation failed"
	invalidBodyMessage     = "Invalid request body"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

func respondData(c *gin.Context, status int, message string, data any) {
	body := gin.H{"data": data}
	if message != "" {
		body["message"] = message
	}
	c.JSON(status, body)
}

func respondList(c *gin.Context, items any, pagination service.Pagination) {
	c.JSON(http.StatusOK, gin.H{"data": items, "pagination": pagination})
}

func respondValidation(c *gin.Context, verr *service.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message": validationErrorMessage,
		"errors":  verr.Errors,
	})
}

// serverError 记录错误并返回 500；开发环境下附带错误详情
func (a *API) serverError(c *gin.Context, err error, action string) {
	middleware.LoggerFrom(c, a.logger).WithError(err).Error(action)

	body := gin.H{"message": serverErrorMessage}
	if a.development {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// handleResourceError 将 service 层错误映射为 HTTP 响应
func (a *API) handleResourceError(c *gin.Context, err error, notFound error, notFoundMessage, action string) {
	if verr, ok := service.AsValidationError(err); ok {
		respondValidation(c, verr)
		return
	}
	if errors.Is(err, notFound) {
		respondError(c, http.StatusNotFound, notFoundMessage)
		return
	}
	a.serverError(c, err, action)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, invalidBodyMessage)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// parseID 解析路径中的 id，失败时直接写出 400
func parseID(c *gin.Context) (uint, bool) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondValidation(c, service.NewValidationError("id", "id must be a positive integer", c.Param("id")))
		return 0, false
	}
	return id, true
}

// queryErrors 收集查询参数的校验错误
type queryErrors struct {
	errs []service.FieldError
}

func (q *queryErrors) add(field, message, value string) {
	q.errs = append(q.errs, service.FieldError{Field: field, Message: message, Value: value})
}

// respond 存在错误时写出 400 并返回 true
func (q *queryErrors) respond(c *gin.Context) bool {
	if len(q.errs) == 0 {
		return false
	}
	respondValidation(c, &service.ValidationError{Errors: q.errs})
	return true
}

func parsePageQuery(c *gin.Context, q *queryErrors) service.PageRequest {
	page := service.PageRequest{}
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			q.add("page", "page must be a positive integer", raw)
		} else {
			page.Page = value
		}
	}
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 || value > service.MaxLimit {
			q.add("limit", fmt.Sprintf("limit must be between 1 and %d", service.MaxLimit), raw)
		} else {
			page.Limit = value
		}
	}
	return page
}

// parseEnumQuery 解析可选的枚举筛选参数，空值表示不筛选
func parseEnumQuery[T ~string](c *gin.Context, q *queryErrors, key string, parse func(string) (T, error)) *T {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	value, err := parse(raw)
	if err != nil {
		q.add(key, fmt.Sprintf("%s %s", key, err.Error()), raw)
		return nil
	}
	return &value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func optionalInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
