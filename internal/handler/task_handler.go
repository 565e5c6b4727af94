package handler

import (
	"net/http"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/metrics"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

const taskNotFoundMessage = "Task not found"

type taskPayload struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Priority         *string   `json:"priority"`
	Status           *string   `json:"status"`
	Category         *string   `json:"category"`
	DueDate          *string   `json:"dueDate"`
	EstimatedTime    *int      `json:"estimatedTime"`
	ActualTime       *int      `json:"actualTime"`
	Tags             *[]string `json:"tags"`
	IsRecurring      *bool     `json:"isRecurring"`
	RecurringPattern *string   `json:"recurringPattern"`
}

func (p taskPayload) toInput() service.TaskInput {
	return service.TaskInput{
		Title:            p.Title,
		Description:      p.Description,
		Priority:         p.Priority,
		Status:           p.Status,
		Category:         p.Category,
		DueDate:          p.DueDate,
		EstimatedTime:    p.EstimatedTime,
		ActualTime:       p.ActualTime,
		Tags:             p.Tags,
		IsRecurring:      p.IsRecurring,
		RecurringPattern: p.RecurringPattern,
	}
}

// ListTasks 分页返回当前用户的任务
func (a *API) ListTasks(c *gin.Context) {
	q := &queryErrors{}
	page := parsePageQuery(c, q)
	filter := service.TaskFilter{
		Status:   parseEnumQuery(c, q, "status", db.ParseTaskStatus),
		Priority: parseEnumQuery(c, q, "priority", db.ParseTaskPriority),
		Category: parseEnumQuery(c, q, "category", db.ParseTaskCategory),
	}
	if q.respond(c) {
		return
	}

	result, err := a.tasks.List(principal(c).ID, filter, page)
	if err != nil {
		a.serverError(c, err, "list tasks")
		return
	}

	respondList(c, taskListPayload(result.Items, a.now()), result.Pagination)
}

// GetTask 返回单个任务
func (a *API) GetTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := a.tasks.Get(principal(c).ID, id)
	if err != nil {
		a.handleTaskError(c, err, "get task")
		return
	}

	respondData(c, http.StatusOK, "", taskToPayload(*task, a.now()))
}

// CreateTask 新建任务
func (a *API) CreateTask(c *gin.Context) {
	var payload taskPayload
	if !bindJSON(c, &payload) {
		return
	}

	task, err := a.tasks.Create(principal(c).ID, payload.toInput())
	if err != nil {
		a.handleTaskError(c, err, "create task")
		return
	}

	metrics.RecordMutation("task", "create")
	respondData(c, http.StatusCreated, "Task created successfully!", taskToPayload(*task, a.now()))
}

// UpdateTask 更新任务
func (a *API) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload taskPayload
	if !bindJSON(c, &payload) {
		return
	}

	task, err := a.tasks.Update(principal(c).ID, id, payload.toInput())
	if err != nil {
		a.handleTaskError(c, err, "update task")
		return
	}

	metrics.RecordMutation("task", "update")
	respondData(c, http.StatusOK, "Task updated successfully!", taskToPayload(*task, a.now()))
}

// ToggleTask 在完成与待办之间切换
func (a *API) ToggleTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := a.tasks.Toggle(principal(c).ID, id)
	if err != nil {
		a.handleTaskError(c, err, "toggle task")
		return
	}

	message := "Task reopened successfully!"
	if task.Status == db.TaskDone {
		message = "Task completed successfully!"
	}

	metrics.RecordMutation("task", "toggle")
	respondData(c, http.StatusOK, message, taskToPayload(*task, a.now()))
}

// DeleteTask 删除任务
func (a *API) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := a.tasks.Delete(principal(c).ID, id); err != nil {
		a.handleTaskError(c, err, "delete task")
		return
	}

	metrics.RecordMutation("task", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully!"})
}

// TaskStats 返回任务统计
func (a *API) TaskStats(c *gin.Context) {
	summary, err := a.stats.Tasks(principal(c).ID)
	if err != nil {
		a.serverError(c, err, "task stats")
		return
	}
	respondData(c, http.StatusOK, "", taskSummaryPayload(summary))
}

func (a *API) handleTaskError(c *gin.Context, err error, action string) {
	a.handleResourceError(c, err, service.ErrTaskNotFound, taskNotFoundMessage, action)
}
