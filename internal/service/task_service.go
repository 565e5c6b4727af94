package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dailydev/internal/db"
	"gorm.io/gorm"
)

const (
	maxTaskTitleLength       = 100
	maxTaskDescriptionLength = 1000
)

// taskPriorityOrder 将优先级映射为可排序的权重，urgent 排在最前
var taskPriorityOrder = fmt.Sprintf(
	"CASE priority WHEN '%s' THEN %d WHEN '%s' THEN %d WHEN '%s' THEN %d ELSE %d END DESC",
	db.PriorityUrgent, db.PriorityUrgent.Rank(),
	db.PriorityHigh, db.PriorityHigh.Rank(),
	db.PriorityMedium, db.PriorityMedium.Rank(),
	db.PriorityLow.Rank(),
)

// TaskService 负责任务的增删改查与完成状态切换
type TaskService struct {
	db  *gorm.DB
	now func() time.Time
}

// TaskFilter 描述任务列表的筛选条件
type TaskFilter struct {
	Status   *db.TaskStatus
	Priority *db.TaskPriority
	Category *db.TaskCategory
}

// TaskInput 定义创建/更新任务时可提交的字段
// CompletedAt 不在其中：它只随状态变化自动维护
type TaskInput struct {
	Title            *string
	Description      *string
	Priority         *string
	Status           *string
	Category         *string
	DueDate          *string
	EstimatedTime    *int
	ActualTime       *int
	Tags             *[]string
	IsRecurring      *bool
	RecurringPattern *string
}

// NewTaskService 构造 TaskService
func NewTaskService(gdb *gorm.DB) *TaskService {
	return &TaskService{db: gdb, now: time.Now}
}

// WithClock 替换时间来源
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// List 按优先级降序、截止日期升序（无截止日期排后）、创建时间降序返回任务
func (s *TaskService) List(ownerID uint, filter TaskFilter, page PageRequest) (*ListResult[db.Task], error) {
	query := ownedBy(s.db.Model(&db.Task{}), ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	result, err := paginate[db.Task](query, page,
		taskPriorityOrder,
		"due_date IS NULL",
		"due_date ASC",
		"created_at DESC",
		"id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return result, nil
}

// Get 获取 owner 名下的单个任务
func (s *TaskService) Get(ownerID, id uint) (*db.Task, error) {
	return findOwned[db.Task](s.db, ownerID, id, ErrTaskNotFound)
}

// Create 新建任务；截止日期不能早于当前时间
func (s *TaskService) Create(ownerID uint, input TaskInput) (*db.Task, error) {
	now := s.now().UTC()
	task := db.Task{
		UserID:   ownerID,
		Priority: db.PriorityMedium,
		Status:   db.TaskTodo,
		Category: db.CategoryPersonal,
		Tags:     []string{},
	}
	task.CreatedAt = now

	if err := applyTaskInput(&task, input, now); err != nil {
		return nil, err
	}
	applyTaskCompletion(&task, "", now)

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// Update 合并字段、重新校验，并根据状态变化维护 CompletedAt
func (s *TaskService) Update(ownerID, id uint, input TaskInput) (*db.Task, error) {
	task, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	previous := task.Status
	if err := applyTaskInput(task, input, now); err != nil {
		return nil, err
	}
	applyTaskCompletion(task, previous, now)

	if err := s.db.Save(task).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// Toggle 在 done 与 todo 之间切换任务状态
func (s *TaskService) Toggle(ownerID, id uint) (*db.Task, error) {
	task, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	previous := task.Status
	if task.Status == db.TaskDone {
		task.Status = db.TaskTodo
	} else {
		task.Status = db.TaskDone
	}
	applyTaskCompletion(task, previous, s.now().UTC())

	if err := s.db.Save(task).Error; err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return task, nil
}

// Delete 删除 owner 名下的任务
func (s *TaskService) Delete(ownerID, id uint) error {
	return deleteOwned[db.Task](s.db, ownerID, id, ErrTaskNotFound)
}

// applyTaskCompletion 进入 done 时写入完成时间，离开 done 时清空
func applyTaskCompletion(task *db.Task, previous db.TaskStatus, now time.Time) {
	switch {
	case task.Status != db.TaskDone:
		task.CompletedAt = nil
	case previous != db.TaskDone || task.CompletedAt == nil:
		completed := now
		task.CompletedAt = &completed
	}
}

func applyTaskInput(task *db.Task, input TaskInput, now time.Time) error {
	v := &validator{}

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	parseEnumField(v, "priority", input.Priority, db.ParseTaskPriority, &task.Priority)
	parseEnumField(v, "status", input.Status, db.ParseTaskStatus, &task.Status)
	parseEnumField(v, "category", input.Category, db.ParseTaskCategory, &task.Category)

	parseDateField(v, "dueDate", input.DueDate, &task.DueDate)
	if input.DueDate != nil && task.DueDate != nil && task.DueDate.Before(now) && !v.has("dueDate") {
		v.add("dueDate", "dueDate cannot be in the past", *input.DueDate)
	}

	if input.EstimatedTime != nil {
		task.EstimatedTime = input.EstimatedTime
	}
	if input.ActualTime != nil {
		task.ActualTime = input.ActualTime
	}
	if input.Tags != nil {
		task.Tags = normalizeTags(*input.Tags)
	}
	if input.IsRecurring != nil {
		task.IsRecurring = *input.IsRecurring
	}
	if input.RecurringPattern != nil && trimPtr(input.RecurringPattern) == "" {
		task.RecurringPattern = ""
	} else {
		parseEnumField(v, "recurringPattern", input.RecurringPattern, db.ParseRecurringPattern, &task.RecurringPattern)
	}
	if !task.IsRecurring {
		task.RecurringPattern = ""
	}

	validateTask(v, task)
	return v.err()
}

func validateTask(v *validator, task *db.Task) {
	v.required("title", task.Title, maxTaskTitleLength)
	v.maxLength("description", task.Description, maxTaskDescriptionLength)
	if task.EstimatedTime != nil {
		v.intRange("estimatedTime", *task.EstimatedTime, 1, maxMinutesPerDay)
	}
	if task.ActualTime != nil && *task.ActualTime < 0 {
		v.add("actualTime", "actualTime cannot be negative", *task.ActualTime)
	}
	v.tags("tags", task.Tags)
	if task.IsRecurring && task.RecurringPattern == "" && !v.has("recurringPattern") {
		v.add("recurringPattern", "recurringPattern is required for recurring tasks", nil)
	}
}
