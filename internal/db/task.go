package db

import "time"

// Task 定义了任务模型
// CompletedAt 只随状态流转自动维护：进入 done 时写入，离开 done 时清空
// RecurringPattern 仅在 IsRecurring 为 true 时有值
type Task struct {
	Model
	UserID           uint             `gorm:"not null;index:idx_task_user_status,priority:1"`
	Title            string           `gorm:"size:100;not null"`
	Description      string           `gorm:"size:1000"`
	Priority         TaskPriority     `gorm:"size:20;not null"`
	Status           TaskStatus       `gorm:"size:20;not null;index:idx_task_user_status,priority:2"`
	Category         TaskCategory     `gorm:"size:20;not null"`
	DueDate          *time.Time
	CompletedAt      *time.Time
	EstimatedTime    *int
	ActualTime       *int
	Tags             []string         `gorm:"type:text;serializer:json"`
	IsRecurring      bool
	RecurringPattern RecurringPattern `gorm:"size:20"`
}

// IsOverdue 截止时间早于 now 且未完成时视为逾期，查询时计算、不落库
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == TaskDone {
		return false
	}
	return now.After(*t.DueDate)
}

// TimeDifference 返回实际耗时与预估耗时的差值（分钟），任一缺失时返回 nil
func (t Task) TimeDifference() *int {
	if t.EstimatedTime == nil || t.ActualTime == nil {
		return nil
	}
	diff := *t.ActualTime - *t.EstimatedTime
	return &diff
}
