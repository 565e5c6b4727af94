package db

import (
	"math"
	"time"
)

// Course 定义了课程模型
// Status 是一致性字段，每次保存前都会根据 Progress 重新推导
type Course struct {
	Model
	UserID      uint         `gorm:"not null;index:idx_course_user_progress,priority:1"`
	Name        string       `gorm:"size:100;not null"`
	Description string       `gorm:"size:500"`
	Duration    int          `gorm:"not null"`
	Type        CourseType   `gorm:"size:20;not null"`
	Progress    int          `gorm:"not null;default:0;index:idx_course_user_progress,priority:2"`
	Status      CourseStatus `gorm:"size:20;not null"`
	Difficulty  Difficulty   `gorm:"size:20;not null"`
	Platform    string       `gorm:"size:50"`
	URL         string       `gorm:"size:2048"`
	StartDate   *time.Time
	EndDate     *time.Time
	Rating      *int
	Notes       string   `gorm:"size:1000"`
	Tags        []string `gorm:"type:text;serializer:json"`
	IsPublic    bool
}

// DurationInHours 返回保留一位小数的课程时长（小时）
func (c Course) DurationInHours() float64 {
	return RoundOne(float64(c.Duration) / 60)
}

// RemainingTime 按进度估算剩余分钟数
func (c Course) RemainingTime() int {
	if c.Progress >= 100 {
		return 0
	}
	return int(math.Round(float64(c.Duration) * (1 - float64(c.Progress)/100)))
}

// IsCompleted 进度满或状态为 done 即视为完成
func (c Course) IsCompleted() bool {
	return c.Progress >= 100 || c.Status == CourseDone
}
