package db

import (
	"fmt"
	"slices"
	"strings"
)

// 各分类字段使用封闭的字符串类型；客户端传入的原始字符串只能经 Parse* 转换。

type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOK        Mood = "ok"
	MoodBad       Mood = "bad"
	MoodTerrible  Mood = "terrible"
)

var Moods = []Mood{MoodExcellent, MoodGood, MoodOK, MoodBad, MoodTerrible}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank 返回用于排序的优先级权重，urgent 最高。
func (p TaskPriority) Rank() int {
	return slices.Index(TaskPriorities, p) + 1
}

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskDone       TaskStatus = "done"
	TaskCancelled  TaskStatus = "cancelled"
)

var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskDone, TaskCancelled}

type TaskCategory string

const (
	CategoryWork     TaskCategory = "work"
	CategoryStudy    TaskCategory = "study"
	CategoryPersonal TaskCategory = "personal"
	CategoryHealth   TaskCategory = "health"
	CategoryOther    TaskCategory = "other"
)

var TaskCategories = []TaskCategory{CategoryWork, CategoryStudy, CategoryPersonal, CategoryHealth, CategoryOther}

type RecurringPattern string

const (
	RecurDaily   RecurringPattern = "daily"
	RecurWeekly  RecurringPattern = "weekly"
	RecurMonthly RecurringPattern = "monthly"
)

var RecurringPatterns = []RecurringPattern{RecurDaily, RecurWeekly, RecurMonthly}

type CourseType string

const (
	CourseGeneral     CourseType = "general"
	CourseProgramming CourseType = "programming"
	CourseDesign      CourseType = "design"
	CourseMarketing   CourseType = "marketing"
	CourseManagement  CourseType = "management"
	CourseOther       CourseType = "other"
)

var CourseTypes = []CourseType{CourseGeneral, CourseProgramming, CourseDesign, CourseMarketing, CourseManagement, CourseOther}

type CourseStatus string

const (
	CourseNotStarted CourseStatus = "not-started"
	CourseInProgress CourseStatus = "in-progress"
	CourseDone       CourseStatus = "done"
	CoursePaused     CourseStatus = "paused"
)

var CourseStatuses = []CourseStatus{CourseNotStarted, CourseInProgress, CourseDone, CoursePaused}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert}

func ParseMood(raw string) (Mood, error)                 { return parseEnum(raw, Moods) }
func ParseTaskPriority(raw string) (TaskPriority, error) { return parseEnum(raw, TaskPriorities) }
func ParseTaskStatus(raw string) (TaskStatus, error)     { return parseEnum(raw, TaskStatuses) }
func ParseTaskCategory(raw string) (TaskCategory, error) { return parseEnum(raw, TaskCategories) }
func ParseCourseType(raw string) (CourseType, error)     { return parseEnum(raw, CourseTypes) }
func ParseCourseStatus(raw string) (CourseStatus, error) { return parseEnum(raw, CourseStatuses) }
func ParseDifficulty(raw string) (Difficulty, error)     { return parseEnum(raw, Difficulties) }

func ParseRecurringPattern(raw string) (RecurringPattern, error) {
	return parseEnum(raw, RecurringPatterns)
}

// EnumValues 以字符串形式列出允许值，用于错误提示。
func EnumValues[T ~string](values []T) string {
	items := make([]string, 0, len(values))
	for _, v := range values {
		items = append(items, string(v))
	}
	return strings.Join(items, ", ")
}

func parseEnum[T ~string](raw string, allowed []T) (T, error) {
	value := T(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(allowed, value) {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("must be one of: %s", EnumValues(allowed))
}
