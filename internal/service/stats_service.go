package service

import (
	"fmt"
	"time"

	"github.com/dailydev/internal/db"
	"gorm.io/gorm"
)

const recentJournalEntries = 5

// StatsService 汇总 owner 名下各类资源的只读统计
type StatsService struct {
	db  *gorm.DB
	now func() time.Time
}

// Breakdown 是按字段分组后的计数
type Breakdown struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// JournalSummary 学习日志统计
type JournalSummary struct {
	TotalEntries       int64
	TotalTimeMinutes   int64
	TotalTimeHours     float64
	AverageTimeMinutes float64
	MoodStats          []Breakdown
	RecentEntries      []db.JournalEntry
}

// TaskSummary 任务统计
type TaskSummary struct {
	TotalTasks     int64
	CompletedTasks int64
	PendingTasks   int64
	OverdueTasks   int64
	CompletionRate float64
	StatusStats    []Breakdown
	PriorityStats  []Breakdown
	CategoryStats  []Breakdown
}

// CourseSummary 课程统计
type CourseSummary struct {
	TotalCourses      int64
	CompletedCourses  int64
	InProgressCourses int64
	TotalTimeMinutes  int64
	TotalTimeHours    float64
	CompletionRate    float64
	AverageProgress   float64
	StatusStats       []Breakdown
	TypeStats         []Breakdown
	DifficultyStats   []Breakdown
}

// UserOverview 账号概览
type UserOverview struct {
	MemberSince    time.Time
	LastLogin      *time.Time
	IsActive       bool
	JournalEntries int64
	Tasks          int64
	Courses        int64
}

// NewStatsService 构造 StatsService
func NewStatsService(gdb *gorm.DB) *StatsService {
	return &StatsService{db: gdb, now: time.Now}
}

// WithClock 替换时间来源，逾期判断依赖它
func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// Journal 返回日志条数、总时长、平均时长、心情分布与最近 5 条日志
func (s *StatsService) Journal(ownerID uint) (*JournalSummary, error) {
	summary := &JournalSummary{}

	var totals struct {
		Count int64
		Sum   int64
	}
	if err := ownedBy(s.db.Model(&db.JournalEntry{}), ownerID).
		Select("COUNT(*) AS count, COALESCE(SUM(time_spent), 0) AS sum").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("journal totals: %w", err)
	}
	summary.TotalEntries = totals.Count
	summary.TotalTimeMinutes = totals.Sum
	summary.TotalTimeHours = db.RoundOne(float64(totals.Sum) / 60)
	summary.AverageTimeMinutes = average(totals.Sum, totals.Count)

	moods, err := s.breakdown(&db.JournalEntry{}, ownerID, "mood")
	if err != nil {
		return nil, err
	}
	summary.MoodStats = moods

	recent := make([]db.JournalEntry, 0, recentJournalEntries)
	if err := ownedBy(s.db, ownerID).
		Order("created_at DESC").Order("id DESC").
		Limit(recentJournalEntries).
		Find(&recent).Error; err != nil {
		return nil, fmt.Errorf("recent journal entries: %w", err)
	}
	summary.RecentEntries = recent

	return summary, nil
}

// Tasks 返回任务总数、完成/待办/逾期数量、完成率与各维度分布
func (s *StatsService) Tasks(ownerID uint) (*TaskSummary, error) {
	summary := &TaskSummary{}

	statuses, err := s.breakdown(&db.Task{}, ownerID, "status")
	if err != nil {
		return nil, err
	}
	summary.StatusStats = statuses
	for _, item := range statuses {
		summary.TotalTasks += item.Count
		switch db.TaskStatus(item.Value) {
		case db.TaskDone:
			summary.CompletedTasks += item.Count
		case db.TaskTodo, db.TaskInProgress:
			summary.PendingTasks += item.Count
		}
	}
	summary.CompletionRate = percentage(summary.CompletedTasks, summary.TotalTasks)

	// 逾期在查询时按当前时间判断，与单条任务的 IsOverdue 保持一致
	var open []db.Task
	if err := ownedBy(s.db.Model(&db.Task{}), ownerID).
		Select("id", "status", "due_date").
		Where("due_date IS NOT NULL AND status <> ?", db.TaskDone).
		Find(&open).Error; err != nil {
		return nil, fmt.Errorf("open tasks: %w", err)
	}
	now := s.now().UTC()
	for _, task := range open {
		if task.IsOverdue(now) {
			summary.OverdueTasks++
		}
	}

	if summary.PriorityStats, err = s.breakdown(&db.Task{}, ownerID, "priority"); err != nil {
		return nil, err
	}
	if summary.CategoryStats, err = s.breakdown(&db.Task{}, ownerID, "category"); err != nil {
		return nil, err
	}
	return summary, nil
}

// Courses 返回课程数量、总学时、完成率、平均进度与各维度分布
func (s *StatsService) Courses(ownerID uint) (*CourseSummary, error) {
	summary := &CourseSummary{}

	var totals struct {
		Count    int64
		Duration int64
		Progress int64
	}
	if err := ownedBy(s.db.Model(&db.Course{}), ownerID).
		Select("COUNT(*) AS count, COALESCE(SUM(duration), 0) AS duration, COALESCE(SUM(progress), 0) AS progress").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("course totals: %w", err)
	}
	summary.TotalCourses = totals.Count
	summary.TotalTimeMinutes = totals.Duration
	summary.TotalTimeHours = db.RoundOne(float64(totals.Duration) / 60)
	summary.AverageProgress = average(totals.Progress, totals.Count)

	statuses, err := s.breakdown(&db.Course{}, ownerID, "status")
	if err != nil {
		return nil, err
	}
	summary.StatusStats = statuses
	for _, item := range statuses {
		switch db.CourseStatus(item.Value) {
		case db.CourseDone:
			summary.CompletedCourses += item.Count
		case db.CourseInProgress:
			summary.InProgressCourses += item.Count
		}
	}
	summary.CompletionRate = percentage(summary.CompletedCourses, summary.TotalCourses)

	if summary.TypeStats, err = s.breakdown(&db.Course{}, ownerID, "type"); err != nil {
		return nil, err
	}
	if summary.DifficultyStats, err = s.breakdown(&db.Course{}, ownerID, "difficulty"); err != nil {
		return nil, err
	}
	return summary, nil
}

// Overview 返回账号信息与三类资源的数量
func (s *StatsService) Overview(user *db.User) (*UserOverview, error) {
	overview := &UserOverview{
		MemberSince: user.CreatedAt,
		LastLogin:   user.LastLogin,
		IsActive:    user.IsActive,
	}

	counts := []struct {
		model  any
		target *int64
	}{
		{&db.JournalEntry{}, &overview.JournalEntries},
		{&db.Task{}, &overview.Tasks},
		{&db.Course{}, &overview.Courses},
	}
	for _, c := range counts {
		if err := ownedBy(s.db.Model(c.model), user.ID).Count(c.target).Error; err != nil {
			return nil, fmt.Errorf("count user records: %w", err)
		}
	}
	return overview, nil
}

// breakdown 按 column 分组计数，按数量降序、取值升序排列
func (s *StatsService) breakdown(model any, ownerID uint, column string) ([]Breakdown, error) {
	items := make([]Breakdown, 0)
	if err := ownedBy(s.db.Model(model), ownerID).
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Order("count DESC").Order("value ASC").
		Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("%s breakdown: %w", column, err)
	}
	return items, nil
}

func average(sum, count int64) float64 {
	if count == 0 {
		return 0
	}
	return db.RoundOne(float64(sum) / float64(count))
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return db.RoundOne(float64(part) / float64(total) * 100)
}
