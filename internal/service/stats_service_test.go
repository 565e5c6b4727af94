package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsServiceJournal(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := createTestUser(t, gdb, "owner@example.com")
	other := createTestUser(t, gdb, "other@example.com")
	journal := NewJournalService(gdb).WithClock(newTestClock().Now)

	for _, minutes := range []int{30, 45} {
		_, err := journal.Create(owner.ID, JournalInput{
			Learned: strPtr("learned"), Challenges: strPtr("challenge"), TimeSpent: intPtr(minutes), Mood: strPtr("good"),
		})
		require.NoError(t, err)
	}
	_, err := journal.Create(other.ID, JournalInput{Learned: strPtr("x"), Challenges: strPtr("y"), TimeSpent: intPtr(600)})
	require.NoError(t, err)

	stats := NewStatsService(gdb)
	summary, err := stats.Journal(owner.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.TotalEntries)
	assert.EqualValues(t, 75, summary.TotalTimeMinutes)
	assert.Equal(t, 1.3, summary.TotalTimeHours)
	assert.Equal(t, 37.5, summary.AverageTimeMinutes)
	assert.Equal(t, []Breakdown{{Value: "good", Count: 2}}, summary.MoodStats)
	require.Len(t, summary.RecentEntries, 2)
	assert.Equal(t, 45, summary.RecentEntries[0].TimeSpent)
}

func TestStatsServiceJournalEmpty(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := createTestUser(t, gdb, "owner@example.com")

	summary, err := NewStatsService(gdb).Journal(owner.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalEntries)
	assert.Zero(t, summary.AverageTimeMinutes)
	assert.Empty(t, summary.MoodStats)
	assert.Empty(t, summary.RecentEntries)
}

func TestStatsServiceTasks(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := createTestUser(t, gdb, "owner@example.com")
	clock := newTestClock()
	tasks := NewTaskService(gdb).WithClock(clock.Now)

	inputs := []TaskInput{
		{Title: strPtr("a"), Status: strPtr("done"), Priority: strPtr("high")},
		{Title: strPtr("b"), Status: strPtr("todo"), DueDate: strPtr("2025-06-02")},
		{Title: strPtr("c"), Status: strPtr("in-progress"), Category: strPtr("work")},
		{Title: strPtr("d"), Status: strPtr("cancelled")},
	}
	for _, input := range inputs {
		_, err := tasks.Create(owner.ID, input)
		require.NoError(t, err)
	}

	// 截止日期之后再统计，b 视为逾期
	later := testNow.AddDate(0, 0, 3)
	stats := NewStatsService(gdb).WithClock(func() time.Time { return later })
	summary, err := stats.Tasks(owner.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 4, summary.TotalTasks)
	assert.EqualValues(t, 1, summary.CompletedTasks)
	assert.EqualValues(t, 2, summary.PendingTasks)
	assert.EqualValues(t, 1, summary.OverdueTasks)
	assert.Equal(t, 25.0, summary.CompletionRate)
	assert.Equal(t, []Breakdown{{Value: "medium", Count: 3}, {Value: "high", Count: 1}}, summary.PriorityStats)
	assert.Equal(t, []Breakdown{{Value: "personal", Count: 3}, {Value: "work", Count: 1}}, summary.CategoryStats)
	assert.Len(t, summary.StatusStats, 4)
}

func TestStatsServiceCourses(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := createTestUser(t, gdb, "owner@example.com")
	courses := NewCourseService(gdb).WithClock(newTestClock().Now)

	inputs := []CourseInput{
		{Name: strPtr("a"), Duration: intPtr(120), Progress: intPtr(100), Type: strPtr("programming")},
		{Name: strPtr("b"), Duration: intPtr(60), Progress: intPtr(50), Type: strPtr("programming")},
		{Name: strPtr("c"), Duration: intPtr(90), Difficulty: strPtr("advanced")},
	}
	for _, input := range inputs {
		_, err := courses.Create(owner.ID, input)
		require.NoError(t, err)
	}

	summary, err := NewStatsService(gdb).Courses(owner.ID)
	require.NoError(t, err)

	assert.EqualValues(t, 3, summary.TotalCourses)
	assert.EqualValues(t, 1, summary.CompletedCourses)
	assert.EqualValues(t, 1, summary.InProgressCourses)
	assert.EqualValues(t, 270, summary.TotalTimeMinutes)
	assert.Equal(t, 4.5, summary.TotalTimeHours)
	assert.Equal(t, 33.3, summary.CompletionRate)
	assert.Equal(t, 50.0, summary.AverageProgress)
	assert.Equal(t, []Breakdown{{Value: "programming", Count: 2}, {Value: "general", Count: 1}}, summary.TypeStats)
	assert.Equal(t, []Breakdown{{Value: "beginner", Count: 2}, {Value: "advanced", Count: 1}}, summary.DifficultyStats)
}

func TestStatsServiceOverview(t *testing.T) {
	gdb := setupServiceTestDB(t)
	owner := createTestUser(t, gdb, "owner@example.com")

	_, err := NewTaskService(gdb).Create(owner.ID, TaskInput{Title: strPtr("one")})
	require.NoError(t, err)

	overview, err := NewStatsService(gdb).Overview(owner)
	require.NoError(t, err)
	assert.True(t, overview.IsActive)
	assert.EqualValues(t, 1, overview.Tasks)
	assert.Zero(t, overview.JournalEntries)
	assert.Zero(t, overview.Courses)
}
