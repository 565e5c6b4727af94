package handler

import (
	"time"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

func userToPayload(user db.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"name":      user.Name,
		"email":     user.Email,
		"avatar":    user.Avatar,
		"isActive":  user.IsActive,
		"lastLogin": formatOptionalTime(user.LastLogin),
		"createdAt": formatTime(user.CreatedAt),
		"updatedAt": formatTime(user.UpdatedAt),
	}
}

func journalToPayload(entry db.JournalEntry) gin.H {
	return gin.H{
		"id":          entry.ID,
		"userId":      entry.UserID,
		"learned":     entry.Learned,
		"challenges":  entry.Challenges,
		"timeSpent":   entry.TimeSpent,
		"mood":        entry.Mood,
		"tags":        tagsOrEmpty(entry.Tags),
		"isPublic":    entry.IsPublic,
		"date":        entry.Date(),
		"wordCount":   entry.WordCount(),
		"timeInHours": entry.TimeInHours(),
		"createdAt":   formatTime(entry.CreatedAt),
		"updatedAt":   formatTime(entry.UpdatedAt),
	}
}

func journalListPayload(entries []db.JournalEntry) []gin.H {
	items := make([]gin.H, 0, len(entries))
	for _, entry := range entries {
		items = append(items, journalToPayload(entry))
	}
	return items
}

func taskToPayload(task db.Task, now time.Time) gin.H {
	var timeDifference any
	if diff := task.TimeDifference(); diff != nil {
		timeDifference = *diff
	}

	var recurringPattern any
	if task.RecurringPattern != "" {
		recurringPattern = task.RecurringPattern
	}

	return gin.H{
		"id":               task.ID,
		"userId":           task.UserID,
		"title":            task.Title,
		"description":      task.Description,
		"priority":         task.Priority,
		"status":           task.Status,
		"category":         task.Category,
		"dueDate":          formatOptionalTime(task.DueDate),
		"completedAt":      formatOptionalTime(task.CompletedAt),
		"estimatedTime":    optionalInt(task.EstimatedTime),
		"actualTime":       optionalInt(task.ActualTime),
		"tags":             tagsOrEmpty(task.Tags),
		"isRecurring":      task.IsRecurring,
		"recurringPattern": recurringPattern,
		"isOverdue":        task.IsOverdue(now),
		"timeDifference":   timeDifference,
		"createdAt":        formatTime(task.CreatedAt),
		"updatedAt":        formatTime(task.UpdatedAt),
	}
}

func taskListPayload(tasks []db.Task, now time.Time) []gin.H {
	items := make([]gin.H, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, taskToPayload(task, now))
	}
	return items
}

func courseToPayload(course db.Course) gin.H {
	return gin.H{
		"id":              course.ID,
		"userId":          course.UserID,
		"name":            course.Name,
		"description":     course.Description,
		"duration":        course.Duration,
		"type":            course.Type,
		"progress":        course.Progress,
		"status":          course.Status,
		"difficulty":      course.Difficulty,
		"platform":        course.Platform,
		"url":             course.URL,
		"startDate":       formatOptionalTime(course.StartDate),
		"endDate":         formatOptionalTime(course.EndDate),
		"rating":          optionalInt(course.Rating),
		"notes":           course.Notes,
		"tags":            tagsOrEmpty(course.Tags),
		"isPublic":        course.IsPublic,
		"durationInHours": course.DurationInHours(),
		"remainingTime":   course.RemainingTime(),
		"isCompleted":     course.IsCompleted(),
		"createdAt":       formatTime(course.CreatedAt),
		"updatedAt":       formatTime(course.UpdatedAt),
	}
}

func courseListPayload(courses []db.Course) []gin.H {
	items := make([]gin.H, 0, len(courses))
	for _, course := range courses {
		items = append(items, courseToPayload(course))
	}
	return items
}

func journalSummaryPayload(summary *service.JournalSummary) gin.H {
	return gin.H{
		"totalEntries":       summary.TotalEntries,
		"totalTimeMinutes":   summary.TotalTimeMinutes,
		"totalTimeHours":     summary.TotalTimeHours,
		"averageTimeMinutes": summary.AverageTimeMinutes,
		"moodStats":          summary.MoodStats,
		"recentEntries":      journalListPayload(summary.RecentEntries),
	}
}

func taskSummaryPayload(summary *service.TaskSummary) gin.H {
	return gin.H{
		"totalTasks":     summary.TotalTasks,
		"completedTasks": summary.CompletedTasks,
		"pendingTasks":   summary.PendingTasks,
		"overdueTasks":   summary.OverdueTasks,
		"completionRate": summary.CompletionRate,
		"statusStats":    summary.StatusStats,
		"priorityStats":  summary.PriorityStats,
		"categoryStats":  summary.CategoryStats,
	}
}

func courseSummaryPayload(summary *service.CourseSummary) gin.H {
	return gin.H{
		"totalCourses":      summary.TotalCourses,
		"completedCourses":  summary.CompletedCourses,
		"inProgressCourses": summary.InProgressCourses,
		"totalTimeMinutes":  summary.TotalTimeMinutes,
		"totalTimeHours":    summary.TotalTimeHours,
		"completionRate":    summary.CompletionRate,
		"averageProgress":   summary.AverageProgress,
		"statusStats":       summary.StatusStats,
		"typeStats":         summary.TypeStats,
		"difficultyStats":   summary.DifficultyStats,
	}
}

func overviewPayload(overview *service.UserOverview) gin.H {
	return gin.H{
		"memberSince":    formatTime(overview.MemberSince),
		"lastLogin":      formatOptionalTime(overview.LastLogin),
		"isActive":       overview.IsActive,
		"journalEntries": overview.JournalEntries,
		"tasks":          overview.Tasks,
		"courses":        overview.Courses,
	}
}
