package main

import (
	"fmt"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/service"
	"gorm.io/gorm"
)

const (
	demoName     = "Demo Developer"
	demoEmail    = "demo@dailydev.local"
	demoPassword = "demo1234"
)

type seedReport struct {
	skipped bool
	journal int
	tasks   int
	courses int
}

type seeder struct {
	db      *gorm.DB
	users   *service.UserService
	journal *service.JournalService
	tasks   *service.TaskService
	courses *service.CourseService
}

func newSeeder(gdb *gorm.DB, users *service.UserService) *seeder {
	return &seeder{
		db:      gdb,
		users:   users,
		journal: service.NewJournalService(gdb),
		tasks:   service.NewTaskService(gdb),
		courses: service.NewCourseService(gdb),
	}
}

func (s *seeder) run() (seedReport, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", demoEmail).Count(&count).Error; err != nil {
		return seedReport{}, err
	}
	if count > 0 {
		return seedReport{skipped: true}, nil
	}

	result, err := s.users.Register(service.RegisterInput{Name: demoName, Email: demoEmail, Password: demoPassword})
	if err != nil {
		return seedReport{}, fmt.Errorf("register demo user: %w", err)
	}
	ownerID := result.User.ID

	report := seedReport{}
	for _, input := range demoJournal() {
		if _, err := s.journal.Create(ownerID, input); err != nil {
			return report, fmt.Errorf("seed journal: %w", err)
		}
		report.journal++
	}
	for _, input := range demoTasks() {
		if _, err := s.tasks.Create(ownerID, input); err != nil {
			return report, fmt.Errorf("seed task: %w", err)
		}
		report.tasks++
	}
	for _, input := range demoCourses() {
		if _, err := s.courses.Create(ownerID, input); err != nil {
			return report, fmt.Errorf("seed course: %w", err)
		}
		report.courses++
	}
	return report, nil
}

func demoJournal() []service.JournalInput {
	return []service.JournalInput{
		{
			Learned:    ptr("How `context.WithTimeout` propagates cancellation to **every** downstream call."),
			Challenges: ptr("A goroutine kept running after the request ended."),
			TimeSpent:  ptr(90),
			Mood:       ptr("good"),
			Tags:       &[]string{"go", "concurrency"},
		},
		{
			Learned:    ptr("Table-driven tests with subtests and `t.Run`."),
			Challenges: ptr("Naming test cases so failures are readable."),
			TimeSpent:  ptr(45),
			Mood:       ptr("excellent"),
			Tags:       &[]string{"testing"},
		},
		{
			Learned:    ptr("SQLite stores times as text; keep everything in UTC."),
			Challenges: ptr("Sorting broke when mixing time zones."),
			TimeSpent:  ptr(30),
			Mood:       ptr("ok"),
			Tags:       &[]string{"sqlite", "gorm"},
		},
	}
}

func demoTasks() []service.TaskInput {
	return []service.TaskInput{
		{Title: ptr("Review pull requests"), Priority: ptr("high"), Category: ptr("work")},
		{Title: ptr("Finish chapter 4 exercises"), Priority: ptr("medium"), Category: ptr("study"), EstimatedTime: ptr(120)},
		{Title: ptr("Morning run"), Category: ptr("health"), IsRecurring: ptr(true), RecurringPattern: ptr("daily")},
		{Title: ptr("Renew domain"), Priority: ptr("urgent"), Status: ptr("done"), Category: ptr("personal")},
	}
}

func demoCourses() []service.CourseInput {
	return []service.CourseInput{
		{
			Name: ptr("Go: The Complete Developer's Guide"), Duration: ptr(1500), Type: ptr("programming"),
			Progress: ptr(60), Difficulty: ptr("intermediate"), Platform: ptr("Udemy"), URL: ptr("https://www.udemy.com/"),
		},
		{
			Name: ptr("Designing Data-Intensive Applications"), Duration: ptr(900), Type: ptr("programming"),
			Difficulty: ptr("advanced"), Tags: &[]string{"books", "distributed-systems"},
		},
		{
			Name: ptr("UI Fundamentals"), Duration: ptr(300), Type: ptr("design"), Progress: ptr(100), Rating: ptr(4),
		},
	}
}

func ptr[T any](v T) *T { return &v }
