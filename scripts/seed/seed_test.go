package main

import (
	"testing"
	"time"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/service"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := db.Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)
	gdb, err := gorm.Open(sqlite.Open("file:demo-seed?mode=memory&cache=shared"), cfg)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestSeederCreatesDemoDataOnce(t *testing.T) {
	gdb := setupSeedTestDB(t)

	tokens, err := auth.NewTokenManager("seed-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	s := newSeeder(gdb, service.NewUserService(gdb, auth.NewBcryptHasher(bcrypt.MinCost), tokens))

	report, err := s.run()
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if report.skipped || report.journal != 3 || report.tasks != 4 || report.courses != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}

	var course db.Course
	if err := gdb.Where("name = ?", "UI Fundamentals").First(&course).Error; err != nil {
		t.Fatalf("failed to load seeded course: %v", err)
	}
	if course.Status != db.CourseDone || course.EndDate == nil {
		t.Fatalf("expected completed course with end date, got %+v", course)
	}

	again, err := s.run()
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	if !again.skipped {
		t.Fatal("expected second run to be skipped")
	}

	var users int64
	gdb.Model(&db.User{}).Count(&users)
	if users != 1 {
		t.Fatalf("expected 1 user, got %d", users)
	}
}
