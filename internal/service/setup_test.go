package service

import (
	"strings"
	"testing"
	"time"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// testClock 每次调用前进一分钟，保证创建时间可区分
type testClock struct {
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: testNow}
}

func (c *testClock) Now() time.Time {
	now := c.current
	c.current = c.current.Add(time.Minute)
	return now
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	cfg := db.Config()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return gdb
}

func newTestUserService(t *testing.T, gdb *gorm.DB) *UserService {
	t.Helper()
	tokens, err := auth.NewTokenManager("service-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return NewUserService(gdb, auth.NewBcryptHasher(bcrypt.MinCost), tokens)
}

func createTestUser(t *testing.T, gdb *gorm.DB, email string) *db.User {
	t.Helper()
	user := db.User{Name: "Tester", Email: email, Password: "x", Avatar: db.DefaultAvatar, IsActive: true}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
