package handler

import (
	"time"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	users       *service.UserService
	journal     *service.JournalService
	tasks       *service.TaskService
	courses     *service.CourseService
	stats       *service.StatsService
	logger      *logrus.Logger
	development bool
	now         func() time.Time
}

// Options configures NewAPI. Now is optional and defaults to time.Now.
type Options struct {
	Tokens      *auth.TokenManager
	Hasher      auth.Hasher
	Logger      *logrus.Logger
	Development bool
	Now         func() time.Time
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &API{
		db:          db,
		users:       service.NewUserService(db, opts.Hasher, opts.Tokens).WithClock(now),
		journal:     service.NewJournalService(db).WithClock(now),
		tasks:       service.NewTaskService(db).WithClock(now),
		courses:     service.NewCourseService(db).WithClock(now),
		stats:       service.NewStatsService(db).WithClock(now),
		logger:      logger,
		development: opts.Development,
		now:         now,
	}
}

// DB exposes the underlying gorm instance for health checks.
func (a *API) DB() *gorm.DB {
	return a.db
}
