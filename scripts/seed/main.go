package main

import (
	"fmt"
	"log"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/config"
	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/service"
	"github.com/joho/godotenv"
)

// 演示数据生成器：创建演示用户以及若干日志、任务和课程
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal("failed to create token manager: ", err)
	}

	seeder := newSeeder(gdb, service.NewUserService(gdb, auth.NewBcryptHasher(cfg.BcryptCost), tokens))
	report, err := seeder.run()
	if err != nil {
		log.Fatal("failed to seed demo data: ", err)
	}

	if report.skipped {
		fmt.Println("demo user already exists, skipping")
		return
	}
	fmt.Println("✅ demo data created")
	fmt.Printf("user: %s (password: %s)\n", demoEmail, demoPassword)
	fmt.Printf("journal entries: %d, tasks: %d, courses: %d\n", report.journal, report.tasks, report.courses)
}
