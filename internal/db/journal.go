package db

import (
	"math"
	"strings"
)

// JournalEntry 定义了学习日志模型
// CreatedAt 同时作为日志日期；UserID 创建后不可修改
type JournalEntry struct {
	Model
	UserID     uint     `gorm:"not null;index:idx_journal_user_created,priority:1"`
	Learned    string   `gorm:"type:text;not null"`
	Challenges string   `gorm:"type:text;not null"`
	TimeSpent  int      `gorm:"not null"`
	Mood       Mood     `gorm:"size:20;not null;index"`
	Tags       []string `gorm:"type:text;serializer:json"`
	IsPublic   bool
}

// Date 返回 YYYY-MM-DD 形式的日志日期
func (e JournalEntry) Date() string {
	return e.CreatedAt.UTC().Format("2006-01-02")
}

// WordCount 统计学习内容与挑战描述的单词总数
func (e JournalEntry) WordCount() int {
	return len(strings.Fields(e.Learned)) + len(strings.Fields(e.Challenges))
}

// TimeInHours 返回保留一位小数的小时数
func (e JournalEntry) TimeInHours() float64 {
	return RoundOne(float64(e.TimeSpent) / 60)
}

// RoundOne 四舍五入到一位小数
func RoundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
