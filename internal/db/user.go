package db

import (
	"time"
)

// DefaultAvatar 是新用户的默认头像字符
const DefaultAvatar = "👤"

// User 定义了用户模型
// Email 统一小写存储并建立唯一索引；Password 仅保存 bcrypt 摘要，不对外序列化
type User struct {
	Model
	Name      string `gorm:"size:50;not null"`
	Email     string `gorm:"size:255;uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Avatar    string `gorm:"size:32"`
	IsActive  bool   `gorm:"not null"`
	LastLogin *time.Time
}
