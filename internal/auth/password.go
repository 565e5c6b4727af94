package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher 抽象密码摘要能力
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// BcryptHasher 基于 bcrypt 的 Hasher 实现
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher 构造 BcryptHasher，cost 越界时使用 bcrypt.DefaultCost
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash 生成加盐摘要
func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare 校验明文与摘要是否匹配
func (h BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
