package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/db"
	"gorm.io/gorm"
)

const (
	maxUserNameLength   = 50
	maxAvatarLength     = 10
	minPasswordLength   = 6
	maxPasswordBytes    = 72
	duplicateEmailError = "a user with this email already exists"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// UserService 负责注册、登录、令牌解析以及账号资料维护
type UserService struct {
	db     *gorm.DB
	hasher auth.Hasher
	tokens *auth.TokenManager
	now    func() time.Time
}

// RegisterInput 注册所需字段
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfileInput 资料更新字段，nil 表示不修改
type ProfileInput struct {
	Name   *string
	Avatar *string
}

// AuthResult 是注册/登录成功后的返回值
type AuthResult struct {
	User  *db.User
	Token string
}

// NewUserService 构造 UserService
func NewUserService(gdb *gorm.DB, hasher auth.Hasher, tokens *auth.TokenManager) *UserService {
	return &UserService{db: gdb, hasher: hasher, tokens: tokens, now: time.Now}
}

// WithClock 替换时间来源
func (s *UserService) WithClock(now func() time.Time) *UserService {
	s.now = now
	return s
}

// NormalizeEmail 去除空白并转为小写，邮箱唯一性以此为准
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 创建新用户并签发令牌；邮箱大小写不敏感地唯一
func (s *UserService) Register(input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := NormalizeEmail(input.Email)

	v := &validator{}
	v.required("name", name, maxUserNameLength)
	validateEmail(v, email)
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		v.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength), nil)
	}
	validatePasswordLength(v, "password", input.Password)
	if err := v.err(); err != nil {
		return nil, err
	}

	taken, err := s.emailTaken(email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, NewValidationError("email", duplicateEmailError, email)
	}

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Avatar:   db.DefaultAvatar,
		IsActive: true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", duplicateEmailError, email)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issue(&user)
}

// Login 校验邮箱与密码。邮箱不存在、密码错误、账号停用返回同一个错误
func (s *UserService) Login(email, password string) (*AuthResult, error) {
	user, err := s.findByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Compare(user.Password, password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	loginAt := s.now().UTC()
	if err := s.db.Model(user).Update("last_login", loginAt).Error; err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}
	user.LastLogin = &loginAt

	return s.issue(user)
}

// Authenticate 将令牌解析为启用状态的用户。
// 令牌问题返回 auth.ErrInvalidToken / auth.ErrTokenExpired，用户缺失或停用返回 ErrUnauthenticated
func (s *UserService) Authenticate(token string) (*db.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	user, err := s.Get(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthenticated
	}
	return user, nil
}

// Get 按 ID 获取用户
func (s *UserService) Get(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile 更新昵称与头像
func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*db.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	v := &validator{}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		v.required("name", user.Name, maxUserNameLength)
	}
	if input.Avatar != nil {
		avatar := strings.TrimSpace(*input.Avatar)
		v.maxLength("avatar", avatar, maxAvatarLength)
		if avatar != "" {
			user.Avatar = avatar
		}
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword 校验当前密码后设置新密码；新密码需同时包含字母与数字
func (s *UserService) ChangePassword(id uint, current, next string) error {
	v := &validator{}
	if current == "" {
		v.add("currentPassword", "currentPassword is required", nil)
	}
	validatePasswordStrength(v, "newPassword", next)
	if err := v.err(); err != nil {
		return err
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.Password, current) {
		return ErrIncorrectPassword
	}

	hashed, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.db.Model(user).Update("password", hashed).Error; err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// DeleteAccount 在密码确认后硬删除用户及其名下全部数据
func (s *UserService) DeleteAccount(id uint, password string) error {
	if password == "" {
		return NewValidationError("password", "password is required to delete the account", nil)
	}

	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.Password, password) {
		return ErrIncorrectPassword
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&db.JournalEntry{}, &db.Task{}, &db.Course{}} {
			if err := ownedBy(tx, user.ID).Delete(model).Error; err != nil {
				return fmt.Errorf("delete account data: %w", err)
			}
		}
		if err := tx.Delete(&db.User{}, user.ID).Error; err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
}

func (s *UserService) issue(user *db.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *UserService) findByEmail(email string) (*db.User, error) {
	var user db.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserService) emailTaken(email string) (bool, error) {
	var count int64
	if err := s.db.Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func validateEmail(v *validator, email string) {
	if email == "" {
		v.add("email", "email is required", email)
		return
	}
	if !emailPattern.MatchString(email) {
		v.add("email", "please provide a valid email", email)
	}
}

// validatePasswordLength bcrypt 只接受不超过 72 字节的输入
func validatePasswordLength(v *validator, field, password string) {
	if len([]byte(password)) > maxPasswordBytes {
		v.add(field, fmt.Sprintf("%s must be at most %d bytes", field, maxPasswordBytes), nil)
	}
}

func validatePasswordStrength(v *validator, field, password string) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		v.add(field, fmt.Sprintf("%s must be at least %d characters", field, minPasswordLength), nil)
		return
	}
	if len([]byte(password)) > maxPasswordBytes {
		validatePasswordLength(v, field, password)
		return
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		v.add(field, fmt.Sprintf("%s must contain letters and numbers", field), nil)
	}
}
