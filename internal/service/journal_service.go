package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dailydev/internal/db"
	"gorm.io/gorm"
)

const (
	maxJournalTextLength = 2000
	maxMinutesPerDay     = 1440
)

// JournalSort 控制日志列表按创建时间的排序方向
type JournalSort string

const (
	JournalNewest JournalSort = "newest"
	JournalOldest JournalSort = "oldest"
)

// ParseJournalSort 解析排序参数，空值返回 newest
func ParseJournalSort(raw string) (JournalSort, error) {
	switch JournalSort(strings.ToLower(strings.TrimSpace(raw))) {
	case "", JournalNewest:
		return JournalNewest, nil
	case JournalOldest:
		return JournalOldest, nil
	}
	return "", fmt.Errorf("must be one of: newest, oldest")
}

// JournalService 负责学习日志的增删改查，所有操作都限定在 owner 名下
type JournalService struct {
	db  *gorm.DB
	now func() time.Time
}

// JournalFilter 描述列表筛选条件
type JournalFilter struct {
	Mood *db.Mood
	Sort JournalSort
}

// JournalInput 定义创建/更新日志时可提交的字段，nil 表示未提交
type JournalInput struct {
	Learned    *string
	Challenges *string
	TimeSpent  *int
	Mood       *string
	Tags       *[]string
	IsPublic   *bool
}

// NewJournalService 构造 JournalService
func NewJournalService(gdb *gorm.DB) *JournalService {
	return &JournalService{db: gdb, now: time.Now}
}

// WithClock 替换时间来源
func (s *JournalService) WithClock(now func() time.Time) *JournalService {
	s.now = now
	return s
}

// List 返回 owner 的日志分页列表
func (s *JournalService) List(ownerID uint, filter JournalFilter, page PageRequest) (*ListResult[db.JournalEntry], error) {
	query := ownedBy(s.db.Model(&db.JournalEntry{}), ownerID)
	if filter.Mood != nil {
		query = query.Where("mood = ?", *filter.Mood)
	}

	order := []string{"created_at DESC", "id DESC"}
	if filter.Sort == JournalOldest {
		order = []string{"created_at ASC", "id ASC"}
	}

	result, err := paginate[db.JournalEntry](query, page, order...)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return result, nil
}

// Get 获取 owner 名下的单条日志
func (s *JournalService) Get(ownerID, id uint) (*db.JournalEntry, error) {
	return findOwned[db.JournalEntry](s.db, ownerID, id, ErrJournalEntryNotFound)
}

// Create 新建日志，UserID 始终取自 ownerID
func (s *JournalService) Create(ownerID uint, input JournalInput) (*db.JournalEntry, error) {
	entry := db.JournalEntry{
		UserID: ownerID,
		Mood:   db.MoodOK,
		Tags:   []string{},
	}
	entry.CreatedAt = s.now().UTC()

	if err := applyJournalInput(&entry, input, true); err != nil {
		return nil, err
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return &entry, nil
}

// Update 将提交的字段合并到已有日志上并重新校验
func (s *JournalService) Update(ownerID, id uint, input JournalInput) (*db.JournalEntry, error) {
	entry, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := applyJournalInput(entry, input, false); err != nil {
		return nil, err
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, fmt.Errorf("update journal entry: %w", err)
	}
	return entry, nil
}

// Delete 删除 owner 名下的日志
func (s *JournalService) Delete(ownerID, id uint) error {
	return deleteOwned[db.JournalEntry](s.db, ownerID, id, ErrJournalEntryNotFound)
}

func applyJournalInput(entry *db.JournalEntry, input JournalInput, creating bool) error {
	v := &validator{}

	if input.Learned != nil {
		entry.Learned = strings.TrimSpace(*input.Learned)
	}
	if input.Challenges != nil {
		entry.Challenges = strings.TrimSpace(*input.Challenges)
	}
	if input.TimeSpent != nil {
		entry.TimeSpent = *input.TimeSpent
	} else if creating {
		v.add("timeSpent", "timeSpent is required", nil)
	}
	parseEnumField(v, "mood", input.Mood, db.ParseMood, &entry.Mood)
	if input.Tags != nil {
		entry.Tags = normalizeTags(*input.Tags)
	}
	if input.IsPublic != nil {
		entry.IsPublic = *input.IsPublic
	}

	validateJournalEntry(v, entry)
	return v.err()
}

func validateJournalEntry(v *validator, entry *db.JournalEntry) {
	v.required("learned", entry.Learned, maxJournalTextLength)
	v.required("challenges", entry.Challenges, maxJournalTextLength)
	v.intRange("timeSpent", entry.TimeSpent, 1, maxMinutesPerDay)
	v.tags("tags", entry.Tags)
}
