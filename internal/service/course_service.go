package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dailydev/internal/db"
	"gorm.io/gorm"
)

const (
	maxCourseNameLength        = 100
	maxCourseDescriptionLength = 500
	maxCourseDuration          = 10080
	maxCoursePlatformLength    = 50
	maxCourseNotesLength       = 1000
)

// CourseService 负责课程的增删改查与进度维护
type CourseService struct {
	db  *gorm.DB
	now func() time.Time
}

// CourseFilter 描述课程列表的筛选条件
type CourseFilter struct {
	Status     *db.CourseStatus
	Type       *db.CourseType
	Difficulty *db.Difficulty
}

// CourseInput 定义创建/更新课程时可提交的字段
// URL/StartDate/EndDate 传空字符串表示清空，Rating 传 0 表示清空
type CourseInput struct {
	Name        *string
	Description *string
	Duration    *int
	Type        *string
	Progress    *int
	Status      *string
	Difficulty  *string
	Platform    *string
	URL         *string
	StartDate   *string
	EndDate     *string
	Rating      *int
	Notes       *string
	Tags        *[]string
	IsPublic    *bool
}

// NewCourseService 构造 CourseService
func NewCourseService(gdb *gorm.DB) *CourseService {
	return &CourseService{db: gdb, now: time.Now}
}

// WithClock 替换时间来源
func (s *CourseService) WithClock(now func() time.Time) *CourseService {
	s.now = now
	return s
}

// List 按进度降序、创建时间降序返回课程
func (s *CourseService) List(ownerID uint, filter CourseFilter, page PageRequest) (*ListResult[db.Course], error) {
	query := ownedBy(s.db.Model(&db.Course{}), ownerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Difficulty != nil {
		query = query.Where("difficulty = ?", *filter.Difficulty)
	}

	result, err := paginate[db.Course](query, page, "progress DESC", "created_at DESC", "id DESC")
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return result, nil
}

// Get 获取 owner 名下的单个课程
func (s *CourseService) Get(ownerID, id uint) (*db.Course, error) {
	return findOwned[db.Course](s.db, ownerID, id, ErrCourseNotFound)
}

// Create 新建课程，保存前推导状态
func (s *CourseService) Create(ownerID uint, input CourseInput) (*db.Course, error) {
	now := s.now().UTC()
	course := db.Course{
		UserID:     ownerID,
		Type:       db.CourseGeneral,
		Status:     db.CourseNotStarted,
		Difficulty: db.DifficultyBeginner,
		Tags:       []string{},
	}
	course.CreatedAt = now

	if err := applyCourseInput(&course, input, true); err != nil {
		return nil, err
	}
	deriveCourseStatus(&course, now)

	if err := s.db.Create(&course).Error; err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return &course, nil
}

// Update 合并字段、重新执行全部校验（含跨字段校验）后推导状态并保存
func (s *CourseService) Update(ownerID, id uint, input CourseInput) (*db.Course, error) {
	course, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := applyCourseInput(course, input, false); err != nil {
		return nil, err
	}
	deriveCourseStatus(course, s.now().UTC())

	if err := s.db.Save(course).Error; err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// SetProgress 直接设置进度，只校验进度本身，然后重新推导状态
func (s *CourseService) SetProgress(ownerID, id uint, progress int) (*db.Course, error) {
	v := &validator{}
	v.intRange("progress", progress, 0, 100)
	if err := v.err(); err != nil {
		return nil, err
	}

	course, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}

	course.Progress = progress
	deriveCourseStatus(course, s.now().UTC())

	if err := s.db.Save(course).Error; err != nil {
		return nil, fmt.Errorf("update course progress: %w", err)
	}
	return course, nil
}

// Delete 删除 owner 名下的课程
func (s *CourseService) Delete(ownerID, id uint) error {
	return deleteOwned[db.Course](s.db, ownerID, id, ErrCourseNotFound)
}

// deriveCourseStatus 进度满 100 强制 done 并补齐结束日期（取 now 与开始日期中较晚者）；
// 进度大于 0 且仍为 not-started 时切换为 in-progress
func deriveCourseStatus(course *db.Course, now time.Time) {
	switch {
	case course.Progress >= 100:
		course.Status = db.CourseDone
		if course.EndDate == nil {
			// 结束日期不早于开始日期
			end := now
			if course.StartDate != nil && end.Before(*course.StartDate) {
				end = *course.StartDate
			}
			course.EndDate = &end
		}
	case course.Progress > 0 && course.Status == db.CourseNotStarted:
		course.Status = db.CourseInProgress
	}
}

func applyCourseInput(course *db.Course, input CourseInput, creating bool) error {
	v := &validator{}

	if input.Name != nil {
		course.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		course.Description = strings.TrimSpace(*input.Description)
	}
	if input.Duration != nil {
		course.Duration = *input.Duration
	} else if creating {
		v.add("duration", "duration is required", nil)
	}
	parseEnumField(v, "type", input.Type, db.ParseCourseType, &course.Type)
	if input.Progress != nil {
		course.Progress = *input.Progress
	}
	parseEnumField(v, "status", input.Status, db.ParseCourseStatus, &course.Status)
	parseEnumField(v, "difficulty", input.Difficulty, db.ParseDifficulty, &course.Difficulty)
	if input.Platform != nil {
		course.Platform = strings.TrimSpace(*input.Platform)
	}
	if input.URL != nil {
		course.URL = strings.TrimSpace(*input.URL)
	}
	parseDateField(v, "startDate", input.StartDate, &course.StartDate)
	parseDateField(v, "endDate", input.EndDate, &course.EndDate)
	if input.Rating != nil {
		if *input.Rating == 0 {
			course.Rating = nil
		} else {
			rating := *input.Rating
			course.Rating = &rating
		}
	}
	if input.Notes != nil {
		course.Notes = strings.TrimSpace(*input.Notes)
	}
	if input.Tags != nil {
		course.Tags = normalizeTags(*input.Tags)
	}
	if input.IsPublic != nil {
		course.IsPublic = *input.IsPublic
	}

	validateCourse(v, course)
	return v.err()
}

func validateCourse(v *validator, course *db.Course) {
	v.required("name", course.Name, maxCourseNameLength)
	v.maxLength("description", course.Description, maxCourseDescriptionLength)
	v.intRange("duration", course.Duration, 1, maxCourseDuration)
	v.intRange("progress", course.Progress, 0, 100)
	v.maxLength("platform", course.Platform, maxCoursePlatformLength)
	v.httpURL("url", course.URL)
	if course.Rating != nil {
		v.intRange("rating", *course.Rating, 1, 5)
	}
	v.maxLength("notes", course.Notes, maxCourseNotesLength)
	v.tags("tags", course.Tags)

	if course.StartDate != nil && course.EndDate != nil && course.EndDate.Before(*course.StartDate) &&
		!v.has("startDate") && !v.has("endDate") {
		v.add("endDate", "endDate cannot be before startDate", course.EndDate.Format(time.RFC3339))
	}
}
