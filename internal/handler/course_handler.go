package handler

import (
	"net/http"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/metrics"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

const courseNotFoundMessage = "Course not found"

type coursePayload struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Duration    *int      `json:"duration"`
	Type        *string   `json:"type"`
	Progress    *int      `json:"progress"`
	Status      *string   `json:"status"`
	Difficulty  *string   `json:"difficulty"`
	Platform    *string   `json:"platform"`
	URL         *string   `json:"url"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	Rating      *int      `json:"rating"`
	Notes       *string   `json:"notes"`
	Tags        *[]string `json:"tags"`
	IsPublic    *bool     `json:"isPublic"`
}

func (p coursePayload) toInput() service.CourseInput {
	return service.CourseInput{
		Name:        p.Name,
		Description: p.Description,
		Duration:    p.Duration,
		Type:        p.Type,
		Progress:    p.Progress,
		Status:      p.Status,
		Difficulty:  p.Difficulty,
		Platform:    p.Platform,
		URL:         p.URL,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Rating:      p.Rating,
		Notes:       p.Notes,
		Tags:        p.Tags,
		IsPublic:    p.IsPublic,
	}
}

// ListCourses 分页返回当前用户的课程
func (a *API) ListCourses(c *gin.Context) {
	q := &queryErrors{}
	page := parsePageQuery(c, q)
	filter := service.CourseFilter{
		Status:     parseEnumQuery(c, q, "status", db.ParseCourseStatus),
		Type:       parseEnumQuery(c, q, "type", db.ParseCourseType),
		Difficulty: parseEnumQuery(c, q, "difficulty", db.ParseDifficulty),
	}
	if q.respond(c) {
		return
	}

	result, err := a.courses.List(principal(c).ID, filter, page)
	if err != nil {
		a.serverError(c, err, "list courses")
		return
	}

	respondList(c, courseListPayload(result.Items), result.Pagination)
}

// GetCourse 返回单个课程
func (a *API) GetCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	course, err := a.courses.Get(principal(c).ID, id)
	if err != nil {
		a.handleCourseError(c, err, "get course")
		return
	}

	respondData(c, http.StatusOK, "", courseToPayload(*course))
}

// CreateCourse 新建课程
func (a *API) CreateCourse(c *gin.Context) {
	var payload coursePayload
	if !bindJSON(c, &payload) {
		return
	}

	course, err := a.courses.Create(principal(c).ID, payload.toInput())
	if err != nil {
		a.handleCourseError(c, err, "create course")
		return
	}

	metrics.RecordMutation("course", "create")
	respondData(c, http.StatusCreated, "Course added successfully!", courseToPayload(*course))
}

// UpdateCourse 更新课程
func (a *API) UpdateCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload coursePayload
	if !bindJSON(c, &payload) {
		return
	}

	course, err := a.courses.Update(principal(c).ID, id, payload.toInput())
	if err != nil {
		a.handleCourseError(c, err, "update course")
		return
	}

	metrics.RecordMutation("course", "update")
	respondData(c, http.StatusOK, "Course updated successfully!", courseToPayload(*course))
}

// UpdateCourseProgress 只更新进度
func (a *API) UpdateCourseProgress(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload struct {
		Progress *int `json:"progress"`
	}
	if !bindJSON(c, &payload) {
		return
	}
	if payload.Progress == nil {
		respondValidation(c, service.NewValidationError("progress", "progress is required", nil))
		return
	}

	course, err := a.courses.SetProgress(principal(c).ID, id, *payload.Progress)
	if err != nil {
		a.handleCourseError(c, err, "update course progress")
		return
	}

	metrics.RecordMutation("course", "progress")
	respondData(c, http.StatusOK, "Course progress updated successfully!", courseToPayload(*course))
}

// DeleteCourse 删除课程
func (a *API) DeleteCourse(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := a.courses.Delete(principal(c).ID, id); err != nil {
		a.handleCourseError(c, err, "delete course")
		return
	}

	metrics.RecordMutation("course", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully!"})
}

// CourseStats 返回课程统计
func (a *API) CourseStats(c *gin.Context) {
	summary, err := a.stats.Courses(principal(c).ID)
	if err != nil {
		a.serverError(c, err, "course stats")
		return
	}
	respondData(c, http.StatusOK, "", courseSummaryPayload(summary))
}

func (a *API) handleCourseError(c *gin.Context, err error, action string) {
	a.handleResourceError(c, err, service.ErrCourseNotFound, courseNotFoundMessage, action)
}
