package handler

import (
	"net/http"

	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/metrics"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

const journalNotFoundMessage = "Journal entry not found"

type journalPayload struct {
	Learned    *string   `json:"learned"`
	Challenges *string   `json:"challenges"`
	TimeSpent  *int      `json:"timeSpent"`
	Mood       *string   `json:"mood"`
	Tags       *[]string `json:"tags"`
	IsPublic   *bool     `json:"isPublic"`
}

func (p journalPayload) toInput() service.JournalInput {
	return service.JournalInput{
		Learned:    p.Learned,
		Challenges: p.Challenges,
		TimeSpent:  p.TimeSpent,
		Mood:       p.Mood,
		Tags:       p.Tags,
		IsPublic:   p.IsPublic,
	}
}

// ListJournal 分页返回当前用户的学习日志
func (a *API) ListJournal(c *gin.Context) {
	q := &queryErrors{}
	page := parsePageQuery(c, q)
	filter := service.JournalFilter{Mood: parseEnumQuery(c, q, "mood", db.ParseMood)}
	sort, err := service.ParseJournalSort(c.Query("sort"))
	if err != nil {
		q.add("sort", "sort "+err.Error(), c.Query("sort"))
	}
	filter.Sort = sort
	if q.respond(c) {
		return
	}

	result, err := a.journal.List(principal(c).ID, filter, page)
	if err != nil {
		a.serverError(c, err, "list journal entries")
		return
	}

	respondList(c, journalListPayload(result.Items), result.Pagination)
}

// GetJournalEntry 返回单条日志，并附带渲染后的 HTML
func (a *API) GetJournalEntry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entry, err := a.journal.Get(principal(c).ID, id)
	if err != nil {
		a.handleJournalError(c, err, "get journal entry")
		return
	}

	payload := journalToPayload(*entry)
	if html, err := renderMarkdown(entry.Learned); err == nil {
		payload["learnedHtml"] = html
	}
	if html, err := renderMarkdown(entry.Challenges); err == nil {
		payload["challengesHtml"] = html
	}

	respondData(c, http.StatusOK, "", payload)
}

// CreateJournalEntry 新建日志
func (a *API) CreateJournalEntry(c *gin.Context) {
	var payload journalPayload
	if !bindJSON(c, &payload) {
		return
	}

	entry, err := a.journal.Create(principal(c).ID, payload.toInput())
	if err != nil {
		a.handleJournalError(c, err, "create journal entry")
		return
	}

	metrics.RecordMutation("journal", "create")
	respondData(c, http.StatusCreated, "Journal entry saved successfully!", journalToPayload(*entry))
}

// UpdateJournalEntry 更新日志
func (a *API) UpdateJournalEntry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload journalPayload
	if !bindJSON(c, &payload) {
		return
	}

	entry, err := a.journal.Update(principal(c).ID, id, payload.toInput())
	if err != nil {
		a.handleJournalError(c, err, "update journal entry")
		return
	}

	metrics.RecordMutation("journal", "update")
	respondData(c, http.StatusOK, "Journal entry updated successfully!", journalToPayload(*entry))
}

// DeleteJournalEntry 删除日志
func (a *API) DeleteJournalEntry(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := a.journal.Delete(principal(c).ID, id); err != nil {
		a.handleJournalError(c, err, "delete journal entry")
		return
	}

	metrics.RecordMutation("journal", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Journal entry deleted successfully!"})
}

// JournalStats 返回日志统计
func (a *API) JournalStats(c *gin.Context) {
	summary, err := a.stats.Journal(principal(c).ID)
	if err != nil {
		a.serverError(c, err, "journal stats")
		return
	}
	respondData(c, http.StatusOK, "", journalSummaryPayload(summary))
}

func (a *API) handleJournalError(c *gin.Context, err error, action string) {
	a.handleResourceError(c, err, service.ErrJournalEntryNotFound, journalNotFoundMessage, action)
}
