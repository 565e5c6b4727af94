package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/config"
	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/handler"
	"github.com/dailydev/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRouter(t *testing.T, cfg config.AppConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbCfg := db.Config()
	dbCfg.Logger = logger.Default.LogMode(logger.Silent)
	gdb, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), dbCfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	tokens, err := auth.NewTokenManager("router-test-secret", time.Hour)
	require.NoError(t, err)

	if cfg.RateLimitRequests == 0 {
		cfg.RateLimitRequests = 1000
	}
	if cfg.RateLimitWindow == 0 {
		cfg.RateLimitWindow = time.Minute
	}

	log := logging.Discard()
	api := handler.NewAPI(gdb, handler.Options{
		Tokens: tokens,
		Hasher: auth.NewBcryptHasher(bcrypt.MinCost),
		Logger: log,
	})
	return SetupRouter(api, cfg, log)
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var decoded map[string]any
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") && rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &decoded))
	}
	return rr, decoded
}

func registerUser(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	rr, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func dataOf(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "expected data object, got %v", body)
	return data
}

func idOf(t *testing.T, body map[string]any) string {
	t.Helper()
	return fmt.Sprintf("%.0f", dataOf(t, body)["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})

	rr, body := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Ada",
		"email":    "Ada@Example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")

	rr, body = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Ada Again",
		"email":    "ADA@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	errs := body["errors"].([]any)
	require.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].(map[string]any)["field"])

	rr, body = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong-pass1"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	wrongPassword := body["message"]

	rr, body = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret123"})
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, wrongPassword, body["message"])

	rr, body = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rr.Code)
	token := body["token"].(string)

	rr, body = doJSON(t, r, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	me := body["user"].(map[string]any)
	assert.Equal(t, "Ada", me["name"])
	assert.NotNil(t, me["lastLogin"])

	rr, _ = doJSON(t, r, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})

	for _, path := range []string{"/api/journal", "/api/tasks", "/api/courses", "/api/users/profile", "/api/auth/me"} {
		rr, body := doJSON(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
		assert.Equal(t, "Access denied. Please log in again.", body["message"], path)
	}

	rr, body := doJSON(t, r, http.MethodGet, "/api/journal", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Invalid token. Please log in again.", body["message"])
}

func TestJournalLifecycleAndOwnership(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})
	owner := registerUser(t, r, "owner@example.com")
	other := registerUser(t, r, "other@example.com")

	rr, body := doJSON(t, r, http.MethodPost, "/api/journal", owner, gin.H{
		"learned":    "Learned **goroutines**",
		"challenges": "Channel deadlocks",
		"timeSpent":  30,
		"mood":       "good",
		"tags":       []string{"go"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := idOf(t, body)

	_, body = doJSON(t, r, http.MethodPost, "/api/journal", owner, gin.H{
		"learned":    "Learned select",
		"challenges": "Timeouts",
		"timeSpent":  45,
	})
	require.NotNil(t, body["data"])

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal/"+id, owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, dataOf(t, body)["learnedHtml"], "<strong>goroutines</strong>")

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal", owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["data"], 2)
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 2, pagination["total"])

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Journal entry not found", body["message"])

	rr, _ = doJSON(t, r, http.MethodDelete, "/api/journal/"+id, other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal", other, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["data"], 0)

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal/stats/summary", owner, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := dataOf(t, body)
	assert.EqualValues(t, 2, stats["totalEntries"])
	assert.EqualValues(t, 75, stats["totalTimeMinutes"])
	assert.EqualValues(t, 1.3, stats["totalTimeHours"])

	rr, _ = doJSON(t, r, http.MethodDelete, "/api/journal/"+id, owner, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr, _ = doJSON(t, r, http.MethodGet, "/api/journal/"+id, owner, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestJournalValidationErrors(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})
	token := registerUser(t, r, "writer@example.com")

	rr, body := doJSON(t, r, http.MethodPost, "/api/journal", token, gin.H{"mood": "ecstatic"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Validation failed", body["message"])

	fields := map[string]bool{}
	for _, item := range body["errors"].([]any) {
		fields[item.(map[string]any)["field"].(string)] = true
	}
	for _, field := range []string{"learned", "challenges", "timeSpent", "mood"} {
		assert.True(t, fields[field], "missing error for %s", field)
	}

	rr, body = doJSON(t, r, http.MethodGet, "/api/journal/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "id", body["errors"].([]any)[0].(map[string]any)["field"])

	rr, _ = doJSON(t, r, http.MethodGet, "/api/journal?limit=500", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTaskToggleAndFilters(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})
	token := registerUser(t, r, "tasks@example.com")

	due := time.Now().Add(72 * time.Hour).UTC().Format("2006-01-02")
	rr, body := doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{
		"title":    "Write docs",
		"priority": "high",
		"category": "work",
		"dueDate":  due,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := idOf(t, body)
	assert.Equal(t, "todo", dataOf(t, body)["status"])
	assert.Equal(t, false, dataOf(t, body)["isOverdue"])

	doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "Read book", "category": "study"})

	rr, body = doJSON(t, r, http.MethodPatch, "/api/tasks/"+id+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "done", dataOf(t, body)["status"])
	assert.NotNil(t, dataOf(t, body)["completedAt"])

	rr, body = doJSON(t, r, http.MethodGet, "/api/tasks?status=done", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["data"], 1)

	rr, body = doJSON(t, r, http.MethodPatch, "/api/tasks/"+id+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "todo", dataOf(t, body)["status"])
	assert.Nil(t, dataOf(t, body)["completedAt"])

	rr, _ = doJSON(t, r, http.MethodGet, "/api/tasks?priority=critical", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = doJSON(t, r, http.MethodGet, "/api/tasks/stats/summary", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := dataOf(t, body)
	assert.EqualValues(t, 2, stats["totalTasks"])
	assert.EqualValues(t, 0, stats["completedTasks"])
	assert.EqualValues(t, 2, stats["pendingTasks"])
}

func TestCourseProgressDerivesStatus(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})
	token := registerUser(t, r, "courses@example.com")

	rr, body := doJSON(t, r, http.MethodPost, "/api/courses", token, gin.H{
		"name":     "Go in Action",
		"duration": 600,
		"type":     "programming",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	id := idOf(t, body)
	assert.Equal(t, "not-started", dataOf(t, body)["status"])

	rr, body = doJSON(t, r, http.MethodPatch, "/api/courses/"+id+"/progress", token, gin.H{"progress": 40})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "in-progress", dataOf(t, body)["status"])

	rr, body = doJSON(t, r, http.MethodPatch, "/api/courses/"+id+"/progress", token, gin.H{"progress": 100})
	require.Equal(t, http.StatusOK, rr.Code)
	course := dataOf(t, body)
	assert.Equal(t, "done", course["status"])
	assert.Equal(t, true, course["isCompleted"])
	assert.NotNil(t, course["endDate"])

	rr, _ = doJSON(t, r, http.MethodPatch, "/api/courses/"+id+"/progress", token, gin.H{"progress": 150})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr, body = doJSON(t, r, http.MethodPatch, "/api/courses/"+id+"/progress", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "progress", body["errors"].([]any)[0].(map[string]any)["field"])
}

func TestDeleteAccountRemovesOwnedRecords(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})
	token := registerUser(t, r, "leaving@example.com")

	doJSON(t, r, http.MethodPost, "/api/tasks", token, gin.H{"title": "Pack up"})

	rr, body := doJSON(t, r, http.MethodDelete, "/api/users/account", token, gin.H{"password": "wrong-pass1"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Incorrect password", body["message"])

	rr, _ = doJSON(t, r, http.MethodDelete, "/api/users/account", token, gin.H{"password": "secret123"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, _ = doJSON(t, r, http.MethodGet, "/api/tasks", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHealthIndexAndNotFound(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{})

	rr, body := doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", body["status"])
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr, body = doJSON(t, r, http.MethodGet, "/api", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, body, "user")

	token := registerUser(t, r, "index@example.com")
	_, body = doJSON(t, r, http.MethodGet, "/api", token, nil)
	assert.Contains(t, body, "user")

	rr, body = doJSON(t, r, http.MethodGet, "/api/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Route not found", body["message"])

	rr, _ = doJSON(t, r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimitRejectsBurst(t *testing.T) {
	r := setupTestRouter(t, config.AppConfig{RateLimitRequests: 2, RateLimitWindow: time.Hour})

	for i := 0; i < 2; i++ {
		rr, _ := doJSON(t, r, http.MethodGet, "/api", "", nil)
		require.Equal(t, http.StatusOK, rr.Code)
	}

	rr, body := doJSON(t, r, http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Too many requests from this IP, please try again later.", body["message"])

	// 健康检查不受限流影响
	rr, _ = doJSON(t, r, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStaticFallbackServesSPA(t *testing.T) {
	staticDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log(1)"), 0o644))

	r := setupTestRouter(t, config.AppConfig{StaticDir: staticDir})

	rr, _ := doJSON(t, r, http.MethodGet, "/app.js", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "console.log(1)", rr.Body.String())

	rr, _ = doJSON(t, r, http.MethodGet, "/dashboard/tasks", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<html>app</html>", rr.Body.String())

	rr, body := doJSON(t, r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Route not found", body["message"])
}
