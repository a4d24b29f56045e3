package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/JoshuaPothen/SleepTrackerV2/internal"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/api"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/auth"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/publish"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/sleep"
	"github.com/JoshuaPothen/SleepTrackerV2/internal/storage"
)

const testAPIKey = "test-device-key"

type testApp struct {
	logger internal.Logger
	repo   storage.ReadingRepository
	pub    publish.Publisher
}

func (a *testApp) Logger() internal.Logger                { return a.logger }
func (a *testApp) ReadingRepo() storage.ReadingRepository { return a.repo }
func (a *testApp) Publisher() publish.Publisher           { return a.pub }
func (a *testApp) Thresholds() sleep.Thresholds           { return sleep.DefaultThresholds() }

func setupRouter(t *testing.T, rateLimitMax int) (*gin.Engine, *testApp) {
	gin.SetMode(gin.TestMode)

	logger := internal.NewTestLogger()
	repo, err := storage.NewFileRepository(t.TempDir()+"/readings.json", logger)
	assert.NoError(t, err)

	app := &testApp{logger: logger, repo: repo, pub: publish.NoopPublisher{}}
	provider := auth.NewStaticKeyProvider(testAPIKey, logger)

	r := gin.New()
	r.Use(api.RequestIDMiddleware())
	r.GET("/healthz", api.Healthz())
	r.POST("/api/ingest",
		api.RateLimitMiddleware(time.Minute, rateLimitMax),
		auth.APIKeyMiddleware(provider),
		api.PostIngest(app),
	)
	r.GET("/api/readings", api.GetReadings(app))
	r.GET("/api/summary", api.GetSummary(app))
	r.GET("/api/overnight", api.GetOvernight(app))
	return r, app
}

func doIngest(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/ingest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestIngestRequiresAPIKey(t *testing.T) {
	r, app := setupRouter(t, 100)

	w := doIngest(r, "", `{"presence":true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doIngest(r, "wrong-key", `{"presence":true}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Nothing was stored by the rejected calls.
	stored, err := app.repo.RecentReadings(context.Background(), nil, 10)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIngestHappyPathReturnsStage(t *testing.T) {
	r, app := setupRouter(t, 100)

	w := doIngest(r, testAPIKey, `{"breathing_rate":13,"heart_rate":58,"presence":true,"movement_state":0}`)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data, ok := body["data"].(map[string]any)
	if assert.True(t, ok) {
		assert.Equal(t, true, data["ok"])
		assert.Equal(t, "deep", data["sleep_stage"])
	}

	stored, err := app.repo.RecentReadings(context.Background(), nil, 10)
	assert.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestIngestValidation(t *testing.T) {
	r, app := setupRouter(t, 100)

	w := doIngest(r, testAPIKey, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doIngest(r, testAPIKey, `{"breathing_rate":41}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	if errObj, ok := body["error"].(map[string]any); assert.True(t, ok) {
		assert.Contains(t, errObj["message"], "BreathingRate")
	}

	w = doIngest(r, testAPIKey, `{"heart_rate":250}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Rejected payloads leave no rows behind.
	stored, err := app.repo.RecentReadings(context.Background(), nil, 10)
	assert.NoError(t, err)
	assert.Empty(t, stored)
}

func TestIngestRateLimit(t *testing.T) {
	r, _ := setupRouter(t, 3)

	for i := 0; i < 3; i++ {
		w := doIngest(r, testAPIKey, `{"presence":true}`)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := doIngest(r, testAPIKey, `{"presence":true}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestGetReadingsAscendingWithLimit(t *testing.T) {
	r, _ := setupRouter(t, 100)

	for _, payload := range []string{
		`{"breathing_rate":12,"heart_rate":60,"presence":true}`,
		`{"breathing_rate":20,"heart_rate":80,"presence":true}`,
		`{"presence":false}`,
	} {
		w := doIngest(r, testAPIKey, payload)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	getReq, _ := http.NewRequest("GET", "/api/readings?limit=2", nil)
	r.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	readings, ok := data["readings"].([]any)
	if assert.True(t, ok) && assert.Len(t, readings, 2) {
		first := readings[0].(map[string]any)
		second := readings[1].(map[string]any)
		// Ascending time order for charting.
		assert.LessOrEqual(t, first["recorded_at"].(string), second["recorded_at"].(string))
		// The two newest survive the limit: light then awake.
		assert.Equal(t, "light", first["sleep_stage"])
		assert.Equal(t, "awake", second["sleep_stage"])
	}
}

func TestGetReadingsRejectsBadSince(t *testing.T) {
	r, _ := setupRouter(t, 100)

	w := httptest.NewRecorder()
	getReq, _ := http.NewRequest("GET", "/api/readings?since=yesterday", nil)
	r.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSummary(t *testing.T) {
	r, _ := setupRouter(t, 100)

	for _, payload := range []string{
		`{"breathing_rate":12,"heart_rate":60,"presence":true}`,
		`{"presence":false}`,
	} {
		w := doIngest(r, testAPIKey, payload)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	getReq, _ := http.NewRequest("GET", "/api/summary?days=90", nil)
	r.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(30), meta["days"]) // capped

	data := body["data"].(map[string]any)
	summary, ok := data["summary"].([]any)
	if assert.True(t, ok) && assert.Len(t, summary, 1) {
		day := summary[0].(map[string]any)
		assert.Equal(t, float64(2), day["reading_count"])
		counts := day["stage_counts"].(map[string]any)
		assert.Equal(t, float64(1), counts["deep"])
		assert.Equal(t, float64(1), counts["awake"])
	}
}

func TestGetOvernightEmpty(t *testing.T) {
	r, _ := setupRouter(t, 100)

	w := httptest.NewRecorder()
	getReq, _ := http.NewRequest("GET", "/api/overnight", nil)
	r.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	assert.Nil(t, data["quality_score"])
	assert.Equal(t, float64(0), data["reading_count"])
}

func TestHealthz(t *testing.T) {
	r, _ := setupRouter(t, 100)

	w := httptest.NewRecorder()
	getReq, _ := http.NewRequest("GET", "/healthz", nil)
	r.ServeHTTP(w, getReq)
	assert.Equal(t, http.StatusOK, w.Code)
}
