package meshlog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meshlog/core/internal/models"
	"github.com/meshlog/core/internal/pkg/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter() (*gin.Engine, map[models.Region]*fakeStore) {
	gin.SetMode(gin.TestMode)

	n := 0
	ids := idgen.Func(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	})

	fakes := map[models.Region]*fakeStore{}
	stores := map[models.Region]Store{}
	for _, region := range models.Regions() {
		fake := newFakeStore()
		fakes[region] = fake
		stores[region] = fake
	}

	handler := NewHandler(stores, Config{}, ids, zap.NewNop())
	for _, svc := range handler.services {
		svc.now = func() time.Time { return testNow }
	}

	r := gin.New()
	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)
	return r, fakes
}

func doRequest(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerLogRequest(t *testing.T) {
	r, fakes := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/v1/logs",
		`{"region":"europe","method":"GET","url":"/graphql","query":"query A","headers":{"user-agent":"ua-test"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success       bool          `json:"success"`
		LogID         string        `json:"logId"`
		Region        models.Region `json:"region"`
		StatsForToday IndexSummary  `json:"statsForToday"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "id-001", body.LogID)
	assert.Equal(t, models.RegionEurope, body.Region)
	assert.Equal(t, IndexSummary{Date: testDay, TotalCount: 1, TotalLogIDs: 1}, body.StatsForToday)

	// The record landed in the europe partition only.
	_, found, _ := fakes[models.RegionEurope].Get(nil, recordKey("id-001"))
	assert.True(t, found)
	_, found, _ = fakes[models.RegionAmericas].Get(nil, recordKey("id-001"))
	assert.False(t, found)
}

func TestHandlerLogEmptyBodyUsesDefaults(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/v1/logs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool          `json:"success"`
		Region  models.Region `json:"region"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, models.DefaultRegion, body.Region)
}

func TestHandlerLogMalformedBody(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/v1/logs", `{"region":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)
}

func TestHandlerRecentLogs(t *testing.T) {
	r, _ := newTestRouter()

	for _, q := range []string{"A", "A", "B"} {
		w := doRequest(r, http.MethodPost, "/api/v1/logs",
			fmt.Sprintf(`{"region":"asia-pacific","query":%q}`, q))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(r, http.MethodGet, "/api/v1/logs?region=asia-pacific&limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success        bool               `json:"success"`
		Logs           []models.LogRecord `json:"logs"`
		Statistics     models.Statistics  `json:"statistics"`
		RequestedLimit int                `json:"requestedLimit"`
		TotalAvailable int                `json:"totalAvailable"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 10, body.RequestedLimit)
	assert.Equal(t, 3, body.TotalAvailable)
	require.Len(t, body.Logs, 3)
	assert.Equal(t, []models.QueryCount{
		{Query: "A", Count: 2},
		{Query: "B", Count: 1},
	}, body.Statistics.TopQueries)
}

func TestHandlerRecentDefaultsLimit(t *testing.T) {
	r, _ := newTestRouter()

	for _, target := range []string{
		"/api/v1/logs",
		"/api/v1/logs?limit=abc",
	} {
		w := doRequest(r, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			RequestedLimit int `json:"requestedLimit"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, DefaultLimit, body.RequestedLimit)
	}
}

func TestHandlerRecentRejectsBadDay(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodGet, "/api/v1/logs?day=30-08-2026", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerUnknownRegionFallsBack(t *testing.T) {
	r, _ := newTestRouter()

	w := doRequest(r, http.MethodPost, "/api/v1/logs", `{"region":"mars"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Region models.Region `json:"region"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.DefaultRegion, body.Region)
}
