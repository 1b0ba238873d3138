package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	alertdomain "github.com/claytondb/salestaxjar-sub000/internal/alert/domain"
	"github.com/claytondb/salestaxjar-sub000/internal/config"
	thresholddomain "github.com/claytondb/salestaxjar-sub000/internal/threshold/domain"
	thresholdservice "github.com/claytondb/salestaxjar-sub000/internal/threshold/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	calls   int
	userID  snowflake.ID
	states  []string
	created []alertdomain.Alert
	err     error
}

func (f *fakeOrchestrator) ProcessBatch(ctx context.Context, userID snowflake.ID, stateCodes []string) ([]alertdomain.Alert, error) {
	f.calls++
	f.userID = userID
	f.states = stateCodes
	return f.created, f.err
}

func (f *fakeOrchestrator) SweepUser(ctx context.Context, userID snowflake.ID) ([]alertdomain.Alert, error) {
	return nil, nil
}

type fakeAlertService struct {
	listResp alertdomain.ListResponse
	listErr  error
	marked   alertdomain.MarkReadRequest
}

func (f *fakeAlertService) ListAlerts(ctx context.Context, req alertdomain.ListRequest) (alertdomain.ListResponse, error) {
	if f.listErr != nil {
		return alertdomain.ListResponse{}, f.listErr
	}
	return f.listResp, nil
}

func (f *fakeAlertService) MarkRead(ctx context.Context, req alertdomain.MarkReadRequest) (int64, error) {
	f.marked = req
	return int64(len(req.AlertIDs)), nil
}

func setupTestServer(t *testing.T, orch *fakeOrchestrator, alerts *fakeAlertService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	threshold := int64(10_000_000)
	registry := thresholdservice.NewFixtureRegistry(thresholddomain.Rule{
		StateCode:           "WA",
		StateName:           "Washington",
		HasSalesTax:         true,
		SalesThresholdCents: &threshold,
		Period:              thresholddomain.PeriodCalendarYear,
		Combinator:          thresholddomain.CombinatorOr,
	})

	NewServer(ServerParams{
		Gin:          r,
		Cfg:          config.Config{},
		Orchestrator: orch,
		AlertSvc:     alerts,
		Thresholds:   registry,
	})
	return r
}

func TestImportCompletedRunsPipeline(t *testing.T) {
	orch := &fakeOrchestrator{created: []alertdomain.Alert{{StateCode: "WA", Level: alertdomain.LevelWarning}}}
	r := setupTestServer(t, orch, &fakeAlertService{})

	body := []byte(`{"user_id":"12345","state_codes":["WA","OR"]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/imports/completed", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, orch.calls)
	assert.Equal(t, snowflake.ID(12345), orch.userID)
	assert.Equal(t, []string{"WA", "OR"}, orch.states)

	var resp struct {
		Data struct {
			NewAlerts []alertdomain.Alert `json:"new_alerts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.NewAlerts, 1)
	assert.Equal(t, "WA", resp.Data.NewAlerts[0].StateCode)
}

func TestImportCompletedValidation(t *testing.T) {
	orch := &fakeOrchestrator{}
	r := setupTestServer(t, orch, &fakeAlertService{})

	cases := []string{
		`{"user_id":"","state_codes":["WA"]}`,
		`{"user_id":"abc","state_codes":["WA"]}`,
		`{"user_id":"12345","state_codes":[]}`,
		`not json`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/imports/completed", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, orch.calls)
}

func TestListAlertsRoute(t *testing.T) {
	alerts := &fakeAlertService{
		listResp: alertdomain.ListResponse{
			Alerts:      []alertdomain.Alert{{StateCode: "WA", Level: alertdomain.LevelExceeded}},
			UnreadCount: 1,
		},
	}
	r := setupTestServer(t, &fakeOrchestrator{}, alerts)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/12345/alerts?unread_only=true&limit=10", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data alertdomain.ListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Data.UnreadCount)
	require.Len(t, resp.Data.Alerts, 1)
}

func TestListAlertsInvalidLimit(t *testing.T) {
	alerts := &fakeAlertService{listErr: alertdomain.ErrInvalidLimit}
	r := setupTestServer(t, &fakeOrchestrator{}, alerts)

	req := httptest.NewRequest(http.MethodGet, "/v1/users/12345/alerts?limit=9999", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAlertsReadRoute(t *testing.T) {
	alerts := &fakeAlertService{}
	r := setupTestServer(t, &fakeOrchestrator{}, alerts)

	body := []byte(`{"alert_ids":["777","778"]}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/users/12345/alerts/read", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, snowflake.ID(12345), alerts.marked.UserID)
	assert.Equal(t, []snowflake.ID{777, 778}, alerts.marked.AlertIDs)
}

func TestThresholdRoutes(t *testing.T) {
	r := setupTestServer(t, &fakeOrchestrator{}, &fakeAlertService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/thresholds", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	for code, want := range map[string]int{
		"WA": http.StatusOK,
		"wa": http.StatusOK,
		"ZZ": http.StatusNotFound,
	} {
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/thresholds/%s", code), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, code)
	}
}
