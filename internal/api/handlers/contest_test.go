package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"contestlet/internal/api/handlers"
	"contestlet/internal/models"
	"contestlet/internal/testutil"
	"contestlet/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Initialize()
}

func validOfficialRules() map[string]interface{} {
	return map[string]interface{}{
		"eligibility_text": "Open to legal residents of the United States, 18 or older.",
		"sponsor_name":     "Acme Corp",
		"start_date":       "2025-08-01T00:00:00",
		"end_date":         "2025-09-01T00:00:00",
		"prize_value_usd":  500.0,
	}
}

func validCreateContestBody() map[string]interface{} {
	return map[string]interface{}{
		"name":           "Summer Giveaway",
		"start_time":     "2025-08-20T17:35:00",
		"end_time":       "2025-08-31T23:59:00",
		"active":         true,
		"official_rules": validOfficialRules(),
	}
}

func newContestRouter(repo *testutil.FakeContestRepo) *gin.Engine {
	handler := handlers.NewContestHandler(repo)
	router := gin.New()
	router.GET("/contests", handler.ListContests)
	router.GET("/contests/:id", handler.GetContest)
	router.POST("/admin/contests", handler.CreateContest)
	router.PUT("/admin/contests/:id", handler.UpdateContest)
	router.DELETE("/admin/contests/:id", handler.DeleteContest)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewBuffer(b)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestContestHandler_CreateContest(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	w := doJSON(router, "POST", "/admin/contests", validCreateContestBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp models.ContestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Summer Giveaway", resp.Name)
	// Times without a zone designator are treated as UTC and echoed back
	// with an explicit Z suffix.
	assert.Equal(t, "2025-08-20T17:35:00.000Z", resp.StartTime)
	assert.Equal(t, "2025-08-31T23:59:00.000Z", resp.EndTime)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestContestHandler_CreateContestMissingOfficialRules(t *testing.T) {
	router := newContestRouter(testutil.NewFakeContestRepo())

	body := validCreateContestBody()
	delete(body, "official_rules")
	w := doJSON(router, "POST", "/admin/contests", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContestHandler_CreateContestIncompleteOfficialRules(t *testing.T) {
	router := newContestRouter(testutil.NewFakeContestRepo())

	for _, field := range []string{"eligibility_text", "sponsor_name", "start_date", "end_date", "prize_value_usd"} {
		body := validCreateContestBody()
		rules := validOfficialRules()
		delete(rules, field)
		body["official_rules"] = rules

		w := doJSON(router, "POST", "/admin/contests", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "missing %s should be rejected", field)
	}
}

func TestContestHandler_CreateContestInvalidTimes(t *testing.T) {
	router := newContestRouter(testutil.NewFakeContestRepo())

	body := validCreateContestBody()
	body["start_time"] = "not-a-time"
	w := doJSON(router, "POST", "/admin/contests", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = validCreateContestBody()
	body["start_time"] = "2025-09-30T00:00:00"
	w = doJSON(router, "POST", "/admin/contests", body)
	assert.Equal(t, http.StatusBadRequest, w.Code, "end before start should be rejected")
}

func TestContestHandler_GetContestStatus(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	now := time.Now().UTC()
	contest := &models.Contest{
		Name:      "Running Giveaway",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), contest))

	w := doJSON(router, "GET", "/contests/"+contest.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ContestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusActive, resp.Status)
}

func TestContestHandler_GetContestNotFound(t *testing.T) {
	router := newContestRouter(testutil.NewFakeContestRepo())

	w := doJSON(router, "GET", "/contests/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(router, "GET", "/contests/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContestHandler_ListContests(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	now := time.Now().UTC()
	active := &models.Contest{Name: "Open", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), Active: true}
	inactive := &models.Contest{Name: "Draft", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Active: false}
	require.NoError(t, repo.Create(context.Background(), active))
	require.NoError(t, repo.Create(context.Background(), inactive))

	w := doJSON(router, "GET", "/contests?active=true", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []models.ContestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Open", resp[0].Name)
}

func TestContestHandler_UpdateContest(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	now := time.Now().UTC()
	contest := &models.Contest{
		Name:      "Summer Giveaway",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), contest))

	w := doJSON(router, "PUT", "/admin/contests/"+contest.ID.String(), map[string]interface{}{
		"name":     "Autumn Giveaway",
		"end_time": "2026-01-01T00:00:00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ContestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Autumn Giveaway", resp.Name)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", resp.EndTime)
}

func TestContestHandler_UpdateContestFrozenAfterWinner(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	now := time.Now().UTC()
	contest := &models.Contest{
		Name:      "Decided Giveaway",
		StartTime: now.Add(-48 * time.Hour),
		EndTime:   now.Add(-time.Hour),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), contest))
	require.NoError(t, repo.SetWinner(context.Background(), contest.ID, uuid.New(), now))

	w := doJSON(router, "PUT", "/admin/contests/"+contest.ID.String(), map[string]interface{}{
		"name": "Renamed",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContestHandler_DeleteContest(t *testing.T) {
	repo := testutil.NewFakeContestRepo()
	router := newContestRouter(repo)

	now := time.Now().UTC()
	contest := &models.Contest{Name: "Doomed", StartTime: now, EndTime: now.Add(time.Hour), Active: false}
	require.NoError(t, repo.Create(context.Background(), contest))

	w := doJSON(router, "DELETE", "/admin/contests/"+contest.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, "DELETE", "/admin/contests/"+contest.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
