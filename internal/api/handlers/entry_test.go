package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"
	"contestlet/internal/api/handlers"
	"contestlet/internal/models"
	"contestlet/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntryRouter(contestRepo *testutil.FakeContestRepo, entryRepo *testutil.FakeEntryRepo, user *models.User) *gin.Engine {
	handler := handlers.NewEntryHandler(contestRepo, entryRepo)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
	})
	router.POST("/contests/:id/enter", handler.EnterContest)
	router.GET("/admin/contests/:id/entries", handler.ListEntries)
	return router
}

func activeContest(t *testing.T, repo *testutil.FakeContestRepo) *models.Contest {
	t.Helper()
	now := time.Now().UTC()
	contest := &models.Contest{
		Name:      "Summer Giveaway",
		StartTime: now.Add(-time.Hour),
		EndTime:   now.Add(time.Hour),
		Active:    true,
	}
	require.NoError(t, repo.Create(context.Background(), contest))
	return contest
}

func TestEntryHandler_EnterContest(t *testing.T) {
	contestRepo := testutil.NewFakeContestRepo()
	entryRepo := testutil.NewFakeEntryRepo()
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(contestRepo, entryRepo, user)

	contest := activeContest(t, contestRepo)

	w := doJSON(router, "POST", "/contests/"+contest.ID.String()+"/enter", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var entry models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	assert.Equal(t, contest.ID, entry.ContestID)
	assert.Equal(t, user.ID, entry.UserID)
}

func TestEntryHandler_EnterContestTwice(t *testing.T) {
	contestRepo := testutil.NewFakeContestRepo()
	entryRepo := testutil.NewFakeEntryRepo()
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(contestRepo, entryRepo, user)

	contest := activeContest(t, contestRepo)

	w := doJSON(router, "POST", "/contests/"+contest.ID.String()+"/enter", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, "POST", "/contests/"+contest.ID.String()+"/enter", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEntryHandler_EnterContestOutsideWindow(t *testing.T) {
	contestRepo := testutil.NewFakeContestRepo()
	entryRepo := testutil.NewFakeEntryRepo()
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(contestRepo, entryRepo, user)

	now := time.Now().UTC()

	scheduled := &models.Contest{Name: "Future", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), Active: true}
	require.NoError(t, contestRepo.Create(context.Background(), scheduled))
	w := doJSON(router, "POST", "/contests/"+scheduled.ID.String()+"/enter", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	ended := &models.Contest{Name: "Past", StartTime: now.Add(-2 * time.Hour), EndTime: now.Add(-time.Hour), Active: true}
	require.NoError(t, contestRepo.Create(context.Background(), ended))
	w = doJSON(router, "POST", "/contests/"+ended.ID.String()+"/enter", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEntryHandler_EnterInactiveContest(t *testing.T) {
	contestRepo := testutil.NewFakeContestRepo()
	entryRepo := testutil.NewFakeEntryRepo()
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(contestRepo, entryRepo, user)

	now := time.Now().UTC()
	draft := &models.Contest{Name: "Draft", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour), Active: false}
	require.NoError(t, contestRepo.Create(context.Background(), draft))

	w := doJSON(router, "POST", "/contests/"+draft.ID.String()+"/enter", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEntryHandler_EnterContestNotFound(t *testing.T) {
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(testutil.NewFakeContestRepo(), testutil.NewFakeEntryRepo(), user)

	w := doJSON(router, "POST", "/contests/"+uuid.NewString()+"/enter", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEntryHandler_ListEntries(t *testing.T) {
	contestRepo := testutil.NewFakeContestRepo()
	entryRepo := testutil.NewFakeEntryRepo()
	user := &models.User{ID: uuid.New(), Phone: "+15551234567", Role: models.RoleUser}
	router := newEntryRouter(contestRepo, entryRepo, user)

	contest := activeContest(t, contestRepo)
	entryRepo.SetPhone(user.ID, user.Phone)
	require.NoError(t, entryRepo.Create(context.Background(), &models.Entry{ContestID: contest.ID, UserID: user.ID}))

	w := doJSON(router, "GET", "/admin/contests/"+contest.ID.String()+"/entries", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "+15551234567", entries[0].Phone)
}
