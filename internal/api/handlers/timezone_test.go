package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"
	"contestlet/internal/api/handlers"
	"contestlet/internal/models"
	"contestlet/internal/timezone"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingPrefRepo fails every call, forcing the preference store onto its
// snapshot tier.
type failingPrefRepo struct{}

func (failingPrefRepo) DB() *sql.DB { return nil }

func (failingPrefRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (failingPrefRepo) Get(context.Context, uuid.UUID) (*models.TimezonePreference, error) {
	return nil, errDatabaseDown
}

func (failingPrefRepo) Upsert(context.Context, *models.TimezonePreference) error {
	return errDatabaseDown
}

var errDatabaseDown = errors.New("database unavailable")

func newTimezoneRouter(t *testing.T, user *models.User) *gin.Engine {
	t.Helper()
	catalog := timezone.NewCatalog("UTC", time.Minute)
	prefs := timezone.NewPreferenceStore(failingPrefRepo{}, catalog, filepath.Join(t.TempDir(), "prefs.json"))
	handler := handlers.NewTimezoneHandler(catalog, prefs)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
	})
	router.GET("/admin/profile/timezones", handler.ListTimezones)
	router.GET("/admin/profile/timezone", handler.GetTimezonePreference)
	router.POST("/admin/profile/timezone", handler.SetTimezonePreference)
	return router
}

func TestTimezoneHandler_ListTimezones(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	router := newTimezoneRouter(t, user)

	w := doJSON(router, "GET", "/admin/profile/timezones", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TimezoneListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UTC", resp.DefaultTimezone)
	assert.NotEmpty(t, resp.Timezones)

	var found bool
	for _, tz := range resp.Timezones {
		if tz.Timezone == "America/Denver" {
			found = true
		}
	}
	assert.True(t, found, "catalog should include America/Denver")
}

func TestTimezoneHandler_GetPreferenceUnset(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	router := newTimezoneRouter(t, user)

	w := doJSON(router, "GET", "/admin/profile/timezone", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimezoneHandler_SetAndGetPreference(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	router := newTimezoneRouter(t, user)

	w := doJSON(router, "POST", "/admin/profile/timezone", map[string]interface{}{
		"timezone":             "America/Denver",
		"timezone_auto_detect": false,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.TimezonePreferenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "America/Denver", resp.Timezone)
	// The primary store rejected the write, so the preference lives in the
	// snapshot tier only.
	assert.False(t, resp.Synced)

	w = doJSON(router, "GET", "/admin/profile/timezone", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "America/Denver", resp.Timezone)
	// The read came off the snapshot tier, so it must not claim the
	// database answered.
	assert.False(t, resp.Synced)
}

func TestTimezoneHandler_SetPreferenceInvalidZone(t *testing.T) {
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}
	router := newTimezoneRouter(t, user)

	w := doJSON(router, "POST", "/admin/profile/timezone", map[string]interface{}{
		"timezone": "Mars/Olympus_Mons",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
