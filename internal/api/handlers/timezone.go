package handlers

import (
	"errors"
	"net/http"
	"time"
	"contestlet/internal/auth"
	"contestlet/internal/models"
	"contestlet/internal/repository"
	"contestlet/internal/timezone"

	"github.com/gin-gonic/gin"
)

// TimezoneHandler handles the timezone catalog and per-admin preferences
type TimezoneHandler struct {
	catalog *timezone.Catalog
	prefs   *timezone.PreferenceStore
}

// NewTimezoneHandler creates a new TimezoneHandler
func NewTimezoneHandler(catalog *timezone.Catalog, prefs *timezone.PreferenceStore) *TimezoneHandler {
	return &TimezoneHandler{
		catalog: catalog,
		prefs:   prefs,
	}
}

// ListTimezones godoc
// @Summary List selectable timezones
// @Description Returns the timezone catalog with current time and UTC offset per zone
// @Tags timezones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TimezoneListResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /admin/profile/timezones [get]
func (h *TimezoneHandler) ListTimezones(c *gin.Context) {
	c.JSON(http.StatusOK, models.TimezoneListResponse{
		Timezones:       h.catalog.List(time.Now().UTC()),
		DefaultTimezone: h.catalog.DefaultZone(),
	})
}

// GetTimezonePreference godoc
// @Summary Get the admin's timezone preference
// @Description Returns the stored preference; 404 when none has been set. Synced false means the local fallback tier answered
// @Tags timezones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.TimezonePreferenceResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "No preference set"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/profile/timezone [get]
func (h *TimezoneHandler) GetTimezonePreference(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	pref, synced, err := h.prefs.Get(c.Request.Context(), user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "No timezone preference set"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch preference"})
		return
	}

	c.JSON(http.StatusOK, models.TimezonePreferenceResponse{
		Timezone:   pref.Timezone,
		AutoDetect: pref.AutoDetect,
		Synced:     synced,
	})
}

// SetTimezonePreference godoc
// @Summary Set the admin's timezone preference
// @Description Stores the preference; synced false in the response means only the local fallback tier accepted the write
// @Tags timezones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SetTimezonePreferenceRequest true "Preference"
// @Success 200 {object} models.TimezonePreferenceResponse
// @Failure 400 {object} models.ErrorResponse "Invalid timezone"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Router /admin/profile/timezone [post]
func (h *TimezoneHandler) SetTimezonePreference(c *gin.Context) {
	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req models.SetTimezonePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid timezone"})
		return
	}

	synced, err := h.prefs.Set(c.Request.Context(), user.ID, req.Timezone, req.AutoDetect)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid timezone"})
		return
	}

	c.JSON(http.StatusOK, models.TimezonePreferenceResponse{
		Timezone:   req.Timezone,
		AutoDetect: req.AutoDetect,
		Synced:     synced,
	})
}
