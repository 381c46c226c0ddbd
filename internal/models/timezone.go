package models

import (
	"time"

	"github.com/google/uuid"
)

// TimezoneInfo describes one selectable timezone as shown in the admin
// timezone picker. CurrentTime and UTCOffset are computed for the instant the
// catalog was queried; IsDST tells whether daylight saving is in effect at
// that instant.
type TimezoneInfo struct {
	Timezone    string `json:"timezone" example:"America/Denver"`
	DisplayName string `json:"display_name" example:"Mountain Time (MT)"`
	CurrentTime string `json:"current_time" example:"2025-08-20T17:35:00.000Z"`
	UTCOffset   string `json:"utc_offset" example:"-06:00"`
	IsDST       bool   `json:"is_dst"`
}

// TimezoneListResponse is the payload of the timezone catalog endpoint.
type TimezoneListResponse struct {
	Timezones       []TimezoneInfo `json:"timezones"`
	DefaultTimezone string         `json:"default_timezone" example:"UTC"`
}

// TimezonePreference is a per-admin timezone choice. When AutoDetect is true
// the client resolves the zone itself and Timezone records the last detected
// value.
type TimezonePreference struct {
	UserID     uuid.UUID `json:"-" db:"user_id"`
	Timezone   string    `json:"timezone" db:"timezone"`
	AutoDetect bool      `json:"timezone_auto_detect" db:"auto_detect"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// SetTimezonePreferenceRequest updates an admin's timezone preference.
type SetTimezonePreferenceRequest struct {
	Timezone   string `json:"timezone" binding:"required,timezone"`
	AutoDetect bool   `json:"timezone_auto_detect"`
}

// TimezonePreferenceResponse reports the stored preference plus whether the
// write reached the primary store. Synced false means the value is held in
// the local fallback tier only and will not follow the admin across devices.
type TimezonePreferenceResponse struct {
	Timezone   string `json:"timezone"`
	AutoDetect bool   `json:"timezone_auto_detect"`
	Synced     bool   `json:"synced"`
}
