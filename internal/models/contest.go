package models

import (
	"time"

	"github.com/google/uuid"
)

// ContestStatus is the derived lifecycle phase of a contest. It is never
// stored; it is recomputed from the contest's time fields whenever needed so
// a stale value can't survive a time boundary.
type ContestStatus string

const (
	// StatusScheduled means the contest has not started yet.
	StatusScheduled ContestStatus = "scheduled"
	// StatusActive means the contest is accepting entries.
	StatusActive ContestStatus = "active"
	// StatusEnded means the entry window closed but no winner is selected.
	StatusEnded ContestStatus = "ended"
	// StatusComplete means a winner has been selected.
	StatusComplete ContestStatus = "complete"
)

// ContestStatusAt maps a contest's time fields and the given instant to a
// lifecycle status. Winner selection takes precedence over the clock: a
// contest with a winner is complete even if now falls before its start. The
// end boundary is inclusive, so a contest is still active at exactly end.
func ContestStatusAt(start, end time.Time, winnerSelectedAt *time.Time, now time.Time) ContestStatus {
	switch {
	case winnerSelectedAt != nil:
		return StatusComplete
	case now.After(end):
		return StatusEnded
	case now.Before(start):
		return StatusScheduled
	default:
		return StatusActive
	}
}

// Contest represents a sweepstakes contest. StartTime and EndTime are UTC
// instants; inbound wire values may lack a zone designator and are normalized
// by the handlers before they reach this struct.
type Contest struct {
	ID               uuid.UUID      `json:"id" db:"id"`
	Name             string         `json:"name" db:"name"`
	Description      *string        `json:"description,omitempty" db:"description"`
	Location         *string        `json:"location,omitempty" db:"location"`
	Latitude         *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64       `json:"longitude,omitempty" db:"longitude"`
	StartTime        time.Time      `json:"start_time" db:"start_time"`
	EndTime          time.Time      `json:"end_time" db:"end_time"`
	PrizeDescription *string        `json:"prize_description,omitempty" db:"prize_description"`
	Active           bool           `json:"active" db:"active"`
	WinnerEntryID    *uuid.UUID     `json:"winner_entry_id,omitempty" db:"winner_entry_id"`
	WinnerSelectedAt *time.Time     `json:"winner_selected_at,omitempty" db:"winner_selected_at"`
	OfficialRules    *OfficialRules `json:"official_rules,omitempty"`
	EntryCount       int            `json:"entry_count" db:"entry_count"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// StatusAt returns the contest's lifecycle status at the given instant.
func (c *Contest) StatusAt(now time.Time) ContestStatus {
	return ContestStatusAt(c.StartTime, c.EndTime, c.WinnerSelectedAt, now)
}

// OfficialRules holds the sweepstakes compliance block attached to a contest.
type OfficialRules struct {
	ID              uuid.UUID `json:"id" db:"id"`
	ContestID       uuid.UUID `json:"contest_id" db:"contest_id"`
	EligibilityText string    `json:"eligibility_text" db:"eligibility_text"`
	SponsorName     string    `json:"sponsor_name" db:"sponsor_name"`
	StartDate       time.Time `json:"start_date" db:"start_date"`
	EndDate         time.Time `json:"end_date" db:"end_date"`
	PrizeValueUSD   float64   `json:"prize_value_usd" db:"prize_value_usd"`
	TermsURL        *string   `json:"terms_url,omitempty" db:"terms_url"`
}

// OfficialRulesRequest is the compliance block as submitted by an admin. All
// fields except terms_url are required for a contest to be publishable.
type OfficialRulesRequest struct {
	EligibilityText string  `json:"eligibility_text" binding:"required,nospaces"`
	SponsorName     string  `json:"sponsor_name" binding:"required,nospaces"`
	StartDate       string  `json:"start_date" binding:"required"`
	EndDate         string  `json:"end_date" binding:"required"`
	PrizeValueUSD   float64 `json:"prize_value_usd" binding:"required,gt=0"`
	TermsURL        *string `json:"terms_url,omitempty" binding:"omitempty,url"`
}

// CreateContestRequest carries datetime fields as strings because the wire
// format may omit the UTC zone designator; handlers parse them through the
// normalizing parser.
type CreateContestRequest struct {
	Name             string                `json:"name" binding:"required,nospaces,max=200"`
	Description      *string               `json:"description,omitempty"`
	Location         *string               `json:"location,omitempty"`
	Latitude         *float64              `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude        *float64              `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	StartTime        string                `json:"start_time" binding:"required"`
	EndTime          string                `json:"end_time" binding:"required"`
	PrizeDescription *string               `json:"prize_description,omitempty"`
	Active           bool                  `json:"active"`
	OfficialRules    *OfficialRulesRequest `json:"official_rules" binding:"required"`
}

// UpdateContestRequest is a partial update; nil fields are left unchanged.
type UpdateContestRequest struct {
	Name             *string               `json:"name,omitempty" binding:"omitempty,nospaces,max=200"`
	Description      *string               `json:"description,omitempty"`
	Location         *string               `json:"location,omitempty"`
	Latitude         *float64              `json:"latitude,omitempty" binding:"omitempty,gte=-90,lte=90"`
	Longitude        *float64              `json:"longitude,omitempty" binding:"omitempty,gte=-180,lte=180"`
	StartTime        *string               `json:"start_time,omitempty"`
	EndTime          *string               `json:"end_time,omitempty"`
	PrizeDescription *string               `json:"prize_description,omitempty"`
	Active           *bool                 `json:"active,omitempty"`
	OfficialRules    *OfficialRulesRequest `json:"official_rules,omitempty"`
}

// ContestResponse is the outbound shape of a contest. Datetime fields are
// strings with an explicit Z suffix regardless of how they were stored.
type ContestResponse struct {
	ID               uuid.UUID      `json:"id"`
	Name             string         `json:"name"`
	Description      *string        `json:"description,omitempty"`
	Location         *string        `json:"location,omitempty"`
	Latitude         *float64       `json:"latitude,omitempty"`
	Longitude        *float64       `json:"longitude,omitempty"`
	StartTime        string         `json:"start_time"`
	EndTime          string         `json:"end_time"`
	PrizeDescription *string        `json:"prize_description,omitempty"`
	Active           bool           `json:"active"`
	Status           ContestStatus  `json:"status"`
	WinnerEntryID    *uuid.UUID     `json:"winner_entry_id,omitempty"`
	WinnerSelectedAt *string        `json:"winner_selected_at,omitempty"`
	OfficialRules    *OfficialRules `json:"official_rules,omitempty"`
	EntryCount       int            `json:"entry_count"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}
