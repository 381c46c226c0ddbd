package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"
	"contestlet/internal/timeconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContestHandler handles contest-related requests
type ContestHandler struct {
	repo repository.ContestRepository
}

// NewContestHandler creates a new ContestHandler
func NewContestHandler(repo repository.ContestRepository) *ContestHandler {
	return &ContestHandler{repo: repo}
}

// toContestResponse converts a contest to its outbound shape. All datetime
// fields are rendered with an explicit Z suffix and the lifecycle status is
// derived at the given instant.
func toContestResponse(c *models.Contest, now time.Time) models.ContestResponse {
	resp := models.ContestResponse{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		Location:         c.Location,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
		StartTime:        timeconv.UTCString(c.StartTime),
		EndTime:          timeconv.UTCString(c.EndTime),
		PrizeDescription: c.PrizeDescription,
		Active:           c.Active,
		Status:           c.StatusAt(now),
		WinnerEntryID:    c.WinnerEntryID,
		OfficialRules:    c.OfficialRules,
		EntryCount:       c.EntryCount,
		CreatedAt:        timeconv.UTCString(c.CreatedAt),
		UpdatedAt:        timeconv.UTCString(c.UpdatedAt),
	}
	if c.WinnerSelectedAt != nil {
		s := timeconv.UTCString(*c.WinnerSelectedAt)
		resp.WinnerSelectedAt = &s
	}
	return resp
}

// buildOfficialRules parses and validates a submitted compliance block.
func buildOfficialRules(req *models.OfficialRulesRequest) (*models.OfficialRules, error) {
	startDate, err := timeconv.ParseUTC(req.StartDate)
	if err != nil {
		return nil, errors.New("invalid official rules start_date")
	}
	endDate, err := timeconv.ParseUTC(req.EndDate)
	if err != nil {
		return nil, errors.New("invalid official rules end_date")
	}
	if !endDate.After(startDate) {
		return nil, errors.New("official rules end_date must be after start_date")
	}

	return &models.OfficialRules{
		EligibilityText: req.EligibilityText,
		SponsorName:     req.SponsorName,
		StartDate:       startDate,
		EndDate:         endDate,
		PrizeValueUSD:   req.PrizeValueUSD,
		TermsURL:        req.TermsURL,
	}, nil
}

// ListContests godoc
// @Summary List contests
// @Description Returns contests with derived lifecycle status
// @Tags contests
// @Accept json
// @Produce json
// @Param active query boolean false "Filter by the active flag"
// @Param search query string false "Search contests by name"
// @Param limit query integer false "Limit results"
// @Param offset query integer false "Offset results"
// @Success 200 {array} models.ContestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /contests [get]
func (h *ContestHandler) ListContests(c *gin.Context) {
	filter := repository.ContestFilter{}

	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid active flag"})
			return
		}
		filter.Active = &active
	}

	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid limit"})
			return
		}
		filter.Limit = &limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid offset"})
			return
		}
		filter.Offset = &offset
	}

	contests, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch contests"})
		return
	}

	now := time.Now().UTC()
	responses := make([]models.ContestResponse, 0, len(contests))
	for i := range contests {
		responses = append(responses, toContestResponse(&contests[i], now))
	}

	c.JSON(http.StatusOK, responses)
}

// GetContest godoc
// @Summary Get a contest by ID
// @Description Returns a contest with derived lifecycle status
// @Tags contests
// @Accept json
// @Produce json
// @Param id path string true "Contest ID"
// @Success 200 {object} models.ContestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid contest ID"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /contests/{id} [get]
func (h *ContestHandler) GetContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	contest, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Contest not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch contest"})
		return
	}

	c.JSON(http.StatusOK, toContestResponse(contest, time.Now().UTC()))
}

// CreateContest godoc
// @Summary Create a new contest
// @Description Creates a contest; datetime fields without a zone designator are treated as UTC
// @Tags contests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contest body models.CreateContestRequest true "Contest to create"
// @Success 201 {object} models.ContestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request body"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/contests [post]
func (h *ContestHandler) CreateContest(c *gin.Context) {
	var req models.CreateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	startTime, err := timeconv.ParseUTC(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid start_time"})
		return
	}
	endTime, err := timeconv.ParseUTC(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid end_time"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "end_time must be after start_time"})
		return
	}

	rules, err := buildOfficialRules(req.OfficialRules)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	contest := models.Contest{
		Name:             req.Name,
		Description:      req.Description,
		Location:         req.Location,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		StartTime:        startTime,
		EndTime:          endTime,
		PrizeDescription: req.PrizeDescription,
		Active:           req.Active,
		OfficialRules:    rules,
	}

	if err := h.repo.Create(c.Request.Context(), &contest); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create contest"})
		return
	}

	c.JSON(http.StatusCreated, toContestResponse(&contest, time.Now().UTC()))
}

// UpdateContest godoc
// @Summary Update a contest
// @Description Partially updates a contest; nil fields are left unchanged
// @Tags contests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Param contest body models.UpdateContestRequest true "Fields to update"
// @Success 200 {object} models.ContestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid request body or contest ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 409 {object} models.ErrorResponse "Winner already selected"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/contests/{id} [put]
func (h *ContestHandler) UpdateContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	var req models.UpdateContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	contest, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Contest not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch contest"})
		return
	}

	// Once a winner has been selected the contest record is frozen.
	if contest.WinnerSelectedAt != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Contest is complete and can no longer be edited"})
		return
	}

	if req.Name != nil {
		contest.Name = *req.Name
	}
	if req.Description != nil {
		contest.Description = req.Description
	}
	if req.Location != nil {
		contest.Location = req.Location
	}
	if req.Latitude != nil {
		contest.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		contest.Longitude = req.Longitude
	}
	if req.StartTime != nil {
		startTime, err := timeconv.ParseUTC(*req.StartTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid start_time"})
			return
		}
		contest.StartTime = startTime
	}
	if req.EndTime != nil {
		endTime, err := timeconv.ParseUTC(*req.EndTime)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid end_time"})
			return
		}
		contest.EndTime = endTime
	}
	if !contest.EndTime.After(contest.StartTime) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "end_time must be after start_time"})
		return
	}
	if req.PrizeDescription != nil {
		contest.PrizeDescription = req.PrizeDescription
	}
	if req.Active != nil {
		contest.Active = *req.Active
	}
	if req.OfficialRules != nil {
		rules, err := buildOfficialRules(req.OfficialRules)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
			return
		}
		rules.ContestID = contest.ID
		contest.OfficialRules = rules
	}

	if err := h.repo.Update(c.Request.Context(), contest); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to update contest"})
		return
	}

	c.JSON(http.StatusOK, toContestResponse(contest, time.Now().UTC()))
}

// DeleteContest godoc
// @Summary Delete a contest
// @Description Deletes a contest and its entries
// @Tags contests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Success 204 "No Content"
// @Failure 400 {object} models.ErrorResponse "Invalid contest ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/contests/{id} [delete]
func (h *ContestHandler) DeleteContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), id); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Contest not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to delete contest"})
		return
	}

	c.Status(http.StatusNoContent)
}
