package handlers

import (
	"errors"
	"net/http"
	"time"
	"contestlet/internal/auth"
	"contestlet/internal/models"
	"contestlet/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EntryHandler handles contest entry requests
type EntryHandler struct {
	contestRepo repository.ContestRepository
	entryRepo   repository.EntryRepository
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(contestRepo repository.ContestRepository, entryRepo repository.EntryRepository) *EntryHandler {
	return &EntryHandler{
		contestRepo: contestRepo,
		entryRepo:   entryRepo,
	}
}

// EnterContest godoc
// @Summary Enter a contest
// @Description Enters the authenticated user into a contest that is currently accepting entries
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Success 201 {object} models.Entry
// @Failure 400 {object} models.ErrorResponse "Invalid contest ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 409 {object} models.ErrorResponse "Contest not accepting entries or already entered"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /contests/{id}/enter [post]
func (h *EntryHandler) EnterContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	user := auth.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return
	}

	contest, err := h.contestRepo.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Contest not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch contest"})
		return
	}

	if !contest.Active {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Contest is not open for entries"})
		return
	}
	if status := contest.StatusAt(time.Now().UTC()); status != models.StatusActive {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Contest is " + string(status) + " and not accepting entries"})
		return
	}

	entry := models.Entry{
		ContestID: contest.ID,
		UserID:    user.ID,
	}
	if err := h.entryRepo.Create(c.Request.Context(), &entry); errors.Is(err, repository.ErrDuplicateEntry) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Already entered this contest"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// ListEntries godoc
// @Summary List contest entries
// @Description Returns all entries for a contest
// @Tags entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Success 200 {array} models.Entry
// @Failure 400 {object} models.ErrorResponse "Invalid contest ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/contests/{id}/entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	if _, err := h.contestRepo.GetByID(c.Request.Context(), id); errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Contest not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch contest"})
		return
	}

	entries, err := h.entryRepo.ListByContest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch entries"})
		return
	}

	c.JSON(http.StatusOK, entries)
}
