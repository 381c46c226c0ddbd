package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"time"
	"contestlet/internal/models"
	"contestlet/internal/repository"
	"contestlet/internal/sms"
	"contestlet/internal/timeconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WinnerHandler handles winner selection and notification
type WinnerHandler struct {
	contestRepo      repository.ContestRepository
	entryRepo        repository.EntryRepository
	notificationRepo repository.NotificationRepository
	sender           sms.Sender
}

// NewWinnerHandler creates a new WinnerHandler
func NewWinnerHandler(contestRepo repository.ContestRepository, entryRepo repository.EntryRepository, notificationRepo repository.NotificationRepository, sender sms.Sender) *WinnerHandler {
	return &WinnerHandler{
		contestRepo:      contestRepo,
		entryRepo:        entryRepo,
		notificationRepo: notificationRepo,
		sender:           sender,
	}
}

// SelectWinner godoc
// @Summary Select a contest winner
// @Description Randomly selects a winning entry for an ended contest
// @Tags winners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Success 200 {object} models.ContestResponse
// @Failure 400 {object} models.ErrorResponse "Invalid contest ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 409 {object} models.ErrorResponse "Contest not ended, no entries, or winner already selected"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/contests/{id}/select-winner [post]
func (h *WinnerHandler) SelectWinner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
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

	switch contest.StatusAt(time.Now().UTC()) {
	case models.StatusEnded:
	case models.StatusComplete:
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Winner already selected"})
		return
	default:
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Contest has not ended yet"})
		return
	}

	entries, err := h.entryRepo.ListByContest(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch entries"})
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Contest has no entries"})
		return
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(entries))))
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to select winner"})
		return
	}
	winner := entries[n.Int64()]

	selectedAt := time.Now().UTC()
	if err := h.contestRepo.SetWinner(c.Request.Context(), id, winner.ID, selectedAt); errors.Is(err, repository.ErrWinnerAlreadyChosen) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Winner already selected"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to select winner"})
		return
	}

	contest.WinnerEntryID = &winner.ID
	contest.WinnerSelectedAt = &selectedAt

	c.JSON(http.StatusOK, toContestResponse(contest, selectedAt))
}

// NotifyWinner godoc
// @Summary Notify a contest winner
// @Description Renders the given message template and sends it to the winning entry's phone
// @Tags winners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contest ID"
// @Param request body models.NotifyWinnerRequest true "Message template"
// @Success 200 {object} models.Notification
// @Failure 400 {object} models.ErrorResponse "Invalid request body or message template"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 404 {object} models.ErrorResponse "Contest not found"
// @Failure 409 {object} models.ErrorResponse "No winner selected yet"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 502 {object} models.ErrorResponse "SMS delivery failed"
// @Router /admin/contests/{id}/notify-winner [post]
func (h *WinnerHandler) NotifyWinner(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest ID"})
		return
	}

	var req models.NotifyWinnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
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

	if contest.WinnerEntryID == nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "No winner selected yet"})
		return
	}

	winner, err := h.entryRepo.GetByID(c.Request.Context(), *contest.WinnerEntryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch winning entry"})
		return
	}

	data := sms.MessageData{
		WinnerName:  winner.Phone,
		ContestName: contest.Name,
	}
	if contest.PrizeDescription != nil {
		data.PrizeDescription = *contest.PrizeDescription
	}
	if contest.OfficialRules != nil {
		data.SponsorName = contest.OfficialRules.SponsorName
	}
	data.EndTime = timeconv.UTCString(contest.EndTime)

	message, err := sms.RenderCustom(req.Message, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid message template"})
		return
	}

	contestID := contest.ID
	winnerUserID := winner.UserID
	notification := models.Notification{
		ContestID: &contestID,
		UserID:    &winnerUserID,
		Phone:     winner.Phone,
		Type:      models.NotificationWinner,
		Message:   message,
		Status:    models.NotificationSent,
		TestMode:  req.TestMode,
		SentAt:    time.Now().UTC(),
	}

	var sendErr error
	if !req.TestMode {
		if sendErr = h.sender.Send(c.Request.Context(), winner.Phone, message); sendErr != nil {
			notification.Status = models.NotificationFailed
		}
	}

	if err := h.notificationRepo.Create(c.Request.Context(), &notification); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record notification"})
		return
	}

	if sendErr != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: "SMS delivery failed"})
		return
	}

	c.JSON(http.StatusOK, notification)
}

// ListNotifications godoc
// @Summary List notifications
// @Description Returns the notification log, optionally filtered
// @Tags winners
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contest_id query string false "Filter by contest"
// @Param type query string false "Filter by notification type"
// @Param status query string false "Filter by delivery status"
// @Success 200 {array} models.Notification
// @Failure 400 {object} models.ErrorResponse "Invalid parameters"
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/notifications [get]
func (h *WinnerHandler) ListNotifications(c *gin.Context) {
	filter := repository.NotificationFilter{}

	if contestIDStr := c.Query("contest_id"); contestIDStr != "" {
		contestID, err := uuid.Parse(contestIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid contest_id"})
			return
		}
		filter.ContestID = &contestID
	}
	if typ := c.Query("type"); typ != "" {
		filter.Type = &typ
	}
	if status := c.Query("status"); status != "" {
		filter.Status = &status
	}

	notifications, err := h.notificationRepo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, notifications)
}
