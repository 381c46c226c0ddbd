package handlers

import (
	"net/http"
	"contestlet/internal/models"
	"contestlet/internal/sweep"

	"github.com/gin-gonic/gin"
)

// SweepHandler triggers manual sweep runs
type SweepHandler struct {
	sweeper *sweep.Sweeper
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(sweeper *sweep.Sweeper) *SweepHandler {
	return &SweepHandler{sweeper: sweeper}
}

// RunSweep godoc
// @Summary Run the end-of-contest sweep
// @Description Scans for contests that ended without a winner and records reminder notifications
// @Tags sweeps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} sweep.Result
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 403 {object} models.ErrorResponse "Admin access required"
// @Failure 429 {object} models.ErrorResponse "Rate limit exceeded"
// @Failure 500 {object} models.ErrorResponse "Internal Server Error"
// @Router /admin/sweeps/run [post]
func (h *SweepHandler) RunSweep(c *gin.Context) {
	result, err := h.sweeper.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Sweep failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
