package handlers

import (
	"context"
	"log/slog"
	"net/http"

	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// autoDebitHandler handles HTTP requests related to auto-debit schedules.
type autoDebitHandler struct {
	autoDebitService portssvc.AutoDebitSvcFacade
}

func newAutoDebitHandler(as portssvc.AutoDebitSvcFacade) *autoDebitHandler {
	return &autoDebitHandler{autoDebitService: as}
}

// registerAutoDebitRoutes registers routes related to auto-debit schedules.
func registerAutoDebitRoutes(rg *gin.RouterGroup, autoDebitService portssvc.AutoDebitSvcFacade) {
	h := newAutoDebitHandler(autoDebitService)

	autoDebits := rg.Group("/auto-debits")
	{
		autoDebits.POST("", h.createSchedule)
		autoDebits.GET("", h.listSchedules)
		autoDebits.GET("/:id", h.getSchedule)
		autoDebits.POST("/:id/pause", h.pauseSchedule)
		autoDebits.POST("/:id/resume", h.resumeSchedule)
		autoDebits.POST("/:id/cancel", h.cancelSchedule)
	}
}

func (h *autoDebitHandler) createSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAutoDebitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateAutoDebit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	schedule, err := h.autoDebitService.CreateSchedule(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create auto-debit schedule")
		return
	}

	logger.Info("Auto-debit schedule created", slog.String("schedule_id", schedule.ScheduleID))
	c.JSON(http.StatusCreated, dto.ToAutoDebitResponse(schedule))
}

func (h *autoDebitHandler) listSchedules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	schedules, err := h.autoDebitService.ListSchedules(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "list auto-debit schedules")
		return
	}

	c.JSON(http.StatusOK, dto.ToListAutoDebitResponse(schedules))
}

func (h *autoDebitHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	schedule, err := h.autoDebitService.GetScheduleByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "get auto-debit schedule")
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoDebitResponse(schedule))
}

func (h *autoDebitHandler) pauseSchedule(c *gin.Context) {
	h.transition(c, "pause auto-debit schedule", h.autoDebitService.PauseSchedule)
}

func (h *autoDebitHandler) resumeSchedule(c *gin.Context) {
	h.transition(c, "resume auto-debit schedule", h.autoDebitService.ResumeSchedule)
}

func (h *autoDebitHandler) cancelSchedule(c *gin.Context) {
	h.transition(c, "cancel auto-debit schedule", h.autoDebitService.CancelSchedule)
}

// transition runs a lifecycle operation and returns the updated schedule.
func (h *autoDebitHandler) transition(c *gin.Context, action string, op func(ctx context.Context, scheduleID, userID string) error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	scheduleID := c.Param("id")
	if err := op(c.Request.Context(), scheduleID, userID); err != nil {
		respondServiceError(c, logger, err, action)
		return
	}

	schedule, err := h.autoDebitService.GetScheduleByID(c.Request.Context(), scheduleID, userID)
	if err != nil {
		respondServiceError(c, logger, err, action)
		return
	}

	c.JSON(http.StatusOK, dto.ToAutoDebitResponse(schedule))
}
