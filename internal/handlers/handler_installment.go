package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// installmentHandler handles HTTP requests related to installment plans.
type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
}

func newInstallmentHandler(is portssvc.InstallmentSvcFacade) *installmentHandler {
	return &installmentHandler{installmentService: is}
}

// registerInstallmentRoutes registers routes related to installment plans.
func registerInstallmentRoutes(rg *gin.RouterGroup, installmentService portssvc.InstallmentSvcFacade) {
	h := newInstallmentHandler(installmentService)

	plans := rg.Group("/installment-plans")
	{
		plans.POST("", h.createPlan)
		plans.GET("", h.listPlans)
		plans.GET("/:id", h.getPlan)
		plans.POST("/:id/cancel", h.cancelPlan)
	}
}

func (h *installmentHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInstallmentPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateInstallmentPlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	plan, err := h.installmentService.CreatePlan(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create installment plan")
		return
	}

	logger.Info("Installment plan created", slog.String("plan_id", plan.PlanID))
	c.JSON(http.StatusCreated, dto.ToInstallmentPlanResponse(plan))
}

func (h *installmentHandler) listPlans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	plans, err := h.installmentService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "list installment plans")
		return
	}

	c.JSON(http.StatusOK, dto.ToListInstallmentPlanResponse(plans))
}

func (h *installmentHandler) getPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	plan, err := h.installmentService.GetPlanByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "get installment plan")
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentPlanResponse(plan))
}

func (h *installmentHandler) cancelPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	if err := h.installmentService.CancelPlan(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondServiceError(c, logger, err, "cancel installment plan")
		return
	}

	c.Status(http.StatusNoContent)
}
