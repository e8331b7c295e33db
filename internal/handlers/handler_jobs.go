package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

// jobsHandler exposes batch jobs to external schedulers. Jobs are idempotent,
// re-running a scan for the same day is safe.
type jobsHandler struct {
	rateService    portssvc.RateSvcFacade
	dueItemService portssvc.DueItemSvcFacade
}

func newJobsHandler(rs portssvc.RateSvcFacade, ds portssvc.DueItemSvcFacade) *jobsHandler {
	return &jobsHandler{
		rateService:    rs,
		dueItemService: ds,
	}
}

// registerJobRoutes registers the job trigger endpoints.
func registerJobRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, dueItemService portssvc.DueItemSvcFacade) {
	h := newJobsHandler(rateService, dueItemService)

	jobs := rg.Group("/jobs")
	{
		jobs.POST("/refresh-rates", h.refreshRates)
		jobs.POST("/due-items", h.runDueItems)
	}
}

func (h *jobsHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.rateService.RefreshAllRates(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "refresh exchange rates")
		return
	}

	logger.Info("Rate refresh finished",
		slog.Int("updated", summary.Updated),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}

func (h *jobsHandler) runDueItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	summary, err := h.dueItemService.RunDueItemScan(c.Request.Context(), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "run due item scan")
		return
	}

	logger.Info("Due item scan finished",
		slog.Int("debits_executed", summary.DebitsExecuted),
		slog.Int("installments_posted", summary.InstallmentsPosted),
		slog.Int("failed", summary.Failed))
	c.JSON(http.StatusOK, summary)
}
