package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
)

const defaultProjectionMonths = 12

// reportingHandler handles HTTP requests for multi-currency reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
	baseCurrency     string
}

func newReportingHandler(rs portssvc.ReportingSvcFacade, baseCurrency string) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		baseCurrency:     baseCurrency,
	}
}

// registerReportingRoutes registers the report endpoints. Every report accepts
// an optional targetCurrency query parameter, falling back to the configured
// base currency.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade, baseCurrency string) {
	h := newReportingHandler(reportingService, baseCurrency)

	reports := rg.Group("/reports")
	{
		reports.GET("/balance", h.balanceReport)
		reports.GET("/expenses", h.expensesReport)
		reports.GET("/income-vs-expenses", h.incomeVsExpensesReport)
		reports.GET("/budgets", h.budgetReport)
		reports.GET("/installments", h.installmentsProjection)
		reports.GET("/dashboard", h.dashboard)
	}
}

// targetCurrency resolves the report currency from the query string.
func (h *reportingHandler) targetCurrency(c *gin.Context) string {
	if v := c.Query("targetCurrency"); v != "" {
		return strings.ToUpper(v)
	}
	return h.baseCurrency
}

// reportWindow reads the from/to query parameters, defaulting to the current
// calendar month.
func (h *reportingHandler) reportWindow(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	from, ok := parseDateQuery(c, "from", monthStart)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDateQuery(c, "to", monthStart.AddDate(0, 1, 0).Add(-time.Second))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must not be before 'from'"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *reportingHandler) balanceReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	asOf, ok := parseDateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceReport(c.Request.Context(), userID, h.targetCurrency(c), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "build balance report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) expensesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	report, err := h.reportingService.ExpensesByCategory(c.Request.Context(), userID, h.targetCurrency(c), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "build expenses report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) incomeVsExpensesReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}

	report, err := h.reportingService.IncomeVsExpenses(c.Request.Context(), userID, h.targetCurrency(c), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "build income vs expenses report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) budgetReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	asOf, ok := parseDateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	report, err := h.reportingService.BudgetUsage(c.Request.Context(), userID, h.targetCurrency(c), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "build budget report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) installmentsProjection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	monthsAhead, ok := h.projectionMonths(c)
	if !ok {
		return
	}

	report, err := h.reportingService.InstallmentsProjection(c.Request.Context(), userID, h.targetCurrency(c), monthsAhead)
	if err != nil {
		respondServiceError(c, logger, err, "build installments projection")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) dashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	from, to, ok := h.reportWindow(c)
	if !ok {
		return
	}
	monthsAhead, ok := h.projectionMonths(c)
	if !ok {
		return
	}

	report, err := h.reportingService.Dashboard(c.Request.Context(), userID, h.targetCurrency(c), from, to, monthsAhead)
	if err != nil {
		respondServiceError(c, logger, err, "build dashboard report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// projectionMonths reads the optional monthsAhead query parameter, aborting
// with 400 on a non-positive or malformed value.
func (h *reportingHandler) projectionMonths(c *gin.Context) (int, bool) {
	raw := c.Query("monthsAhead")
	if raw == "" {
		return defaultProjectionMonths, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "monthsAhead must be a positive integer"})
		return 0, false
	}
	return parsed, true
}
