package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/agustinvidal/fintrack/internal/core/domain"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/dto"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// exchangeRateHandler handles HTTP requests related to exchange rates and
// currency conversion.
type exchangeRateHandler struct {
	rateService       portssvc.RateSvcFacade
	conversionService portssvc.ConversionSvcFacade
}

func newExchangeRateHandler(rs portssvc.RateSvcFacade, cs portssvc.ConversionSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService:       rs,
		conversionService: cs,
	}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateSvcFacade, conversionService portssvc.ConversionSvcFacade) {
	h := newExchangeRateHandler(rateService, conversionService)

	exchangeRates := rg.Group("/exchange-rates")
	{
		exchangeRates.POST("", h.createExchangeRate)
		exchangeRates.GET("", h.listExchangeRates)
		exchangeRates.GET("/:from/:to", h.getExchangeRate)
	}

	rg.GET("/convert", h.convert)
}

func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requestUser(c, logger)
	if !ok {
		return
	}

	rate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "create exchange rate")
		return
	}

	logger.Info("Exchange rate created", slog.String("rate_id", rate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var from, to *string
	if v := c.Query("from"); v != "" {
		from = &v
	}
	if v := c.Query("to"); v != "" {
		to = &v
	}

	rates, err := h.rateService.ListRates(c.Request.Context(), from, to)
	if err != nil {
		respondServiceError(c, logger, err, "list exchange rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getExchangeRate resolves the effective rate for a pair, honoring the
// optional asOf query parameter (YYYY-MM-DD, default today).
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := parseDateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	rate, err := h.conversionService.ResolveRate(c.Request.Context(), c.Param("from"), c.Param("to"), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "get exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(rate))
}

// convert re-expresses an amount in another currency. Query parameters:
// amount, from, to, asOf (optional).
func (h *exchangeRateHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + c.Query("amount")})
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'from' and 'to' query parameters are required"})
		return
	}

	asOf, ok := parseDateQuery(c, "asOf", time.Now())
	if !ok {
		return
	}

	converted, err := h.conversionService.Convert(c.Request.Context(), domain.NewMoney(amount, from), to, asOf)
	if err != nil {
		respondServiceError(c, logger, err, "convert amount")
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{
		OriginalAmount:   amount,
		OriginalCurrency: from,
		ConvertedAmount:  converted.Amount,
		TargetCurrency:   converted.CurrencyCode,
		AsOf:             asOf,
	})
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter, aborting with
// 400 on a malformed value.
func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}
