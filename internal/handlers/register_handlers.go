package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/agustinvidal/fintrack/internal/apperrors"
	portssvc "github.com/agustinvidal/fintrack/internal/core/ports/services"
	"github.com/agustinvidal/fintrack/internal/middleware"
	"github.com/agustinvidal/fintrack/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using
// interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific
// entity route registrations.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerCurrencyRoutes(v1, services.CurrencySvc)
	registerExchangeRateRoutes(v1, services.RateSvc, services.ConversionSvc)
	registerAccountRoutes(v1, services.AccountSvc)
	registerCategoryRoutes(v1, services.CategorySvc)
	registerTransactionRoutes(v1, services.TransactionSvc)
	registerBudgetRoutes(v1, services.BudgetSvc)
	registerInstallmentRoutes(v1, services.InstallmentSvc)
	registerAutoDebitRoutes(v1, services.AutoDebitSvc)
	registerReportingRoutes(v1, services.ReportingSvc, cfg.BaseCurrency)
	registerJobRoutes(v1, services.RateSvc, services.DueItemSvc)
}

// respondServiceError maps service errors to HTTP statuses. Sentinel errors
// carry their message to the client; anything unexpected is logged and hidden
// behind a generic 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, action string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateRate), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientFunds), errors.Is(err, apperrors.ErrRateUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// requestUser pulls the authenticated user ID, aborting with 401 when absent.
func requestUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}
