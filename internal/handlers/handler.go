package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nevos-health/nevos-api/internal/apperr"
	"github.com/nevos-health/nevos-api/internal/models"
	"github.com/nevos-health/nevos-api/internal/services"
	"github.com/nevos-health/nevos-api/internal/store"
)

// AIService is what handlers need from the AI gateway. Implemented by
// services.GeminiService; tests substitute a fake.
type AIService interface {
	ClassifyImage(ctx context.Context, image []byte, mimeType string) (*models.AnalysisResult, error)
	Converse(ctx context.Context, message string) (string, error)
	FindHospitals(ctx context.Context, lat, lon float64) ([]models.HospitalInfo, error)
}

type Handler struct {
	Store           store.Store
	AI              AIService
	NotificationSvc *services.NotificationService
}

func NewHandler(st store.Store, ai AIService, notificationSvc *services.NotificationService) *Handler {
	return &Handler{
		Store:           st,
		AI:              ai,
		NotificationSvc: notificationSvc,
	}
}

// storeReady guards data-dependent handlers when the server started without
// a database connection (degraded mode).
func (h *Handler) storeReady(c *gin.Context) bool {
	if h.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The database is currently unavailable"})
		return false
	}
	return true
}

// respondError maps a tagged error to its HTTP status and client message.
// Untagged errors are logged and reported generically.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(apperr.HTTPStatus(kind), gin.H{"error": apperr.Message(err)})
}

// currentUserID returns the authenticated user's id set by the middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID.(string), true
}
