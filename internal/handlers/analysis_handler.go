package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nevos-health/nevos-api/internal/models"
	"github.com/nevos-health/nevos-api/internal/services"
	"github.com/nevos-health/nevos-api/internal/store"
)

const maxImageBytes = 10 << 20 // matches the upload control's 10MB limit

// AnalyzeImage runs the analysis flow: validate the upload, classify it
// through the AI gateway, then persist a record. Classification and
// persistence are independent effects; a failed save never withholds a
// successful result.
func (h *Handler) AnalyzeImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required"})
		return
	}

	// Reject non-image uploads before anything leaves the server.
	mimeType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a valid image file (e.g., JPG, PNG, WEBP)."})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image must be 10MB or smaller"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}
	defer file.Close()

	imageBytes, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded image"})
		return
	}

	result, err := h.AI.ClassifyImage(c.Request.Context(), imageBytes, mimeType)
	if err != nil {
		respondError(c, err)
		return
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return
	}

	record := models.AnalysisRecord{
		UserID:          userOID,
		ImagePreview:    fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes)),
		ConditionName:   result.ConditionName,
		Severity:        result.Severity,
		Confidence:      result.Confidence,
		Description:     result.Description,
		Recommendations: result.Recommendations,
	}

	if h.Store == nil {
		c.JSON(http.StatusOK, gin.H{
			"result":  result,
			"warning": "Could not save analysis result. Please try again.",
		})
		return
	}
	if err := h.Store.InsertAnalysis(c.Request.Context(), &record); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"result":  result,
			"warning": "Could not save analysis result. Please try again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "record": record})
}

// GetHistory returns the caller's past analyses, newest first.
func (h *Handler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.storeReady(c) {
		return
	}

	records, err := h.Store.AnalysesByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis history"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// ExportReport renders one analysis as a downloadable plain-text report.
func (h *Handler) ExportReport(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if !h.storeReady(c) {
		return
	}

	rec, err := h.Store.AnalysisByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analysis"})
		return
	}

	filename := fmt.Sprintf("NEVOS-Analysis-Report-%s.txt", rec.CreatedAt.Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(services.BuildAnalysisReport(rec)))
}
