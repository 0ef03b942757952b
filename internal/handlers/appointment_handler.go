package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nevos-health/nevos-api/internal/models"
)

// CreateAppointment records an appointment request. The record is write-only
// from the app's point of view: the clinic follows up out of band, and a
// confirmation SMS goes out when the user has a phone number.
func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		ServiceType string `json:"serviceType" binding:"required"`
		Date        string `json:"appointmentDate" binding:"required"`
		Time        string `json:"appointmentTime" binding:"required"`
		Reason      string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a service, date and time for your appointment."})
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, use YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time, use HH:MM"})
		return
	}
	if !h.storeReady(c) {
		return
	}

	userOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return
	}

	user, err := h.Store.UserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not find user details"})
		return
	}

	apt := models.Appointment{
		UserID:      userOID,
		PatientName: user.FullName,
		ServiceType: req.ServiceType,
		Date:        req.Date,
		Time:        req.Time,
		Reason:      req.Reason,
		Status:      "Requested",
	}

	if err := h.Store.InsertAppointment(c.Request.Context(), &apt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book appointment. Please try again."})
		return
	}

	h.NotificationSvc.SendAppointmentRequestSMS(user, &apt)

	c.JSON(http.StatusCreated, apt)
}
