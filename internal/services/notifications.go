package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/nevos-health/nevos-api/internal/models"
)

// NotificationService sends SMS confirmations through Textbelt. Delivery is
// fire-and-forget: a failed send is logged and never surfaces to the caller.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// SendAppointmentRequestSMS confirms that an appointment request was
// received. Skipped silently when the user has no phone number on file.
func (s *NotificationService) SendAppointmentRequestSMS(user *models.User, apt *models.Appointment) {
	if user.Phone == "" {
		return
	}

	smsBody := fmt.Sprintf(
		"NEVOS: your %s request for %s at %s has been received. The clinic will contact you to confirm.",
		apt.ServiceType,
		apt.Date,
		apt.Time,
	)

	// Send in a goroutine so it doesn't block the API response.
	go sendSmsWithTextbelt(user.Phone, smsBody)
}

func sendSmsWithTextbelt(phone, message string) {
	textbeltKey := os.Getenv("TEXTBELT_API_KEY")
	if textbeltKey == "" {
		log.Println("SMS not sent: TEXTBELT_API_KEY is not configured.")
		return
	}

	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     textbeltKey,
	})

	resp, err := http.Post("https://textbelt.com/text", "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		log.Printf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)

	success, _ := result["success"].(bool)
	if !success {
		errorMsg, _ := result["error"].(string)
		log.Printf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, errorMsg)
	} else {
		log.Printf("Successfully sent SMS via Textbelt to %s", phone)
	}
}
