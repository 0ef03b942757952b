package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Appointment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	PatientName string             `bson:"patientName" json:"patientName"`
	ServiceType string             `bson:"serviceType" json:"serviceType"`
	Date        string             `bson:"appointmentDate" json:"appointmentDate"` // 2006-01-02
	Time        string             `bson:"appointmentTime" json:"appointmentTime"` // 15:04
	Reason      string             `bson:"reason,omitempty" json:"reason,omitempty"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
