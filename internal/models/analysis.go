package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Severity is the assessed risk level of a detected condition. The AI oracle
// is constrained to the four known levels; anything else becomes Unknown.
type Severity string

const (
	SeverityNormal   Severity = "Normal"
	SeverityMild     Severity = "Mild"
	SeverityModerate Severity = "Moderate"
	SeveritySerious  Severity = "Serious"
	SeverityUnknown  Severity = "Unknown"
)

// NormalizeSeverity maps a raw model-produced string onto a known Severity.
func NormalizeSeverity(raw string) Severity {
	switch Severity(raw) {
	case SeverityNormal, SeverityMild, SeverityModerate, SeveritySerious:
		return Severity(raw)
	default:
		return SeverityUnknown
	}
}

// AnalysisPrediction is one ranked alternative condition.
type AnalysisPrediction struct {
	Name       string  `bson:"name" json:"name"`
	Confidence float64 `bson:"confidence" json:"confidence"`
}

// AnalysisResult is the transient classification produced per upload.
type AnalysisResult struct {
	ConditionName   string               `json:"conditionName"`
	Severity        Severity             `json:"severity"`
	Confidence      float64              `json:"confidence"`
	Description     string               `json:"description"`
	Recommendations []string             `json:"recommendations"`
	Disclaimer      string               `json:"disclaimer"`
	AllPredictions  []AnalysisPrediction `json:"allPredictions"`
}

// AnalysisRecord is the persisted subset of a result, scoped to one user.
// Recommendations stay a list; joining them into one string loses the split
// points on read-back.
type AnalysisRecord struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ImagePreview    string             `bson:"imagePreview" json:"imagePreview"`
	ConditionName   string             `bson:"conditionName" json:"conditionName"`
	Severity        Severity           `bson:"severity" json:"severity"`
	Confidence      float64            `bson:"confidence" json:"confidence"`
	Description     string             `bson:"description" json:"description"`
	Recommendations []string           `bson:"recommendations" json:"recommendations"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}
