package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/nevos-health/nevos-api/internal/apperr"
	"github.com/nevos-health/nevos-api/internal/models"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel   = "gemini-2.5-flash"

	chatSystemInstruction = "You are a helpful AI assistant for NEVOS, a skin cancer detection app. " +
		"Your role is to answer user questions about skin health, skin conditions, and how to use the app. " +
		"Do not provide medical diagnoses. Always encourage users to consult a healthcare professional for " +
		"any medical concerns. Keep your answers concise and easy to understand."

	classifyPrompt = "Analyze this skin lesion image. Provide a detailed analysis following the JSON schema. " +
		"Identify the most likely condition, its severity, and your confidence. Give a brief description, " +
		"a checklist of recommendations, a standard medical disclaimer, and a list of the top 4 potential " +
		"conditions you considered, ranked by confidence."
)

// --- Gemini request/response wire structures ---

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
	Items       *geminiSchema            `json:"items,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string        `json:"response_mime_type,omitempty"`
	ResponseSchema   *geminiSchema `json:"response_schema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generation_config,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// analysisSchema mirrors the fields AnalysisResult requires from the model.
var analysisSchema = &geminiSchema{
	Type: "OBJECT",
	Properties: map[string]*geminiSchema{
		"conditionName": {Type: "STRING", Description: "The most likely dermatological condition."},
		"severity": {
			Type: "STRING",
			Enum: []string{"Normal", "Mild", "Moderate", "Serious"},
		},
		"confidence":  {Type: "NUMBER", Description: "Confidence score from 0 to 100 for the main condition."},
		"description": {Type: "STRING"},
		"recommendations": {
			Type:        "ARRAY",
			Description: "A checklist of 3-4 clear, actionable next steps for the user.",
			Items:       &geminiSchema{Type: "STRING"},
		},
		"disclaimer": {Type: "STRING", Description: "A mandatory medical disclaimer."},
		"allPredictions": {
			Type:        "ARRAY",
			Description: "Top 4 potential conditions with confidence percentages, including the main one.",
			Items: &geminiSchema{
				Type: "OBJECT",
				Properties: map[string]*geminiSchema{
					"name":       {Type: "STRING"},
					"confidence": {Type: "NUMBER"},
				},
				Required: []string{"name", "confidence"},
			},
		},
	},
	Required: []string{"conditionName", "severity", "confidence", "description", "recommendations", "disclaimer", "allPredictions"},
}

var hospitalSchema = &geminiSchema{
	Type: "ARRAY",
	Items: &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"name":    {Type: "STRING", Description: "The full name of the hospital or clinic."},
			"address": {Type: "STRING", Description: "The complete street address of the facility."},
			"phone":   {Type: "STRING", Description: "A valid contact phone number for the facility."},
			"website": {Type: "STRING", Description: "The full URL for the facility's official website."},
		},
		Required: []string{"name", "address", "phone", "website"},
	},
}

// GeminiService calls the Gemini REST API directly. Each operation is a
// single non-idempotent call with no internal retry; failures surface as
// apperr kinds for the handlers to report.
type GeminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiService() *GeminiService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiService{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewGeminiServiceWithBaseURL is used by tests to point at a local server.
func NewGeminiServiceWithBaseURL(baseURL, apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ClassifyImage sends the image inline with the analysis prompt and parses
// the schema-constrained response into an AnalysisResult.
func (s *GeminiService) ClassifyImage(ctx context.Context, image []byte, mimeType string) (*models.AnalysisResult, error) {
	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
				{Text: classifyPrompt},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   analysisSchema,
		},
	}

	text, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		return nil, apperr.Wrap(apperr.SchemaViolation, "The AI model returned an unreadable analysis", err)
	}
	if result.ConditionName == "" || len(result.Recommendations) == 0 || len(result.AllPredictions) == 0 {
		return nil, apperr.New(apperr.SchemaViolation, "The AI model returned an incomplete analysis")
	}
	result.Severity = models.NormalizeSeverity(string(result.Severity))

	return &result, nil
}

// Converse sends free text under the fixed NEVOS assistant persona and
// returns the raw reply text.
func (s *GeminiService) Converse(ctx context.Context, message string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: message}},
		}},
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: chatSystemInstruction}},
		},
	}

	return s.generate(ctx, req)
}

// FindHospitals asks the model to fabricate a plausible list of five nearby
// facilities for the given coordinates. The list is generated, not looked up;
// only its shape is validated.
func (s *GeminiService) FindHospitals(ctx context.Context, lat, lon float64) ([]models.HospitalInfo, error) {
	prompt := fmt.Sprintf(
		"Based on the location (latitude: %f, longitude: %f), generate a realistic list of 5 nearby hospitals "+
			"or clinics that have dermatology departments. For each facility, provide its name, a plausible full "+
			"address, a phone number, and a website URL. Your response MUST strictly follow the provided JSON "+
			"schema. Ensure the website URL is a valid, fully-formed URL.", lat, lon)

	req := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{{Text: prompt}},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   hospitalSchema,
		},
	}

	text, err := s.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var hospitals []models.HospitalInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &hospitals); err != nil {
		return nil, apperr.Wrap(apperr.SchemaViolation, "The AI model returned an unreadable hospital list", err)
	}

	hospitals = lo.Filter(hospitals, func(h models.HospitalInfo, _ int) bool {
		return h.Name != ""
	})
	if len(hospitals) == 0 {
		return nil, apperr.New(apperr.SchemaViolation, "The AI model returned an empty hospital list")
	}

	return hospitals, nil
}

// generate performs one generateContent call and extracts the first
// candidate's text.
func (s *GeminiService) generate(ctx context.Context, reqBody geminiRequest) (string, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperr.Wrap(apperr.ServiceUnavailable, "Failed to build AI request", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", apperr.Wrap(apperr.ServiceUnavailable, "Failed to build AI request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return "", apperr.Wrap(apperr.ServiceUnavailable, "The AI service could not be reached", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", apperr.Wrap(apperr.ServiceUnavailable, "Failed to read AI response", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", apperr.New(apperr.ServiceUnavailable,
			fmt.Sprintf("The AI service returned an error (status %d)", httpResp.StatusCode))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", apperr.Wrap(apperr.SchemaViolation, "Failed to parse AI response", err)
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", apperr.New(apperr.SchemaViolation, "The AI model returned an empty response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
