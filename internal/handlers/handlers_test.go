package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nevos-health/nevos-api/internal/middleware"
	"github.com/nevos-health/nevos-api/internal/models"
	"github.com/nevos-health/nevos-api/internal/services"
	"github.com/nevos-health/nevos-api/internal/store"
	"github.com/nevos-health/nevos-api/internal/utils"
)

// fakeAI stands in for the Gemini gateway and counts invocations so tests
// can assert that validation failures never reach the oracle.
type fakeAI struct {
	classifyResult *models.AnalysisResult
	classifyErr    error
	classifyCalls  int

	converseReply string
	converseErr   error
	converseCalls int

	hospitals     []models.HospitalInfo
	hospitalsErr  error
	hospitalCalls int
}

func (f *fakeAI) ClassifyImage(ctx context.Context, image []byte, mimeType string) (*models.AnalysisResult, error) {
	f.classifyCalls++
	return f.classifyResult, f.classifyErr
}

func (f *fakeAI) Converse(ctx context.Context, message string) (string, error) {
	f.converseCalls++
	return f.converseReply, f.converseErr
}

func (f *fakeAI) FindHospitals(ctx context.Context, lat, lon float64) ([]models.HospitalInfo, error) {
	f.hospitalCalls++
	return f.hospitals, f.hospitalsErr
}

// newTestRouter wires the handler into the same route table the server uses.
func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authRoutes := r.Group("/auth")
	authRoutes.POST("/register", h.RegisterUser)
	authRoutes.POST("/login", h.Login)
	authRoutes.POST("/logout", h.Logout)

	apiRoutes := r.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware())
	apiRoutes.GET("/me", h.GetCurrentUser)
	apiRoutes.PUT("/me", h.UpdateCurrentUser)
	apiRoutes.POST("/analyses", h.AnalyzeImage)
	apiRoutes.GET("/analyses", h.GetHistory)
	apiRoutes.GET("/analyses/:id/report", h.ExportReport)
	apiRoutes.POST("/chat", h.HandleChat)
	apiRoutes.GET("/hospitals", h.FindHospitals)
	apiRoutes.POST("/appointments", h.CreateAppointment)
	apiRoutes.GET("/diseases", h.GetDiseases)
	apiRoutes.GET("/services", h.GetServices)

	return r
}

func newTestHandler(ai AIService) (*Handler, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewHandler(st, ai, services.NewNotificationService()), st
}

// seedUser inserts a user directly and returns it with a bearer token.
func seedUser(t *testing.T, st *store.MemoryStore) (*models.User, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Test User",
		Email:    "user@example.com",
		Password: "irrelevant-hash",
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

// seedOtherUser inserts a second account for cross-user scoping checks.
func seedOtherUser(t *testing.T, st *store.MemoryStore) (*models.User, string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		ID:       primitive.NewObjectID(),
		FullName: "Other User",
		Email:    "other@example.com",
		Password: "irrelevant-hash",
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed other user: %v", err)
	}

	token, err := utils.GenerateJWT(user.ID.Hex())
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user, token
}

// imageUpload builds a multipart body with one "image" part carrying the
// given content type.
func imageUpload(t *testing.T, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return body, mw.FormDataContentType()
}

func authedRequest(t *testing.T, method, url, token string, body *bytes.Buffer) *http.Request {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
