package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nevos-health/nevos-api/internal/models"
)

func postJSON(router http.Handler, url, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", url, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterLoginFlow(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	h, _ := newTestHandler(&fakeAI{})
	router := newTestRouter(h)

	w := postJSON(router, "/auth/register",
		`{"fullName": "Ada Lovelace", "email": "ada@example.com", "password": "analytical1843"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "analytical1843") {
		t.Fatal("response must never contain the password")
	}

	w = postJSON(router, "/auth/login", `{"email": "ada@example.com", "password": "analytical1843"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("login must return a token")
	}
	if resp.User.Email != "ada@example.com" || resp.User.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected user in login response: %+v", resp.User)
	}

	// The fresh token must open protected routes.
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, authedRequest(t, "GET", "/api/me", resp.Token, nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("expected 200 on /api/me with fresh token, got %d", w2.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler(&fakeAI{})
	router := newTestRouter(h)

	tests := []struct {
		name    string
		payload string
	}{
		{"missing name", `{"email": "a@example.com", "password": "longenough"}`},
		{"bad email", `{"fullName": "A", "email": "not-an-email", "password": "longenough"}`},
		{"short password", `{"fullName": "A", "email": "a@example.com", "password": "short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/auth/register", tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(&fakeAI{})
	router := newTestRouter(h)

	payload := `{"fullName": "Ada", "email": "ada@example.com", "password": "analytical1843"}`
	if w := postJSON(router, "/auth/register", payload); w.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", w.Code)
	}

	w := postJSON(router, "/auth/register", payload)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	h, _ := newTestHandler(&fakeAI{})
	router := newTestRouter(h)

	postJSON(router, "/auth/register", `{"fullName": "Ada", "email": "ada@example.com", "password": "analytical1843"}`)

	w := postJSON(router, "/auth/login", `{"email": "ada@example.com", "password": "wrong-password"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", w.Code)
	}
	w = postJSON(router, "/auth/login", `{"email": "nobody@example.com", "password": "analytical1843"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", w.Code)
	}
}

func TestProfileUpdate(t *testing.T) {
	h, st := newTestHandler(&fakeAI{})
	router := newTestRouter(h)
	user, token := seedUser(t, st)

	body := bytes.NewBufferString(`{"fullName": "Renamed User"}`)
	req := authedRequest(t, "PUT", "/api/me", token, body)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(t, "GET", "/api/me", token, nil))
	var got models.User
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if got.FullName != "Renamed User" || got.ID != user.ID {
		t.Fatalf("unexpected profile after update: %+v", got)
	}
}

func TestProfileUpdateRequiresField(t *testing.T) {
	h, st := newTestHandler(&fakeAI{})
	router := newTestRouter(h)
	_, token := seedUser(t, st)

	req := authedRequest(t, "PUT", "/api/me", token, bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty update, got %d", w.Code)
	}
}

func TestDegradedModeWithoutStore(t *testing.T) {
	h := NewHandler(nil, &fakeAI{}, nil)
	router := newTestRouter(h)

	w := postJSON(router, "/auth/register", `{"fullName": "A", "email": "a@example.com", "password": "longenough"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when the database is down, got %d", w.Code)
	}
}
