package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nevos-health/nevos-api/internal/apperr"
)

func TestChatReturnsReply(t *testing.T) {
	ai := &fakeAI{converseReply: "Wear sunscreen daily."}
	h, st := newTestHandler(ai)
	router := newTestRouter(h)
	_, token := seedUser(t, st)

	req := authedRequest(t, "POST", "/api/chat", token, bytes.NewBufferString(`{"message": "How do I protect my skin?"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Wear sunscreen daily.") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if ai.converseCalls != 1 {
		t.Fatalf("expected one converse call, got %d", ai.converseCalls)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	ai := &fakeAI{}
	h, st := newTestHandler(ai)
	router := newTestRouter(h)
	_, token := seedUser(t, st)

	req := authedRequest(t, "POST", "/api/chat", token, bytes.NewBufferString(`{"message": ""}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", w.Code)
	}
	if ai.converseCalls != 0 {
		t.Fatal("assistant must not be called for an empty message")
	}
}

func TestChatServiceErrorIsReported(t *testing.T) {
	ai := &fakeAI{converseErr: apperr.New(apperr.ServiceUnavailable, "The AI service could not be reached")}
	h, st := newTestHandler(ai)
	router := newTestRouter(h)
	_, token := seedUser(t, st)

	req := authedRequest(t, "POST", "/api/chat", token, bytes.NewBufferString(`{"message": "hello"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "could not be reached") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}
