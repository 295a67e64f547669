package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
)

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, 404, "No active game", "lookup failed", errors.New("boom"))

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] != "No active game" {
		t.Errorf("error message = %q, want the user message", body["error"])
	}
}

func TestRespondWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithJSON(rec, 200, map[string]int{"score": 30})

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	var body map[string]int
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["score"] != 30 {
		t.Errorf("score = %d, want 30", body["score"])
	}
}
