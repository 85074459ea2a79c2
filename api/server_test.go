// Package api - HTTP handler tests
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cargo-quote/core/category"
	"cargo-quote/core/dialog"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/config"
	"cargo-quote/session"
)

func testServer(cfg *config.Config) *Server {
	tables := tariff.NewTables(cfg)
	machine := dialog.NewMachine(tables, category.KeywordClassifier{}, nil, nil)
	return NewServer("test", tables, machine, session.NewMemoryStore(), nil)
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestHandleQuote(t *testing.T) {
	s := testServer(config.Default())

	w := postJSON(t, s, "/quote", QuoteRequest{
		Warehouse: "GZ",
		City:      "Astana",
		Items: []QuoteItem{
			{Category: "obuv", Weight: 100, Volume: 0.5},
			{Description: "winter jackets", Weight: 40, Volume: 0.2},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp QuoteResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response JSON: %v", err)
	}
	if resp.Quote == nil || len(resp.Quote.Items) != 2 {
		t.Fatalf("Expected 2 priced items, got %+v", resp.Quote)
	}
	if resp.RequestID == "" {
		t.Error("Expected a request id")
	}
	if resp.Quote.Items[1].Category != category.Clothing {
		t.Errorf("Expected the description to classify as clothing, got %s", resp.Quote.Items[1].Category)
	}
}

func TestHandleQuoteValidation(t *testing.T) {
	s := testServer(config.Default())

	w := postJSON(t, s, "/quote", QuoteRequest{Warehouse: "GZ", City: "Astana"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty cart, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad JSON, got %d", rec.Code)
	}
}

func TestHandleQuoteDegraded(t *testing.T) {
	s := testServer(config.Degraded())

	w := postJSON(t, s, "/quote", QuoteRequest{
		Warehouse: "GZ",
		City:      "Astana",
		Items:     []QuoteItem{{Category: "obuv", Weight: 10, Volume: 0.05}},
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 in degraded mode, got %d", w.Code)
	}
}

func TestSessionFlow(t *testing.T) {
	s := testServer(config.Default())

	w := postJSON(t, s, "/sessions", struct{}{})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.SessionID == "" || created.Reply.Prompt == "" {
		t.Fatalf("Expected a session id and a first prompt, got %+v", created)
	}

	inputs := []string{
		"Astana", "GZ", "winter jackets", "40", "0.2", "yes", "done",
		"Aigerim", "+77012345678",
	}
	var last SessionResponse
	for _, input := range inputs {
		w = postJSON(t, s, "/sessions/"+created.SessionID+"/messages", MessageRequest{Input: input})
		if w.Code != http.StatusOK {
			t.Fatalf("Message %q: expected 200, got %d: %s", input, w.Code, w.Body.String())
		}
		if err := json.Unmarshal(w.Body.Bytes(), &last); err != nil {
			t.Fatal(err)
		}
	}

	if last.State != dialog.StateComplete {
		t.Errorf("Expected the session to complete, got %s", last.State)
	}
	if !last.Reply.Done {
		t.Error("Expected the final reply to be done")
	}

	// Finished sessions are removed from the store
	w = postJSON(t, s, "/sessions/"+created.SessionID+"/messages", MessageRequest{Input: "hello"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after completion, got %d", w.Code)
	}
}

func TestMessageUnknownSession(t *testing.T) {
	s := testServer(config.Default())

	w := postJSON(t, s, "/sessions/nope/messages", MessageRequest{Input: "hi"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	s := testServer(config.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" || resp.Degraded {
		t.Errorf("Expected healthy, got %+v", resp)
	}

	degraded := testServer(config.Degraded())
	w = httptest.NewRecorder()
	degraded.ServeHTTP(w, req)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "degraded" || !resp.Degraded {
		t.Errorf("Expected degraded, got %+v", resp)
	}
}
