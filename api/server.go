// Package api - Thin HTTP layer
// The API is only responsible for input ingestion, engine
// orchestration, and output serialization. It never performs tariff
// logic.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cargo-quote/core/cart"
	"cargo-quote/core/category"
	"cargo-quote/core/dialog"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/errors"
	"cargo-quote/session"
)

// Server is the API server
type Server struct {
	mux     *http.ServeMux
	tables  *tariff.Tables
	pricer  *cart.Pricer
	machine *dialog.Machine
	store   session.Store
	version string
	log     *zap.Logger
}

// NewServer creates an API server over the immutable tables. store
// holds in-flight dialogue sessions; machine drives them.
func NewServer(version string, tables *tariff.Tables, machine *dialog.Machine, store session.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		mux:     http.NewServeMux(),
		tables:  tables,
		pricer:  cart.NewPricer(tables),
		machine: machine,
		store:   store,
		version: version,
		log:     log,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /quote", s.handleQuote)
	s.mux.HandleFunc("POST /sessions", s.handleStartSession)
	s.mux.HandleFunc("POST /sessions/{id}/messages", s.handleMessage)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// handleQuote prices a posted cart directly, without a dialogue
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Items) == 0 {
		s.writeError(w, "VALIDATION_ERROR", "items must not be empty", http.StatusBadRequest)
		return
	}

	c := &cart.Cart{Warehouse: req.Warehouse, City: req.City}
	for _, item := range req.Items {
		cat := category.Normalize(item.Category)
		if item.Category == "" && item.Description != "" {
			cat = category.Match(item.Description)
		}
		ci := cart.Item{
			Description: item.Description,
			Category:    cat,
			Weight:      item.Weight,
			Volume:      item.Volume,
		}
		if item.AgreedRate != nil {
			rate := decimal.NewFromFloat(*item.AgreedRate)
			ci.AgreedRate = &rate
		}
		c.Add(ci)
	}

	quote, err := s.pricer.Price(c)
	if err != nil {
		s.writeTypedError(w, err)
		return
	}

	s.writeJSON(w, QuoteResponse{
		RequestID: uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Quote:     quote,
	}, http.StatusOK)
}

// handleStartSession opens a dialogue session
func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	sess, reply := s.machine.Start("")

	if !sess.State.Terminal() {
		rec := &session.Record{ID: sess.ID, Dialog: *sess}
		if err := s.store.Create(r.Context(), rec); err != nil {
			s.writeError(w, "STORE_ERROR", err.Error(), http.StatusInternalServerError)
			return
		}
	}

	s.writeJSON(w, SessionResponse{
		SessionID: sess.ID,
		State:     sess.State,
		Reply:     reply,
	}, http.StatusCreated)
}

// handleMessage feeds one input to a session
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, "STORE_ERROR", err.Error(), http.StatusInternalServerError)
		return
	}
	if rec == nil {
		s.writeError(w, "NOT_FOUND", "session not found", http.StatusNotFound)
		return
	}

	sess := rec.Dialog
	reply := s.machine.Advance(r.Context(), &sess, req.Input)
	rec.Dialog = sess

	if sess.State.Terminal() {
		if err := s.store.Delete(r.Context(), id); err != nil {
			s.log.Warn("deleting finished session failed", zap.String("session", id), zap.Error(err))
		}
	} else if err := s.store.Update(r.Context(), rec); err != nil {
		if err == session.ErrVersionConflict {
			s.writeError(w, "CONFLICT", "session modified concurrently, resend the input", http.StatusConflict)
			return
		}
		s.writeError(w, "STORE_ERROR", err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, SessionResponse{
		SessionID: id,
		State:     sess.State,
		Reply:     reply,
	}, http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.tables.Degraded() {
		status = "degraded"
	}
	s.writeJSON(w, HealthResponse{
		Status:   status,
		Degraded: s.tables.Degraded(),
		Version:  s.version,
	}, http.StatusOK)
}

// writeTypedError maps domain error types onto HTTP statuses
func (s *Server) writeTypedError(w http.ResponseWriter, err error) {
	e, ok := err.(*errors.Error)
	if !ok {
		s.writeError(w, "INTERNAL", err.Error(), http.StatusInternalServerError)
		return
	}
	status := http.StatusInternalServerError
	switch e.Type {
	case errors.TypeInput, errors.TypeParsing:
		status = http.StatusBadRequest
	case errors.TypeTariffNotFound:
		status = http.StatusUnprocessableEntity
	case errors.TypeConfig:
		status = http.StatusServiceUnavailable
	case errors.TypeNotFound:
		status = http.StatusNotFound
	}
	s.writeError(w, string(e.Type), e.Message, status)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Code: code, Message: message}, status)
}
