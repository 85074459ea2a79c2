// Package api - Request and response types
package api

import (
	"time"

	"cargo-quote/core/cart"
	"cargo-quote/core/dialog"
)

// QuoteItem is one line item of a direct pricing request
type QuoteItem struct {
	// Description is free text; Category, when set, skips
	// classification
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`

	Weight float64 `json:"weight"`
	Volume float64 `json:"volume,omitempty"`

	// AgreedRate overrides the computed tier (USD/kg)
	AgreedRate *float64 `json:"agreed_rate,omitempty"`
}

// QuoteRequest prices a complete cart in one call
type QuoteRequest struct {
	Warehouse string      `json:"warehouse"`
	City      string      `json:"city"`
	Items     []QuoteItem `json:"items"`
}

// QuoteResponse wraps the priced quote
type QuoteResponse struct {
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
	Quote     *cart.Quote `json:"quote"`
}

// SessionResponse reports a session's id and the machine's reply
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	State     dialog.State `json:"state"`
	Reply     dialog.Reply `json:"reply"`
}

// MessageRequest carries one user input into a session
type MessageRequest struct {
	Input string `json:"input"`
}

// HealthResponse reports engine health and degraded mode
type HealthResponse struct {
	Status   string `json:"status"`
	Degraded bool   `json:"degraded"`
	Version  string `json:"version"`
}

// ErrorResponse is the uniform error envelope
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
