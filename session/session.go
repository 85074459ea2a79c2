// Package session persists dialogue sessions between inputs.
//
// A conversation's state lives in the store from one message to the
// next; abandonment is handled by the store's TTL, which simply
// discards the record.
package session

import (
	"context"
	"errors"
	"time"

	"cargo-quote/core/dialog"
)

// ErrNotFound is returned by Update when the session does not exist
var ErrNotFound = errors.New("session not found")

// ErrVersionConflict is returned by Update when another writer got
// there first
var ErrVersionConflict = errors.New("session version conflict")

// Record is the persisted form of one dialogue session
type Record struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version increases monotonically for optimistic locking
	Version int64 `json:"version"`

	// Dialog is the full conversation state
	Dialog dialog.Session `json:"dialog"`
}

// Store persists dialogue sessions between inputs
type Store interface {
	// Create stores a new session with Version set to 1.
	Create(ctx context.Context, rec *Record) error

	// Get retrieves a session by ID.
	// Returns nil if the session is not found (not an error).
	Get(ctx context.Context, id string) (*Record, error)

	// Update persists an existing session with optimistic locking:
	// the stored Version must match, and is incremented on success.
	// Returns ErrVersionConflict or ErrNotFound accordingly.
	Update(ctx context.Context, rec *Record) error

	// Delete removes a session by ID.
	Delete(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
