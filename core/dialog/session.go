// Package dialog drives the quote-collection conversation: ordered
// prompts, validated answers, the auto/manual rate branch, and the
// multi-item loop, handing the accumulated cart to the pricer exactly
// once at finalization.
package dialog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cargo-quote/core/cart"
	"cargo-quote/core/category"
)

// State is the conversation's current step
type State string

const (
	StateAwaitCity         State = "await_city"
	StateAwaitWarehouse    State = "await_warehouse"
	StateAwaitCategory     State = "await_item_category"
	StateAwaitWeight       State = "await_item_weight"
	StateAwaitVolume       State = "await_item_volume"
	StateAwaitRateChoice   State = "await_rate_choice"
	StateAwaitManualRate   State = "await_manual_rate"
	StateAwaitItemDecision State = "await_item_decision"
	StateAwaitContactName  State = "await_contact_name"
	StateAwaitContactPhone State = "await_contact_phone"
	StateComplete          State = "complete"
	StateCancelled         State = "cancelled"
)

// Terminal reports whether no further input is accepted
func (s State) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// PendingItem is the line item currently being collected
type PendingItem struct {
	Description   string            `json:"description"`
	Category      category.Category `json:"category"`
	Weight        float64           `json:"weight"`
	Volume        float64           `json:"volume"`
	AssumedVolume bool              `json:"assumed_volume"`

	// Count expands the item into identical pieces at save time;
	// Pallets marks the standard pallet preset
	Count   int  `json:"count"`
	Pallets bool `json:"pallets,omitempty"`

	// OfferedRate and OfferedCost are the auto-computed offer shown to
	// the customer
	OfferedRate decimal.Decimal `json:"offered_rate"`
	OfferedCost decimal.Decimal `json:"offered_cost"`

	// AgreedRate is set when the customer declined the offer and
	// supplied a manual USD/kg rate
	AgreedRate *decimal.Decimal `json:"agreed_rate,omitempty"`
}

// Contact is the customer contact collected after the quote
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Session is one conversation's complete state. It is owned exclusively
// by that conversation; different sessions share only the read-only
// tariff tables.
type Session struct {
	ID      string       `json:"id"`
	State   State        `json:"state"`
	Cart    cart.Cart    `json:"cart"`
	Pending *PendingItem `json:"pending,omitempty"`
	Contact Contact      `json:"contact"`
	Quote   *cart.Quote  `json:"quote,omitempty"`
}

// NewSession creates a session at the first prompt
func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:    id,
		State: StateAwaitCity,
	}
}

// Reply is the machine's answer to one input
type Reply struct {
	// Prompt is the next question, empty on terminal states
	Prompt string `json:"prompt,omitempty"`

	// Notice carries validation feedback or fallback explanations
	Notice string `json:"notice,omitempty"`

	// Quote is set once, when the finalized quote is presented
	Quote *cart.Quote `json:"quote,omitempty"`

	// Done is set on terminal states
	Done bool `json:"done"`
}

// Recorder receives the finished quote and contact details. The
// persistence and notification collaborators behind it are external;
// the machine itself performs no I/O beyond prompting.
type Recorder interface {
	Record(ctx context.Context, sess *Session) error
}
