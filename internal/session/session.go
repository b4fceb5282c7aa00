// Package session stores per-user conversation state behind a narrow
// get/put/delete interface, keeping the percentile engine free of any
// ambient mutable state.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/sprouthq/sprout/pkg/reference"
)

// ErrNotFound is returned by Get when no state exists for the user.
var ErrNotFound = errors.New("session not found")

// State is what the bot has learned about a user's child so far. Zero-value
// fields mean "not provided yet". Measurements keep the raw units the user
// supplied: centimeters for height, kilograms for weight.
type State struct {
	Sex       reference.Sex `json:"sex,omitempty"`
	BirthDate string        `json:"birth_date,omitempty"` // YYYY-MM-DD
	HeightCM  *float64      `json:"height_cm,omitempty"`
	WeightKG  *float64      `json:"weight_kg,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Complete reports whether enough is known to compute at least one
// percentile.
func (s *State) Complete() bool {
	return s.Sex != "" && s.BirthDate != "" && (s.HeightCM != nil || s.WeightKG != nil)
}

// Missing lists the fields still needed before an answer is possible.
func (s *State) Missing() []string {
	var missing []string
	if s.BirthDate == "" {
		missing = append(missing, "birth date")
	}
	if s.Sex == "" {
		missing = append(missing, "sex")
	}
	if s.HeightCM == nil && s.WeightKG == nil {
		missing = append(missing, "height or weight")
	}
	return missing
}

// Store persists conversation state per user.
type Store interface {
	// Get returns the state for userID, or ErrNotFound.
	Get(ctx context.Context, userID string) (*State, error)
	// Put stores state for userID, replacing any previous state.
	Put(ctx context.Context, userID string, state *State) error
	// Delete removes state for userID. Deleting a missing session is a no-op.
	Delete(ctx context.Context, userID string) error
}
