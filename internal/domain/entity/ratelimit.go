package entity

import "time"

// RateLimitStatus is the quota side channel surfaced from the foreign
// geocoding service's response headers. It is decoupled from the search
// results: a failed call can still update it, and a successful call may
// leave it untouched when the headers are missing.
type RateLimitStatus struct {
	Remaining int `json:"remaining"`
	// Limit is 0 when the service did not report one.
	Limit int `json:"limit,omitempty"`
	// Reset is the estimated renewal time, zero when unknown.
	Reset    time.Time `json:"reset,omitzero"`
	Observed time.Time `json:"observed"`
}
