package entity

import (
	"encoding/json"
	"time"
)

// Hold is one session's provisional claim on a set of seats for one trip
// instance. It lives only inside the per-trip hold set in the store and
// disappears on expiry, explicit release or promotion into tickets.
type Hold struct {
	BookingID   string    `json:"booking_id"`
	SessionID   string    `json:"session_id"`
	CustomerID  string    `json:"customer_id"`
	TripCode    string    `json:"trip_code"`
	Date        string    `json:"date"`
	Seats       []string  `json:"seats"`
	TicketCodes []string  `json:"ticket_codes"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the hold's own deadline has passed. The backing
// key carries a TTL as well, but the key TTL is refreshed whenever any
// session writes to the shared set, so per-entry expiry is checked on
// every read.
func (h *Hold) Expired(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

// HoldSet is the value stored under one hold:{trip}:{date} key.
type HoldSet map[string]Hold

// HoldRef is the secondary index entry mapping a booking id back to the
// hold set that contains it.
type HoldRef struct {
	TripCode   string `json:"trip_code"`
	Date       string `json:"date"`
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
}

func (h *Hold) MarshalBinary() ([]byte, error) {
	return json.Marshal(h)
}

func (h *Hold) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, h)
}
