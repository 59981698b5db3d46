package entity

import "time"

type TicketStatus string

const (
	TicketStatusPaid          TicketStatus = "paid"
	TicketStatusCancelPending TicketStatus = "cancel_pending"
	TicketStatusCancelled     TicketStatus = "cancelled"
	TicketStatusRefunded      TicketStatus = "refunded"
)

// Occupying reports whether a ticket in this status still blocks its seat.
// A ticket frozen by a pending cancellation request is not bookable either.
func (s TicketStatus) Occupying() bool {
	return s == TicketStatusPaid || s == TicketStatusCancelPending
}

// Ticket is the permanent record of one paid seat on one trip instance.
// Created only by payment confirmation, from exactly one seat of a hold.
type Ticket struct {
	Code        string       `json:"code"`
	TripCode    string       `json:"trip_code"`
	Date        string       `json:"date"`
	CustomerID  string       `json:"customer_id"`
	SeatCode    string       `json:"seat_code"`
	InvoiceCode string       `json:"invoice_code"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Invoice groups the tickets created by one payment confirmation. Its code
// is the booking id the customer paid under.
type Invoice struct {
	Code          string    `json:"code"`
	CustomerID    string    `json:"customer_id"`
	Total         float64   `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	TicketCodes   []string  `json:"ticket_codes"`
	IssuedAt      time.Time `json:"issued_at"`
}
