package service

import (
	"context"
	"time"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// HoldRegistry is the authoritative record of which seats are provisionally
// claimed per (trip, date), and for how long. It alone enforces that no two
// live holds for the same trip share a seat code.
type HoldRegistry interface {
	PlaceHold(ctx context.Context, hold entity.Hold) (*entity.Hold, error)
	ReleaseHold(ctx context.Context, tripCode, date, sessionID string) error
	Holds(ctx context.Context, tripCode, date string) (entity.HoldSet, error)
	HeldSeats(ctx context.Context, tripCode, date string) ([]string, error)
	HoldBySession(ctx context.Context, tripCode, date, sessionID string) (*entity.Hold, error)
	HoldByBookingID(ctx context.Context, bookingID string) (*entity.Hold, error)
	PromoteHold(ctx context.Context, tripCode, date, sessionID string) (*entity.Hold, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req *CreateBookingRequest) (*BookingResponse, error)
	ConfirmPayment(ctx context.Context, bookingID, customerID string) (*PaymentResult, error)
	CancelPending(ctx context.Context, bookingID, customerID string) error
	TicketsByCustomer(ctx context.Context, customerID string) ([]*entity.Ticket, error)
	InvoicesByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
}

type AvailabilityService interface {
	SeatAvailability(ctx context.Context, tripCode, date, sessionID string) (*SeatAvailability, error)
}

type CancellationService interface {
	CreateRequest(ctx context.Context, customerID string, req *CreateCancellationRequest) (*entity.CancellationRequest, error)
	Resolve(ctx context.Context, requestCode string, req *ResolveCancellationRequest, staffID string) (*entity.CancellationRequest, error)
	PendingRequests(ctx context.Context) ([]*entity.CancellationRequest, error)
	RequestsByCustomer(ctx context.Context, customerID string) ([]*entity.CancellationRequest, error)
}

type TripService interface {
	CreateTrip(ctx context.Context, req *CreateTripRequest) (*entity.TripInstance, error)
	GetTrip(ctx context.Context, code string) (*entity.TripInstance, error)
	ListTrips(ctx context.Context, filter *TripFilter) ([]*entity.TripInstance, error)
	CancelTrip(ctx context.Context, code string) error
	DeleteTrip(ctx context.Context, code string) error
	CompleteDepartedTrips(ctx context.Context) (int, error)
}

// QRGenerator is the payment-QR collaborator. Generation failure is never
// fatal to a booking: the hold stays valid and the client can retry
// confirmation.
type QRGenerator interface {
	Generate(ctx context.Context, bookingID string, amount float64) (string, error)
}

// EventPublisher fans booking lifecycle events out to interested
// consumers. Implementations must tolerate being nil-checked away.
type EventPublisher interface {
	Publish(ctx context.Context, event *BookingEvent) error
}

// Event types published on the booking lifecycle.
const (
	EventBookingCreated   = "booking.created"
	EventBookingPaid      = "booking.paid"
	EventBookingCancelled = "booking.cancelled"
	EventRefundRequested  = "ticket.refund_requested"
	EventRefundApproved   = "ticket.refunded"
	EventRefundRejected   = "ticket.refund_rejected"
)

type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id,omitempty"`
	TicketCode string    `json:"ticket_code,omitempty"`
	TripCode   string    `json:"trip_code,omitempty"`
	Date       string    `json:"date,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Seats      []string  `json:"seats,omitempty"`
	Amount     float64   `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type CreateBookingRequest struct {
	TripCode   string   `json:"trip_code" binding:"required"`
	Date       string   `json:"date" binding:"required"`
	Seats      []string `json:"seats" binding:"required,min=1,max=5"`
	SessionID  string   `json:"session_id" binding:"required"`
	CustomerID string   `json:"-"`
}

type PaymentInfo struct {
	Amount   float64   `json:"amount"`
	Content  string    `json:"content"`
	ExpireAt time.Time `json:"expire_at"`
}

type BookingResponse struct {
	BookingID   string       `json:"booking_id"`
	TicketCodes []string     `json:"ticket_codes"`
	Seats       []string     `json:"seats"`
	Total       float64      `json:"total"`
	Status      string       `json:"status"`
	ExpiresAt   time.Time    `json:"expires_at"`
	QRCode      string       `json:"qr_code,omitempty"`
	PaymentInfo *PaymentInfo `json:"payment_info,omitempty"`
}

type PaymentResult struct {
	Invoice     *entity.Invoice  `json:"invoice"`
	Tickets     []*entity.Ticket `json:"tickets"`
	AlreadyPaid bool             `json:"already_paid"`
}

type SeatAvailability struct {
	TotalSeats   int      `json:"total_seats"`
	Booked       []string `json:"booked_seats"`
	HeldByOthers []string `json:"held_seats"`
	MyHeld       []string `json:"my_held_seats"`
	Available    []string `json:"available_seats"`
}

type CreateCancellationRequest struct {
	TicketCode    string  `json:"ticket_code" binding:"required"`
	Reason        string  `json:"reason" binding:"required"`
	Note          string  `json:"note"`
	RefundAmount  float64 `json:"refund_amount" binding:"min=0"`
	RefundPercent int     `json:"refund_percent" binding:"min=0,max=100"`
}

type ResolveCancellationRequest struct {
	Action       string `json:"action" binding:"required,oneof=approve reject"`
	RejectReason string `json:"reject_reason"`
}

type CreateTripRequest struct {
	RouteCode     string `json:"route_code" binding:"required"`
	VehicleCode   string `json:"vehicle_code" binding:"required"`
	DriverCode    string `json:"driver_code"`
	DepartureDate string `json:"departure_date" binding:"required"`
	DepartureTime string `json:"departure_time" binding:"required"`
}

type TripFilter struct {
	RouteCode string
	Date      string
	Status    entity.TripStatus
}
