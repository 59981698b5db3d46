package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Trip errors
	ErrTripNotFound    = errors.New("trip not found")
	ErrTripNotBookable = errors.New("trip is not open for booking")
	ErrTripHasTickets  = errors.New("trip has paid tickets")
	ErrRouteNotFound   = errors.New("route not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrDeparturePast   = errors.New("departure time cannot be in the past")
	ErrUnknownSeat     = errors.New("seat does not belong to the trip's vehicle")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")
	ErrHoldExpired     = errors.New("hold expired or never placed")

	// Ticket / cancellation errors
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrRequestNotFound  = errors.New("cancellation request not found")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrTicketNotPaid    = errors.New("ticket is not in paid status")
	ErrRejectReason     = errors.New("reject reason is required")

	// General errors
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden operation")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// SeatConflictError names the seats a caller lost to other live holds.
// No partial hold is ever placed when it is returned.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats held by another session: %s", strings.Join(e.Seats, ", "))
}

// IsSeatConflict unwraps err into a SeatConflictError when possible.
func IsSeatConflict(err error) (*SeatConflictError, bool) {
	var sc *SeatConflictError
	if errors.As(err, &sc) {
		return sc, true
	}
	return nil, false
}
