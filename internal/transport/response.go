package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Seats   []string `json:"conflicting_seats,omitempty"`
}

// writeError translates domain errors into HTTP statuses. Seat conflicts
// carry the conflicting seat codes so the client can redraw the seat map.
func writeError(c *gin.Context, err error) {
	var conflict *entity.SeatConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: conflict.Error(),
			Seats: conflict.Seats,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrDeparturePast),
		errors.Is(err, entity.ErrUnknownSeat),
		errors.Is(err, entity.ErrRejectReason),
		errors.Is(err, entity.ErrTripNotBookable):
		status = http.StatusBadRequest
	case errors.Is(err, entity.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, entity.ErrTripNotFound),
		errors.Is(err, entity.ErrRouteNotFound),
		errors.Is(err, entity.ErrVehicleNotFound),
		errors.Is(err, entity.ErrBookingNotFound),
		errors.Is(err, entity.ErrTicketNotFound),
		errors.Is(err, entity.ErrRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, entity.ErrAlreadyProcessed),
		errors.Is(err, entity.ErrTicketNotPaid),
		errors.Is(err, entity.ErrTripHasTickets):
		status = http.StatusConflict
	case errors.Is(err, entity.ErrHoldExpired):
		status = http.StatusGone
	case errors.Is(err, entity.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ErrorResponse{Error: err.Error()})
}
