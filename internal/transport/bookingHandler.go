package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KunN-21/Bus-ticket/internal/entity"
	"github.com/KunN-21/Bus-ticket/internal/service"
	"github.com/KunN-21/Bus-ticket/internal/transport/middleware"
)

type BookingHandler struct {
	bookingService      service.BookingService
	availabilityService service.AvailabilityService
}

func NewBookingHandler(bookingService service.BookingService, availabilityService service.AvailabilityService) *BookingHandler {
	return &BookingHandler{
		bookingService:      bookingService,
		availabilityService: availabilityService,
	}
}

// CheckSeats reports the seat map of a trip on a date. The caller's
// session id, when present, lets the response distinguish its own held
// seats from other people's.
func (h *BookingHandler) CheckSeats(c *gin.Context) {
	tripCode := c.Param("code")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date query parameter is required"})
		return
	}
	if _, err := parseTripDate(date); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
		return
	}
	sessionID := c.GetHeader(middleware.HeaderSessionID)

	availability, err := h.availabilityService.SeatAvailability(c.Request.Context(), tripCode, date, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "seat availability retrieved",
		Data:    availability,
		Meta: map[string]interface{}{
			"trip_code": tripCode,
			"date":      date,
		},
	})
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	req.CustomerID = c.GetString(middleware.CustomerIDKey)
	req.SessionID = c.GetString(middleware.SessionIDKey)

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "seats held, awaiting payment",
		Data:    booking,
	})
}

func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	bookingID := c.Param("id")
	customerID := c.GetString(middleware.CustomerIDKey)

	result, err := h.bookingService.ConfirmPayment(c.Request.Context(), bookingID, customerID)
	if err != nil {
		writeError(c, err)
		return
	}

	message := "payment confirmed"
	if result.AlreadyPaid {
		message = "payment already confirmed"
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: message,
		Data:    result,
	})
}

func (h *BookingHandler) CancelPending(c *gin.Context) {
	bookingID := c.Param("id")
	customerID := c.GetString(middleware.CustomerIDKey)

	if err := h.bookingService.CancelPending(c.Request.Context(), bookingID, customerID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "booking cancelled",
		Meta:    map[string]interface{}{"booking_id": bookingID},
	})
}

func (h *BookingHandler) MyTickets(c *gin.Context) {
	customerID := c.GetString(middleware.CustomerIDKey)

	tickets, err := h.bookingService.TicketsByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if tickets == nil {
		tickets = []*entity.Ticket{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "tickets retrieved",
		Data:    tickets,
		Meta:    map[string]interface{}{"total": len(tickets)},
	})
}

func (h *BookingHandler) MyInvoices(c *gin.Context) {
	customerID := c.GetString(middleware.CustomerIDKey)

	invoices, err := h.bookingService.InvoicesByCustomer(c.Request.Context(), customerID)
	if err != nil {
		writeError(c, err)
		return
	}
	if invoices == nil {
		invoices = []*entity.Invoice{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "invoices retrieved",
		Data:    invoices,
		Meta:    map[string]interface{}{"total": len(invoices)},
	})
}
