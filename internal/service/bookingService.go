package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/entity"
)

type bookingService struct {
	registry    HoldRegistry
	tripRepo    database.TripRepository
	routeRepo   database.RouteRepository
	seatRepo    database.SeatRepository
	ticketRepo  database.TicketRepository
	invoiceRepo database.InvoiceRepository
	qr          QRGenerator
	events      EventPublisher
	maxSeats    int
}

// NewBookingService wires the booking lifecycle: create places a hold,
// confirm promotes it into tickets plus an invoice, cancel releases it.
// qr and events are optional collaborators and may be nil.
func NewBookingService(
	registry HoldRegistry,
	tripRepo database.TripRepository,
	routeRepo database.RouteRepository,
	seatRepo database.SeatRepository,
	ticketRepo database.TicketRepository,
	invoiceRepo database.InvoiceRepository,
	qr QRGenerator,
	events EventPublisher,
	maxSeats int,
) BookingService {
	if maxSeats <= 0 {
		maxSeats = 5
	}
	return &bookingService{
		registry:    registry,
		tripRepo:    tripRepo,
		routeRepo:   routeRepo,
		seatRepo:    seatRepo,
		ticketRepo:  ticketRepo,
		invoiceRepo: invoiceRepo,
		qr:          qr,
		events:      events,
		maxSeats:    maxSeats,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*BookingResponse, error) {
	if len(req.Seats) == 0 {
		return nil, fmt.Errorf("%w: no seats selected", entity.ErrInvalidInput)
	}
	if len(req.Seats) > s.maxSeats {
		return nil, fmt.Errorf("%w: at most %d seats per booking", entity.ErrInvalidInput, s.maxSeats)
	}
	seen := map[string]struct{}{}
	for _, seat := range req.Seats {
		if _, dup := seen[seat]; dup {
			return nil, fmt.Errorf("%w: duplicate seat %s", entity.ErrInvalidInput, seat)
		}
		seen[seat] = struct{}{}
	}

	trip, err := s.tripRepo.GetByCode(ctx, req.TripCode)
	if err != nil {
		return nil, err
	}
	if trip.Status != entity.TripStatusScheduled {
		return nil, entity.ErrTripNotBookable
	}
	if req.Date != trip.DepartureDate {
		return nil, fmt.Errorf("%w: trip %s departs on %s", entity.ErrInvalidInput, trip.Code, trip.DepartureDate)
	}
	if departsAt, err := trip.DepartsAt(); err == nil && time.Now().After(departsAt) {
		return nil, entity.ErrTripNotBookable
	}

	seats, err := s.seatRepo.GetByVehicle(ctx, trip.VehicleCode)
	if err != nil {
		return nil, err
	}
	known := map[string]struct{}{}
	for _, seat := range seats {
		known[seat.Code] = struct{}{}
	}
	for _, seat := range req.Seats {
		if _, ok := known[seat]; !ok {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnknownSeat, seat)
		}
	}

	// Seats already sold (or frozen by a pending refund) conflict the same
	// way held seats do.
	tickets, err := s.ticketRepo.GetByTrip(ctx, trip.Code, req.Date)
	if err != nil {
		return nil, err
	}
	sold := map[string]struct{}{}
	for _, ticket := range tickets {
		if ticket.Status.Occupying() {
			sold[ticket.SeatCode] = struct{}{}
		}
	}
	var soldConflicts []string
	for _, seat := range req.Seats {
		if _, taken := sold[seat]; taken {
			soldConflicts = append(soldConflicts, seat)
		}
	}
	if len(soldConflicts) > 0 {
		sort.Strings(soldConflicts)
		return nil, &entity.SeatConflictError{Seats: soldConflicts}
	}

	route, err := s.routeRepo.GetByCode(ctx, trip.RouteCode)
	if err != nil {
		return nil, err
	}
	total := route.SeatPrice * float64(len(req.Seats))

	bookingID := newCode("HD")
	ticketCodes := make([]string, len(req.Seats))
	for i := range req.Seats {
		ticketCodes[i] = newCode("VE")
	}

	stored, err := s.registry.PlaceHold(ctx, entity.Hold{
		BookingID:   bookingID,
		SessionID:   req.SessionID,
		CustomerID:  req.CustomerID,
		TripCode:    trip.Code,
		Date:        req.Date,
		Seats:       req.Seats,
		TicketCodes: ticketCodes,
		Amount:      total,
	})
	if err != nil {
		return nil, err
	}

	resp := &BookingResponse{
		BookingID:   bookingID,
		TicketCodes: ticketCodes,
		Seats:       req.Seats,
		Total:       total,
		Status:      "pending",
		ExpiresAt:   stored.ExpiresAt,
		PaymentInfo: &PaymentInfo{
			Amount:   total,
			Content:  "VOOBUS " + bookingID,
			ExpireAt: stored.ExpiresAt,
		},
	}

	// QR failure must not undo a successfully placed hold: the seats stay
	// reserved for the expiry window and the client may retry payment.
	if s.qr != nil {
		qrCode, err := s.qr.Generate(ctx, bookingID, total)
		if err != nil {
			logrus.Warnf("payment QR generation failed for booking %s: %v", bookingID, err)
		} else {
			resp.QRCode = qrCode
		}
	}

	s.publish(ctx, &BookingEvent{
		Type:       EventBookingCreated,
		BookingID:  bookingID,
		TripCode:   trip.Code,
		Date:       req.Date,
		CustomerID: req.CustomerID,
		Seats:      req.Seats,
		Amount:     total,
	})

	return resp, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, bookingID, customerID string) (*PaymentResult, error) {
	// Idempotency first: a booking that already became an invoice is
	// returned unchanged, never re-charged.
	if result, err := s.existingPayment(ctx, bookingID, customerID); err != nil || result != nil {
		return result, err
	}

	hold, err := s.registry.HoldByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if hold == nil {
		return s.lostHold(ctx, bookingID, customerID)
	}
	if hold.CustomerID != customerID {
		return nil, entity.ErrForbidden
	}

	promoted, err := s.registry.PromoteHold(ctx, hold.TripCode, hold.Date, hold.SessionID)
	if err == entity.ErrHoldExpired {
		return s.lostHold(ctx, bookingID, customerID)
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	invoice := &entity.Invoice{
		Code:          promoted.BookingID,
		CustomerID:    promoted.CustomerID,
		Total:         promoted.Amount,
		PaymentMethod: "online",
		TicketCodes:   promoted.TicketCodes,
		IssuedAt:      now,
	}
	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	tickets := make([]*entity.Ticket, len(promoted.Seats))
	for i, seat := range promoted.Seats {
		ticket := &entity.Ticket{
			Code:        promoted.TicketCodes[i],
			TripCode:    promoted.TripCode,
			Date:        promoted.Date,
			CustomerID:  promoted.CustomerID,
			SeatCode:    seat,
			InvoiceCode: invoice.Code,
			Status:      entity.TicketStatusPaid,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.ticketRepo.Create(ctx, ticket); err != nil {
			return nil, err
		}
		tickets[i] = ticket
	}

	logrus.Infof("booking %s confirmed: %d tickets, total %.0f", bookingID, len(tickets), invoice.Total)

	s.publish(ctx, &BookingEvent{
		Type:       EventBookingPaid,
		BookingID:  bookingID,
		TripCode:   promoted.TripCode,
		Date:       promoted.Date,
		CustomerID: customerID,
		Seats:      promoted.Seats,
		Amount:     promoted.Amount,
	})

	return &PaymentResult{Invoice: invoice, Tickets: tickets}, nil
}

// existingPayment returns the stored invoice and tickets when the booking
// was already confirmed, nil when it was not.
func (s *bookingService) existingPayment(ctx context.Context, bookingID, customerID string) (*PaymentResult, error) {
	invoice, err := s.invoiceRepo.GetByCode(ctx, bookingID)
	if err == entity.ErrBookingNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if invoice.CustomerID != customerID {
		return nil, entity.ErrForbidden
	}

	tickets := make([]*entity.Ticket, 0, len(invoice.TicketCodes))
	for _, code := range invoice.TicketCodes {
		ticket, err := s.ticketRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return &PaymentResult{Invoice: invoice, Tickets: tickets, AlreadyPaid: true}, nil
}

// lostHold handles the hold being gone: either a concurrent duplicate
// confirmation won the promotion (return its result) or the hold truly
// expired. The caller must restart from create, the seats may be someone
// else's now, so no automatic retry.
func (s *bookingService) lostHold(ctx context.Context, bookingID, customerID string) (*PaymentResult, error) {
	result, err := s.existingPayment(ctx, bookingID, customerID)
	if err != nil || result != nil {
		return result, err
	}
	return nil, entity.ErrHoldExpired
}

func (s *bookingService) CancelPending(ctx context.Context, bookingID, customerID string) error {
	if _, err := s.invoiceRepo.GetByCode(ctx, bookingID); err == nil {
		return fmt.Errorf("%w: booking already paid", entity.ErrAlreadyProcessed)
	} else if err != entity.ErrBookingNotFound {
		return err
	}

	hold, err := s.registry.HoldByBookingID(ctx, bookingID)
	if err != nil {
		return err
	}
	if hold == nil {
		// Nothing to release: the hold expired or was never placed.
		return nil
	}
	if hold.CustomerID != customerID {
		return entity.ErrForbidden
	}

	// Release the hold's owning session, not the caller's. The same
	// customer can hold bookings on one trip under several sessions.
	if err := s.registry.ReleaseHold(ctx, hold.TripCode, hold.Date, hold.SessionID); err != nil {
		return err
	}

	s.publish(ctx, &BookingEvent{
		Type:       EventBookingCancelled,
		BookingID:  bookingID,
		TripCode:   hold.TripCode,
		Date:       hold.Date,
		CustomerID: customerID,
		Seats:      hold.Seats,
	})
	return nil
}

func (s *bookingService) TicketsByCustomer(ctx context.Context, customerID string) ([]*entity.Ticket, error) {
	return s.ticketRepo.GetByCustomer(ctx, customerID)
}

func (s *bookingService) InvoicesByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	return s.invoiceRepo.GetByCustomer(ctx, customerID)
}

func (s *bookingService) publish(ctx context.Context, event *BookingEvent) {
	if s.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now()
	if err := s.events.Publish(ctx, event); err != nil {
		logrus.Errorf("failed to publish %s event for %s: %v", event.Type, event.BookingID, err)
	}
}
