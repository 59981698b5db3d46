package service

import (
	"context"
	"sort"

	"github.com/KunN-21/Bus-ticket/internal/database"
)

// availabilityService is the pure read side: it never mutates anything.
type availabilityService struct {
	registry   HoldRegistry
	tripRepo   database.TripRepository
	seatRepo   database.SeatRepository
	ticketRepo database.TicketRepository
}

func NewAvailabilityService(
	registry HoldRegistry,
	tripRepo database.TripRepository,
	seatRepo database.SeatRepository,
	ticketRepo database.TicketRepository,
) AvailabilityService {
	return &availabilityService{
		registry:   registry,
		tripRepo:   tripRepo,
		seatRepo:   seatRepo,
		ticketRepo: ticketRepo,
	}
}

func (s *availabilityService) SeatAvailability(ctx context.Context, tripCode, date, sessionID string) (*SeatAvailability, error) {
	trip, err := s.tripRepo.GetByCode(ctx, tripCode)
	if err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByVehicle(ctx, trip.VehicleCode)
	if err != nil {
		return nil, err
	}
	universe := make([]string, 0, len(seats))
	for _, seat := range seats {
		universe = append(universe, seat.Code)
	}
	sort.Strings(universe)

	totalSeats := len(universe)
	if totalSeats == 0 {
		totalSeats = trip.SeatCount
	}

	tickets, err := s.ticketRepo.GetByTrip(ctx, tripCode, date)
	if err != nil {
		return nil, err
	}
	booked := map[string]struct{}{}
	for _, ticket := range tickets {
		if ticket.Status.Occupying() {
			booked[ticket.SeatCode] = struct{}{}
		}
	}

	holds, err := s.registry.Holds(ctx, tripCode, date)
	if err != nil {
		return nil, err
	}
	heldByOthers := map[string]struct{}{}
	mine := map[string]struct{}{}
	for holder, hold := range holds {
		for _, seat := range hold.Seats {
			if holder == sessionID {
				mine[seat] = struct{}{}
			} else {
				heldByOthers[seat] = struct{}{}
			}
		}
	}

	// A seat in both the booked and held sets should not exist; when it
	// does, booked wins.
	availability := &SeatAvailability{
		TotalSeats:   totalSeats,
		Booked:       []string{},
		HeldByOthers: []string{},
		MyHeld:       []string{},
		Available:    []string{},
	}
	for _, seat := range universe {
		_, isBooked := booked[seat]
		_, isHeld := heldByOthers[seat]
		_, isMine := mine[seat]

		switch {
		case isBooked:
			availability.Booked = append(availability.Booked, seat)
		case isHeld:
			availability.HeldByOthers = append(availability.HeldByOthers, seat)
		default:
			if isMine {
				availability.MyHeld = append(availability.MyHeld, seat)
			}
			availability.Available = append(availability.Available, seat)
		}
	}
	return availability, nil
}
