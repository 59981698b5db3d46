package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/entity"
)

type tripService struct {
	tripRepo    database.TripRepository
	routeRepo   database.RouteRepository
	vehicleRepo database.VehicleRepository
	ticketRepo  database.TicketRepository
}

func NewTripService(
	tripRepo database.TripRepository,
	routeRepo database.RouteRepository,
	vehicleRepo database.VehicleRepository,
	ticketRepo database.TicketRepository,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		routeRepo:   routeRepo,
		vehicleRepo: vehicleRepo,
		ticketRepo:  ticketRepo,
	}
}

func (s *tripService) CreateTrip(ctx context.Context, req *CreateTripRequest) (*entity.TripInstance, error) {
	if _, err := s.routeRepo.GetByCode(ctx, req.RouteCode); err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByCode(ctx, req.VehicleCode)
	if err != nil {
		return nil, err
	}

	if _, err := time.Parse(entity.TripDateLayout, req.DepartureDate); err != nil {
		return nil, fmt.Errorf("%w: departure_date must be YYYY-MM-DD", entity.ErrInvalidInput)
	}
	if _, err := time.Parse(entity.TripTimeLayout, req.DepartureTime); err != nil {
		return nil, fmt.Errorf("%w: departure_time must be HH:MM", entity.ErrInvalidInput)
	}

	now := time.Now()
	trip := &entity.TripInstance{
		Code:          newCode("LC"),
		RouteCode:     req.RouteCode,
		VehicleCode:   req.VehicleCode,
		DriverCode:    req.DriverCode,
		DepartureDate: req.DepartureDate,
		DepartureTime: req.DepartureTime,
		SeatCount:     vehicle.SeatCount,
		Status:        entity.TripStatusScheduled,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	departsAt, err := trip.DepartsAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}
	if !departsAt.After(now) {
		return nil, entity.ErrDeparturePast
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}
	logrus.Infof("trip %s created: route %s, vehicle %s, departs %s %s",
		trip.Code, trip.RouteCode, trip.VehicleCode, trip.DepartureDate, trip.DepartureTime)
	return trip, nil
}

func (s *tripService) GetTrip(ctx context.Context, code string) (*entity.TripInstance, error) {
	return s.tripRepo.GetByCode(ctx, code)
}

func (s *tripService) ListTrips(ctx context.Context, filter *TripFilter) ([]*entity.TripInstance, error) {
	trips, err := s.tripRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return trips, nil
	}

	out := make([]*entity.TripInstance, 0, len(trips))
	for _, trip := range trips {
		if filter.RouteCode != "" && trip.RouteCode != filter.RouteCode {
			continue
		}
		if filter.Date != "" && trip.DepartureDate != filter.Date {
			continue
		}
		if filter.Status != "" && trip.Status != filter.Status {
			continue
		}
		out = append(out, trip)
	}
	return out, nil
}

func (s *tripService) CancelTrip(ctx context.Context, code string) error {
	trip, err := s.tripRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if trip.Status != entity.TripStatusScheduled {
		return fmt.Errorf("%w: trip is %s", entity.ErrAlreadyProcessed, trip.Status)
	}
	trip.Status = entity.TripStatusCancelled
	trip.UpdatedAt = time.Now()
	return s.tripRepo.Update(ctx, trip)
}

// DeleteTrip removes a trip record outright. Trips with live tickets
// cannot be deleted, only cancelled.
func (s *tripService) DeleteTrip(ctx context.Context, code string) error {
	trip, err := s.tripRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	tickets, err := s.ticketRepo.GetByTrip(ctx, trip.Code, trip.DepartureDate)
	if err != nil {
		return err
	}
	for _, ticket := range tickets {
		if ticket.Status.Occupying() {
			return entity.ErrTripHasTickets
		}
	}
	return s.tripRepo.Delete(ctx, trip.Code)
}

// CompleteDepartedTrips flips scheduled trips whose departure instant has
// passed to completed. The worker calls this on a timer.
func (s *tripService) CompleteDepartedTrips(ctx context.Context) (int, error) {
	trips, err := s.tripRepo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	completed := 0
	for _, trip := range trips {
		if trip.Status != entity.TripStatusScheduled {
			continue
		}
		departsAt, err := trip.DepartsAt()
		if err != nil {
			logrus.Warnf("trip %s has unparseable departure %q %q: %v",
				trip.Code, trip.DepartureDate, trip.DepartureTime, err)
			continue
		}
		if departsAt.After(now) {
			continue
		}
		trip.Status = entity.TripStatusCompleted
		trip.UpdatedAt = now
		if err := s.tripRepo.Update(ctx, trip); err != nil {
			return completed, err
		}
		completed++
	}
	return completed, nil
}
