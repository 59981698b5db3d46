package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// Collection names. Every record lives under {collection}:{code} with an
// idx:{collection} set for enumeration.
const (
	collectionTrip    = "trip"
	collectionRoute   = "route"
	collectionVehicle = "vehicle"
	collectionSeat    = "seat"
)

func recordKey(collection, code string) string {
	return collection + ":" + code
}

func putRecord(ctx context.Context, s Store, collection, code string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s %s: %w", collection, code, err)
	}
	if err := s.Set(ctx, recordKey(collection, code), data, 0); err != nil {
		return err
	}
	return s.AddToIndex(ctx, collection, code)
}

func getRecord(ctx context.Context, s Store, collection, code string, v interface{}) error {
	data, err := s.Get(ctx, recordKey(collection, code))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

type tripRepository struct {
	store Store
}

func NewTripRepository(store Store) TripRepository {
	return &tripRepository{store: store}
}

func (r *tripRepository) Create(ctx context.Context, trip *entity.TripInstance) error {
	return putRecord(ctx, r.store, collectionTrip, trip.Code, trip)
}

func (r *tripRepository) GetByCode(ctx context.Context, code string) (*entity.TripInstance, error) {
	var trip entity.TripInstance
	if err := getRecord(ctx, r.store, collectionTrip, code, &trip); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) Update(ctx context.Context, trip *entity.TripInstance) error {
	return putRecord(ctx, r.store, collectionTrip, trip.Code, trip)
}

func (r *tripRepository) Delete(ctx context.Context, code string) error {
	if err := r.store.Delete(ctx, recordKey(collectionTrip, code)); err != nil {
		return err
	}
	return r.store.RemoveFromIndex(ctx, collectionTrip, code)
}

func (r *tripRepository) GetAll(ctx context.Context) ([]*entity.TripInstance, error) {
	codes, err := r.store.IndexMembers(ctx, collectionTrip)
	if err != nil {
		return nil, err
	}
	trips := make([]*entity.TripInstance, 0, len(codes))
	for _, code := range codes {
		trip, err := r.GetByCode(ctx, code)
		if err == entity.ErrTripNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, nil
}

type routeRepository struct {
	store Store
}

func NewRouteRepository(store Store) RouteRepository {
	return &routeRepository{store: store}
}

func (r *routeRepository) Create(ctx context.Context, route *entity.Route) error {
	return putRecord(ctx, r.store, collectionRoute, route.Code, route)
}

func (r *routeRepository) GetByCode(ctx context.Context, code string) (*entity.Route, error) {
	var route entity.Route
	if err := getRecord(ctx, r.store, collectionRoute, code, &route); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrRouteNotFound
		}
		return nil, err
	}
	return &route, nil
}

func (r *routeRepository) GetAll(ctx context.Context) ([]*entity.Route, error) {
	codes, err := r.store.IndexMembers(ctx, collectionRoute)
	if err != nil {
		return nil, err
	}
	routes := make([]*entity.Route, 0, len(codes))
	for _, code := range codes {
		route, err := r.GetByCode(ctx, code)
		if err == entity.ErrRouteNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

type vehicleRepository struct {
	store Store
}

func NewVehicleRepository(store Store) VehicleRepository {
	return &vehicleRepository{store: store}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	return putRecord(ctx, r.store, collectionVehicle, vehicle.Code, vehicle)
}

func (r *vehicleRepository) GetByCode(ctx context.Context, code string) (*entity.Vehicle, error) {
	var vehicle entity.Vehicle
	if err := getRecord(ctx, r.store, collectionVehicle, code, &vehicle); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrVehicleNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) GetAll(ctx context.Context) ([]*entity.Vehicle, error) {
	codes, err := r.store.IndexMembers(ctx, collectionVehicle)
	if err != nil {
		return nil, err
	}
	vehicles := make([]*entity.Vehicle, 0, len(codes))
	for _, code := range codes {
		vehicle, err := r.GetByCode(ctx, code)
		if err == entity.ErrVehicleNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, nil
}

// seatRepository keys seats by vehicle so the availability universe for a
// trip is one index lookup. Seats are immutable, so there is no update.
type seatRepository struct {
	store Store
}

func NewSeatRepository(store Store) SeatRepository {
	return &seatRepository{store: store}
}

func seatCollection(vehicleCode string) string {
	return collectionSeat + ":" + vehicleCode
}

func (r *seatRepository) Create(ctx context.Context, seat *entity.Seat) error {
	return putRecord(ctx, r.store, seatCollection(seat.VehicleCode), seat.Code, seat)
}

func (r *seatRepository) GetByVehicle(ctx context.Context, vehicleCode string) ([]*entity.Seat, error) {
	collection := seatCollection(vehicleCode)
	codes, err := r.store.IndexMembers(ctx, collection)
	if err != nil {
		return nil, err
	}
	seats := make([]*entity.Seat, 0, len(codes))
	for _, code := range codes {
		var seat entity.Seat
		if err := getRecord(ctx, r.store, collection, code, &seat); err != nil {
			if err == ErrKeyNotFound {
				continue
			}
			return nil, err
		}
		seats = append(seats, &seat)
	}
	return seats, nil
}
