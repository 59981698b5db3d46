package database

import (
	"context"
	"errors"
	"time"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// ErrKeyNotFound is the store-level miss; repositories translate it into
// the entity-level not-found errors.
var ErrKeyNotFound = errors.New("key not found")

// UpdateFunc receives the current value of a key (nil when the key is
// absent) and returns the value to write back. Returning a nil value
// deletes the key. Returning an error aborts the update with no change.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is the narrow contract the engine needs from its backing store:
// string-keyed JSON records with optional expiry, per-collection index
// sets for enumeration, and one atomic read-modify-write primitive. Any
// store with compare-and-set and TTL semantics can implement it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Update applies fn to the key as a single atomic operation. Two
	// concurrent Updates of the same key never interleave their
	// read-modify-write cycles.
	Update(ctx context.Context, key string, ttl time.Duration, fn UpdateFunc) error

	AddToIndex(ctx context.Context, collection, member string) error
	RemoveFromIndex(ctx context.Context, collection, member string) error
	IndexMembers(ctx context.Context, collection string) ([]string, error)

	Ping(ctx context.Context) error
	Close() error
}

type TripRepository interface {
	Create(ctx context.Context, trip *entity.TripInstance) error
	GetByCode(ctx context.Context, code string) (*entity.TripInstance, error)
	Update(ctx context.Context, trip *entity.TripInstance) error
	Delete(ctx context.Context, code string) error
	GetAll(ctx context.Context) ([]*entity.TripInstance, error)
}

type RouteRepository interface {
	Create(ctx context.Context, route *entity.Route) error
	GetByCode(ctx context.Context, code string) (*entity.Route, error)
	GetAll(ctx context.Context) ([]*entity.Route, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByCode(ctx context.Context, code string) (*entity.Vehicle, error)
	GetAll(ctx context.Context) ([]*entity.Vehicle, error)
}

type SeatRepository interface {
	Create(ctx context.Context, seat *entity.Seat) error
	GetByVehicle(ctx context.Context, vehicleCode string) ([]*entity.Seat, error)
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByCode(ctx context.Context, code string) (*entity.Ticket, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	GetByCustomer(ctx context.Context, customerID string) ([]*entity.Ticket, error)
	GetByTrip(ctx context.Context, tripCode, date string) ([]*entity.Ticket, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByCode(ctx context.Context, code string) (*entity.Invoice, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error)
}

type CancellationRepository interface {
	Create(ctx context.Context, req *entity.CancellationRequest) error
	GetByCode(ctx context.Context, code string) (*entity.CancellationRequest, error)
	Update(ctx context.Context, req *entity.CancellationRequest) error
	GetByStatus(ctx context.Context, status entity.CancellationStatus) ([]*entity.CancellationRequest, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*entity.CancellationRequest, error)
}
