package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

func TestCreateTrip(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	trip, err := f.trips.CreateTrip(ctx, &CreateTripRequest{
		RouteCode:     "R1",
		VehicleCode:   "V1",
		DriverCode:    "D1",
		DepartureDate: "2026-11-15",
		DepartureTime: "09:30",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, trip.Code)
	assert.Equal(t, entity.TripStatusScheduled, trip.Status)
	assert.Equal(t, 4, trip.SeatCount) // from the vehicle

	got, err := f.trips.GetTrip(ctx, trip.Code)
	require.NoError(t, err)
	assert.Equal(t, trip.Code, got.Code)
}

func TestCreateTripValidation(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateTripRequest
		want error
	}{
		{"unknown route", &CreateTripRequest{RouteCode: "R404", VehicleCode: "V1", DepartureDate: "2026-11-15", DepartureTime: "09:30"}, entity.ErrRouteNotFound},
		{"unknown vehicle", &CreateTripRequest{RouteCode: "R1", VehicleCode: "V404", DepartureDate: "2026-11-15", DepartureTime: "09:30"}, entity.ErrVehicleNotFound},
		{"bad date", &CreateTripRequest{RouteCode: "R1", VehicleCode: "V1", DepartureDate: "15/11/2026", DepartureTime: "09:30"}, entity.ErrInvalidInput},
		{"bad time", &CreateTripRequest{RouteCode: "R1", VehicleCode: "V1", DepartureDate: "2026-11-15", DepartureTime: "9am"}, entity.ErrInvalidInput},
		{"past departure", &CreateTripRequest{RouteCode: "R1", VehicleCode: "V1", DepartureDate: "2020-01-01", DepartureTime: "09:30"}, entity.ErrDeparturePast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.trips.CreateTrip(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListTripsFilter(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	_, err := f.trips.CreateTrip(ctx, &CreateTripRequest{
		RouteCode: "R1", VehicleCode: "V1", DepartureDate: "2026-11-15", DepartureTime: "09:30",
	})
	require.NoError(t, err)

	// The fixture trip plus the one above.
	all, err := f.trips.ListTrips(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byDate, err := f.trips.ListTrips(ctx, &TripFilter{Date: "2026-11-15"})
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	byStatus, err := f.trips.ListTrips(ctx, &TripFilter{Status: entity.TripStatusCancelled})
	require.NoError(t, err)
	assert.Empty(t, byStatus)
}

func TestCancelTrip(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, f.trips.CancelTrip(ctx, "LC1"))

	trip, err := f.trips.GetTrip(ctx, "LC1")
	require.NoError(t, err)
	assert.Equal(t, entity.TripStatusCancelled, trip.Status)

	// Cancelled trips take no bookings.
	_, err = f.booking.CreateBooking(ctx, bookingReq("s1", "A1"))
	assert.ErrorIs(t, err, entity.ErrTripNotBookable)

	// A second cancellation is refused.
	assert.ErrorIs(t, f.trips.CancelTrip(ctx, "LC1"), entity.ErrAlreadyProcessed)
}

func TestDeleteTripGuardedByTickets(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	paidTicket(t, f, "s1", "A1")

	err := f.trips.DeleteTrip(ctx, "LC1")
	assert.ErrorIs(t, err, entity.ErrTripHasTickets)

	// Still there.
	_, err = f.trips.GetTrip(ctx, "LC1")
	require.NoError(t, err)
}

func TestDeleteTrip(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	require.NoError(t, f.trips.DeleteTrip(ctx, "LC1"))

	_, err := f.trips.GetTrip(ctx, "LC1")
	assert.ErrorIs(t, err, entity.ErrTripNotFound)
}

func TestCompleteDepartedTrips(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()

	// Nothing has departed yet.
	completed, err := f.trips.CompleteDepartedTrips(ctx)
	require.NoError(t, err)
	assert.Zero(t, completed)

	// Rewind the fixture trip into the past.
	trip, err := f.trips.GetTrip(ctx, "LC1")
	require.NoError(t, err)
	trip.DepartureDate = "2026-01-01"
	require.NoError(t, f.tripRepo.Update(ctx, trip))

	completed, err = f.trips.CompleteDepartedTrips(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, completed)

	got, err := f.trips.GetTrip(ctx, "LC1")
	require.NoError(t, err)
	assert.Equal(t, entity.TripStatusCompleted, got.Status)

	// Idempotent on the second sweep.
	completed, err = f.trips.CompleteDepartedTrips(ctx)
	require.NoError(t, err)
	assert.Zero(t, completed)
}
