package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/entity"
	"github.com/KunN-21/Bus-ticket/internal/service"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	store := database.NewMemoryStore()
	tripRepo := database.NewTripRepository(store)
	routeRepo := database.NewRouteRepository(store)
	vehicleRepo := database.NewVehicleRepository(store)
	seatRepo := database.NewSeatRepository(store)
	ticketRepo := database.NewTicketRepository(store)
	invoiceRepo := database.NewInvoiceRepository(store)
	cancelRepo := database.NewCancellationRepository(store)

	require.NoError(t, routeRepo.Create(ctx, &entity.Route{Code: "R1", Origin: "Hanoi", Destination: "Sapa", SeatPrice: 150}))
	require.NoError(t, vehicleRepo.Create(ctx, &entity.Vehicle{Code: "V1", PlateNumber: "29A-12345", SeatCount: 2}))
	require.NoError(t, seatRepo.Create(ctx, &entity.Seat{VehicleCode: "V1", Code: "A1"}))
	require.NoError(t, seatRepo.Create(ctx, &entity.Seat{VehicleCode: "V1", Code: "A2"}))
	require.NoError(t, tripRepo.Create(ctx, &entity.TripInstance{
		Code: "LC1", RouteCode: "R1", VehicleCode: "V1",
		DepartureDate: "2026-10-01", DepartureTime: "08:00",
		SeatCount: 2, Status: entity.TripStatusScheduled,
	}))

	registry := service.NewHoldRegistry(store, time.Minute)
	bookingService := service.NewBookingService(registry, tripRepo, routeRepo, seatRepo, ticketRepo, invoiceRepo, nil, nil, 5)
	availabilityService := service.NewAvailabilityService(registry, tripRepo, seatRepo, ticketRepo)
	cancellationService := service.NewCancellationService(ticketRepo, cancelRepo, nil)
	tripService := service.NewTripService(tripRepo, routeRepo, vehicleRepo, ticketRepo)

	return InitRoutes(
		NewBookingHandler(bookingService, availabilityService),
		NewTripHandler(tripService),
		NewCancellationHandler(cancellationService),
		nil,
		30,
	)
}

func doJSON(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func customerHeaders(customer, session string) map[string]string {
	return map[string]string{
		"X-Customer-Id": customer,
		"X-Session-Id":  session,
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckSeatsEndpoint(t *testing.T) {
	router := testRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/trips/LC1/seats?date=2026-10-01", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data service.SeatAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalSeats)
	assert.Equal(t, []string{"A1", "A2"}, resp.Data.Available)

	// Missing date is a 400, unknown trip a 404.
	w = doJSON(router, http.MethodGet, "/api/v1/trips/LC1/seats", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/trips/LC404/seats?date=2026-10-01", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingRequiresIdentity(t *testing.T) {
	router := testRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"trip_code": "LC1", "date": "2026-10-01", "seats": []string{"A1"}, "session_id": "s1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	router := testRouter(t)
	headers := customerHeaders("cust-1", "s1")

	w := doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"trip_code": "LC1", "date": "2026-10-01", "seats": []string{"A1"}, "session_id": "s1",
	}, headers)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data service.BookingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	bookingID := created.Data.BookingID
	require.NotEmpty(t, bookingID)

	// A second session loses the seat with a 409 naming it.
	w = doJSON(router, http.MethodPost, "/api/v1/bookings", gin.H{
		"trip_code": "LC1", "date": "2026-10-01", "seats": []string{"A1"}, "session_id": "s2",
	}, customerHeaders("cust-2", "s2"))
	require.Equal(t, http.StatusConflict, w.Code)

	var conflict ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, []string{"A1"}, conflict.Seats)

	// Confirm, then confirm again: identical 200s.
	w = doJSON(router, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment/confirm", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment/confirm", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	// Someone else's confirm is forbidden.
	w = doJSON(router, http.MethodPost, "/api/v1/bookings/"+bookingID+"/payment/confirm", nil, customerHeaders("cust-2", "s2"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Tickets show up under the customer.
	w = doJSON(router, http.MethodGet, "/api/v1/bookings/my-tickets", nil, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var tickets struct {
		Data []*entity.Ticket `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tickets))
	assert.Len(t, tickets.Data, 1)
}

func TestConfirmUnknownBooking(t *testing.T) {
	router := testRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/bookings/HD404/payment/confirm", nil, customerHeaders("cust-1", "s1"))
	assert.Equal(t, http.StatusGone, w.Code)
}

func TestAdminRequiresStaffIdentity(t *testing.T) {
	router := testRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/admin/cancel-requests", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/admin/cancel-requests", nil, map[string]string{"X-Staff-Id": "staff-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminTripEndpoints(t *testing.T) {
	router := testRouter(t)
	staff := map[string]string{"X-Staff-Id": "staff-1"}

	w := doJSON(router, http.MethodPost, "/api/v1/admin/trips", gin.H{
		"route_code": "R1", "vehicle_code": "V1",
		"departure_date": "2026-11-15", "departure_time": "09:30",
	}, staff)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data entity.TripInstance `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(router, http.MethodPost, "/api/v1/admin/trips/"+created.Data.Code+"/cancel", nil, staff)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/v1/admin/trips/"+created.Data.Code, nil, staff)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/trips/"+created.Data.Code, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
