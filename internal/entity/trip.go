package entity

import (
	"time"
)

type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

const (
	TripDateLayout = "2006-01-02"
	TripTimeLayout = "15:04"
)

// TripInstance is one bookable run: a route template bound to a vehicle,
// driver and a concrete departure date/time. Seat occupancy for a date is
// tracked against the instance, never against the route template.
type TripInstance struct {
	Code          string     `json:"code"`
	RouteCode     string     `json:"route_code"`
	VehicleCode   string     `json:"vehicle_code"`
	DriverCode    string     `json:"driver_code"`
	DepartureDate string     `json:"departure_date"`
	DepartureTime string     `json:"departure_time"`
	SeatCount     int        `json:"seat_count"`
	Status        TripStatus `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// DepartsAt combines the date and time fields into a single instant.
func (t *TripInstance) DepartsAt() (time.Time, error) {
	return time.Parse(TripDateLayout+" "+TripTimeLayout, t.DepartureDate+" "+t.DepartureTime)
}

// Route is the template a trip instance runs on. SeatPrice is the unit
// price used when a booking is created.
type Route struct {
	Code            string    `json:"code"`
	Origin          string    `json:"origin"`
	Destination     string    `json:"destination"`
	DurationMinutes int       `json:"duration_minutes"`
	SeatPrice       float64   `json:"seat_price"`
	CreatedAt       time.Time `json:"created_at"`
}
