package entity

import "time"

type Vehicle struct {
	Code        string    `json:"code"`
	PlateNumber string    `json:"plate_number"`
	SeatCount   int       `json:"seat_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Seat is structural: it belongs to exactly one vehicle and its code is
// unique within that vehicle. Occupancy is tracked per trip instance, so a
// seat record never changes after creation.
type Seat struct {
	VehicleCode string `json:"vehicle_code"`
	Code        string `json:"code"`
	Floor       int    `json:"floor,omitempty"`
}
