package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KunN-21/Bus-ticket/internal/entity"
	"github.com/KunN-21/Bus-ticket/internal/service"
)

type TripHandler struct {
	tripService service.TripService
}

func NewTripHandler(tripService service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req service.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: "trip created",
		Data:    trip,
	})
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	trip, err := h.tripService.GetTrip(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "trip retrieved",
		Data:    trip,
	})
}

func (h *TripHandler) ListTrips(c *gin.Context) {
	filter := &service.TripFilter{
		RouteCode: c.Query("route"),
		Date:      c.Query("date"),
	}
	if status := c.Query("status"); status != "" {
		switch entity.TripStatus(status) {
		case entity.TripStatusScheduled, entity.TripStatusCompleted, entity.TripStatusCancelled:
			filter.Status = entity.TripStatus(status)
		default:
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip status"})
			return
		}
	}
	if filter.Date != "" {
		if _, err := parseTripDate(filter.Date); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
			return
		}
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	if trips == nil {
		trips = []*entity.TripInstance{}
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "trips retrieved",
		Data:    trips,
		Meta:    map[string]interface{}{"total": len(trips)},
	})
}

func (h *TripHandler) CancelTrip(c *gin.Context) {
	code := c.Param("code")
	if err := h.tripService.CancelTrip(c.Request.Context(), code); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "trip cancelled",
		Meta:    map[string]interface{}{"trip_code": code},
	})
}

func (h *TripHandler) DeleteTrip(c *gin.Context) {
	code := c.Param("code")
	if err := h.tripService.DeleteTrip(c.Request.Context(), code); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "trip deleted",
		Meta:    map[string]interface{}{"trip_code": code},
	})
}
