package transport

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KunN-21/Bus-ticket/internal/entity"
	"github.com/KunN-21/Bus-ticket/internal/transport/middleware"
)

func parseTripDate(date string) (time.Time, error) {
	return time.Parse(entity.TripDateLayout, date)
}

func InitRoutes(
	bookingHandler *BookingHandler,
	tripHandler *TripHandler,
	cancellationHandler *CancellationHandler,
	allowedOrigins []string,
	requestTimeout int,
) *gin.Engine {

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(requestTimeout))

	// API routes
	api := router.Group("/api/v1")
	{
		// Trip routes, seat map is public
		trips := api.Group("/trips")
		{
			trips.GET("", tripHandler.ListTrips)
			trips.GET("/:code", tripHandler.GetTrip)
			trips.GET("/:code/seats", bookingHandler.CheckSeats)
		}

		// Booking routes, customer identity required
		bookings := api.Group("/bookings", middleware.CustomerIdentity())
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.POST("/:id/payment/confirm", bookingHandler.ConfirmPayment)
			bookings.POST("/:id/payment/cancel", bookingHandler.CancelPending)
			bookings.GET("/my-tickets", bookingHandler.MyTickets)
			bookings.GET("/my-invoices", bookingHandler.MyInvoices)
			bookings.POST("/cancel-requests", cancellationHandler.CreateRequest)
			bookings.GET("/cancel-requests", cancellationHandler.MyRequests)
		}

		// Admin routes, staff identity required
		admin := api.Group("/admin", middleware.StaffIdentity())
		{
			admin.POST("/trips", tripHandler.CreateTrip)
			admin.POST("/trips/:code/cancel", tripHandler.CancelTrip)
			admin.DELETE("/trips/:code", tripHandler.DeleteTrip)
			admin.GET("/cancel-requests", cancellationHandler.PendingRequests)
			admin.POST("/cancel-requests/:code/resolve", cancellationHandler.ResolveRequest)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}
