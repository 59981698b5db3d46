package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KunN-21/Bus-ticket/config"
	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/service"
	"github.com/KunN-21/Bus-ticket/internal/transport"
	"github.com/KunN-21/Bus-ticket/internal/worker"

	"github.com/KunN-21/Bus-ticket/pkg/events"
	"github.com/KunN-21/Bus-ticket/pkg/redis"
	"github.com/KunN-21/Bus-ticket/pkg/vietqr"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize store
	redisClient := redis.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	store, err := database.NewRedisStore(redisClient, cfg.Booking.StoreRetries)
	if err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	tripRepo := database.NewTripRepository(store)
	routeRepo := database.NewRouteRepository(store)
	vehicleRepo := database.NewVehicleRepository(store)
	seatRepo := database.NewSeatRepository(store)
	ticketRepo := database.NewTicketRepository(store)
	invoiceRepo := database.NewInvoiceRepository(store)
	cancelRepo := database.NewCancellationRepository(store)

	// Initialize payment QR client
	var qr service.QRGenerator
	if cfg.Payment.Enabled {
		qr = vietqr.NewClient(&cfg.Payment)
		logrus.Info("VietQR payment client initialized")
	} else {
		logrus.Warn("Payment QR generation disabled")
	}

	// Initialize event publisher
	var publisher service.EventPublisher
	var amqpPublisher *events.RabbitMQPublisher
	if cfg.Events.Enabled {
		amqpPublisher, err = events.NewRabbitMQPublisher(cfg.Events.AMQPURL, cfg.Events.QueueName)
		if err != nil {
			logrus.Errorf("Failed to initialize RabbitMQ publisher: %v. Continuing without events...", err)
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
			logrus.Info("RabbitMQ event publisher initialized")
		}
	}

	// Initialize services
	registry := service.NewHoldRegistry(store, cfg.Booking.HoldDuration)
	bookingService := service.NewBookingService(registry, tripRepo, routeRepo, seatRepo, ticketRepo, invoiceRepo, qr, publisher, cfg.Booking.MaxSeats)
	availabilityService := service.NewAvailabilityService(registry, tripRepo, seatRepo, ticketRepo)
	cancellationService := service.NewCancellationService(ticketRepo, cancelRepo, publisher)
	tripService := service.NewTripService(tripRepo, routeRepo, vehicleRepo, ticketRepo)

	// Initialize trip status worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tripWorker := worker.NewTripStatusWorker(tripService, cfg.Worker.TripCompletionInterval)
	go tripWorker.Start(ctx)
	logrus.Info("Trip status worker started")

	// Initialize handlers
	bookingHandler := transport.NewBookingHandler(bookingService, availabilityService)
	tripHandler := transport.NewTripHandler(tripService)
	cancellationHandler := transport.NewCancellationHandler(cancellationService)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		router := transport.InitRoutes(bookingHandler, tripHandler, cancellationHandler, cfg.CORS.AllowedOrigins, cfg.Server.RequestTimeout)
		if err := srv.Run(cfg, router); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Print("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
