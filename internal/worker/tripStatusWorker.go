package worker

import (
	"context"
	"time"

	"github.com/KunN-21/Bus-ticket/internal/service"

	"github.com/sirupsen/logrus"
)

// TripStatusWorker periodically marks departed trips completed. Seat
// hold expiry needs no sweep, it is handled by key TTLs in the store.
type TripStatusWorker struct {
	tripService service.TripService
	interval    time.Duration
}

func NewTripStatusWorker(tripService service.TripService, interval time.Duration) *TripStatusWorker {
	return &TripStatusWorker{
		tripService: tripService,
		interval:    interval,
	}
}

func (w *TripStatusWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logrus.Info("Trip status worker started")

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Trip status worker stopped")
			return
		case <-ticker.C:
			w.completeDepartedTrips(ctx)
		}
	}
}

func (w *TripStatusWorker) completeDepartedTrips(ctx context.Context) {
	completed, err := w.tripService.CompleteDepartedTrips(ctx)
	if err != nil {
		logrus.Errorf("Failed to complete departed trips: %v", err)
		return
	}
	if completed > 0 {
		logrus.Infof("Marked %d departed trips completed", completed)
	}
}
