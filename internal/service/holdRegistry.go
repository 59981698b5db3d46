package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// seatHoldRegistry keeps one hold-set record per (trip, date) under
// hold:{trip}:{date}, the whole record expiring after the hold duration so
// an abandoned trip key cleans itself up. A secondary holdref:{bookingID}
// key with the same TTL gives O(1) lookup by booking id.
//
// All mutation goes through Store.Update, so two concurrent placements for
// overlapping seats on the same trip can never both succeed.
type seatHoldRegistry struct {
	store        database.Store
	holdDuration time.Duration
}

func NewHoldRegistry(store database.Store, holdDuration time.Duration) HoldRegistry {
	return &seatHoldRegistry{store: store, holdDuration: holdDuration}
}

func holdKey(tripCode, date string) string {
	return fmt.Sprintf("hold:%s:%s", tripCode, date)
}

func holdRefKey(bookingID string) string {
	return "holdref:" + bookingID
}

func decodeHoldSet(data []byte) (entity.HoldSet, error) {
	set := entity.HoldSet{}
	if len(data) == 0 {
		return set, nil
	}
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode hold set: %w", err)
	}
	return set, nil
}

// pruneExpired drops entries whose own deadline has passed. The key TTL is
// refreshed by every write to the shared set, so without this an early
// hold could ride on a later session's TTL.
func pruneExpired(set entity.HoldSet, now time.Time) {
	for sessionID, hold := range set {
		if hold.Expired(now) {
			delete(set, sessionID)
		}
	}
}

func (r *seatHoldRegistry) PlaceHold(ctx context.Context, hold entity.Hold) (*entity.Hold, error) {
	if len(hold.Seats) == 0 {
		return nil, fmt.Errorf("%w: empty seat list", entity.ErrInvalidInput)
	}

	var stored entity.Hold
	key := holdKey(hold.TripCode, hold.Date)

	err := r.store.Update(ctx, key, r.holdDuration, func(current []byte) ([]byte, error) {
		set, err := decodeHoldSet(current)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		pruneExpired(set, now)

		// Conflict check excludes the caller's own prior hold, so a
		// session re-submitting the same trip simply replaces it.
		conflictSet := map[string]struct{}{}
		for sessionID, other := range set {
			if sessionID == hold.SessionID {
				continue
			}
			for _, seat := range hold.Seats {
				for _, taken := range other.Seats {
					if seat == taken {
						conflictSet[seat] = struct{}{}
					}
				}
			}
		}
		if len(conflictSet) > 0 {
			conflicts := make([]string, 0, len(conflictSet))
			for seat := range conflictSet {
				conflicts = append(conflicts, seat)
			}
			sort.Strings(conflicts)
			return nil, &entity.SeatConflictError{Seats: conflicts}
		}

		hold.CreatedAt = now
		hold.ExpiresAt = now.Add(r.holdDuration)
		stored = hold
		set[hold.SessionID] = hold
		return json.Marshal(set)
	})
	if err != nil {
		return nil, err
	}

	ref, err := json.Marshal(entity.HoldRef{
		TripCode:   hold.TripCode,
		Date:       hold.Date,
		SessionID:  hold.SessionID,
		CustomerID: hold.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	// Same TTL as the hold set: the index must never outlive its target.
	if err := r.store.Set(ctx, holdRefKey(hold.BookingID), ref, r.holdDuration); err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *seatHoldRegistry) ReleaseHold(ctx context.Context, tripCode, date, sessionID string) error {
	var bookingID string

	err := r.store.Update(ctx, holdKey(tripCode, date), r.holdDuration, func(current []byte) ([]byte, error) {
		set, err := decodeHoldSet(current)
		if err != nil {
			return nil, err
		}
		if hold, ok := set[sessionID]; ok {
			bookingID = hold.BookingID
			delete(set, sessionID)
		}
		pruneExpired(set, time.Now())
		if len(set) == 0 {
			return nil, nil
		}
		return json.Marshal(set)
	})
	if err != nil {
		return err
	}

	if bookingID != "" {
		return r.store.Delete(ctx, holdRefKey(bookingID))
	}
	return nil
}

func (r *seatHoldRegistry) Holds(ctx context.Context, tripCode, date string) (entity.HoldSet, error) {
	data, err := r.store.Get(ctx, holdKey(tripCode, date))
	if err == database.ErrKeyNotFound {
		return entity.HoldSet{}, nil
	}
	if err != nil {
		return nil, err
	}
	set, err := decodeHoldSet(data)
	if err != nil {
		return nil, err
	}
	pruneExpired(set, time.Now())
	return set, nil
}

func (r *seatHoldRegistry) HeldSeats(ctx context.Context, tripCode, date string) ([]string, error) {
	set, err := r.Holds(ctx, tripCode, date)
	if err != nil {
		return nil, err
	}
	var seats []string
	for _, hold := range set {
		seats = append(seats, hold.Seats...)
	}
	sort.Strings(seats)
	return seats, nil
}

func (r *seatHoldRegistry) HoldBySession(ctx context.Context, tripCode, date, sessionID string) (*entity.Hold, error) {
	set, err := r.Holds(ctx, tripCode, date)
	if err != nil {
		return nil, err
	}
	if hold, ok := set[sessionID]; ok {
		return &hold, nil
	}
	return nil, nil
}

func (r *seatHoldRegistry) HoldByBookingID(ctx context.Context, bookingID string) (*entity.Hold, error) {
	data, err := r.store.Get(ctx, holdRefKey(bookingID))
	if err == database.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ref entity.HoldRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, fmt.Errorf("decode hold ref: %w", err)
	}

	hold, err := r.HoldBySession(ctx, ref.TripCode, ref.Date, ref.SessionID)
	if err != nil {
		return nil, err
	}
	if hold == nil || hold.BookingID != bookingID {
		// Index entry outlived its hold by a hair, or the session placed
		// a newer booking on the same trip.
		return nil, nil
	}
	return hold, nil
}

func (r *seatHoldRegistry) PromoteHold(ctx context.Context, tripCode, date, sessionID string) (*entity.Hold, error) {
	var promoted *entity.Hold

	err := r.store.Update(ctx, holdKey(tripCode, date), r.holdDuration, func(current []byte) ([]byte, error) {
		set, err := decodeHoldSet(current)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		pruneExpired(set, now)

		hold, ok := set[sessionID]
		if !ok {
			return nil, entity.ErrHoldExpired
		}
		promoted = &hold
		delete(set, sessionID)

		if len(set) == 0 {
			return nil, nil
		}
		return json.Marshal(set)
	})
	if err != nil {
		return nil, err
	}

	if err := r.store.Delete(ctx, holdRefKey(promoted.BookingID)); err != nil {
		return nil, err
	}
	return promoted, nil
}
