package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KunN-21/Bus-ticket/internal/database"
	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// cancellationService drives the slow path: a paid ticket is frozen while
// staff decide, then either released back into availability or restored.
type cancellationService struct {
	ticketRepo database.TicketRepository
	cancelRepo database.CancellationRepository
	events     EventPublisher
}

func NewCancellationService(
	ticketRepo database.TicketRepository,
	cancelRepo database.CancellationRepository,
	events EventPublisher,
) CancellationService {
	return &cancellationService{
		ticketRepo: ticketRepo,
		cancelRepo: cancelRepo,
		events:     events,
	}
}

func (s *cancellationService) CreateRequest(ctx context.Context, customerID string, req *CreateCancellationRequest) (*entity.CancellationRequest, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", entity.ErrInvalidInput)
	}

	ticket, err := s.ticketRepo.GetByCode(ctx, req.TicketCode)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != customerID {
		return nil, entity.ErrForbidden
	}
	switch ticket.Status {
	case entity.TicketStatusPaid:
	case entity.TicketStatusCancelPending:
		return nil, fmt.Errorf("%w: cancellation already requested", entity.ErrAlreadyProcessed)
	default:
		return nil, fmt.Errorf("%w: status is %s", entity.ErrTicketNotPaid, ticket.Status)
	}

	now := time.Now()
	request := &entity.CancellationRequest{
		Code:          newCode("YC"),
		TicketCode:    ticket.Code,
		CustomerID:    customerID,
		Reason:        req.Reason,
		Note:          req.Note,
		RefundAmount:  req.RefundAmount,
		RefundPercent: req.RefundPercent,
		Status:        entity.CancellationStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.cancelRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	// Freeze the ticket: not bookable, not cancellable again.
	ticket.Status = entity.TicketStatusCancelPending
	ticket.UpdatedAt = now
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.publish(ctx, &BookingEvent{
		Type:       EventRefundRequested,
		TicketCode: ticket.Code,
		TripCode:   ticket.TripCode,
		Date:       ticket.Date,
		CustomerID: customerID,
		Amount:     req.RefundAmount,
	})
	return request, nil
}

func (s *cancellationService) Resolve(ctx context.Context, requestCode string, req *ResolveCancellationRequest, staffID string) (*entity.CancellationRequest, error) {
	request, err := s.cancelRepo.GetByCode(ctx, requestCode)
	if err != nil {
		return nil, err
	}
	if request.Status != entity.CancellationStatusPending {
		return nil, fmt.Errorf("%w: request is %s", entity.ErrAlreadyProcessed, request.Status)
	}

	ticket, err := s.ticketRepo.GetByCode(ctx, request.TicketCode)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var eventType string

	switch req.Action {
	case "approve":
		// Paid seats are tracked purely by ticket status, so moving the
		// ticket off paid is all it takes to release the seat.
		if request.RefundAmount > 0 {
			ticket.Status = entity.TicketStatusRefunded
		} else {
			ticket.Status = entity.TicketStatusCancelled
		}
		request.Status = entity.CancellationStatusApproved
		eventType = EventRefundApproved
	case "reject":
		if strings.TrimSpace(req.RejectReason) == "" {
			return nil, entity.ErrRejectReason
		}
		ticket.Status = entity.TicketStatusPaid
		request.Status = entity.CancellationStatusRejected
		request.RejectReason = req.RejectReason
		eventType = EventRefundRejected
	default:
		return nil, fmt.Errorf("%w: action must be approve or reject", entity.ErrInvalidInput)
	}

	ticket.UpdatedAt = now
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	request.ResolvedBy = staffID
	request.UpdatedAt = now
	if err := s.cancelRepo.Update(ctx, request); err != nil {
		return nil, err
	}

	logrus.Infof("cancellation request %s resolved as %s by %s", request.Code, request.Status, staffID)

	s.publish(ctx, &BookingEvent{
		Type:       eventType,
		TicketCode: ticket.Code,
		TripCode:   ticket.TripCode,
		Date:       ticket.Date,
		CustomerID: request.CustomerID,
		Amount:     request.RefundAmount,
	})
	return request, nil
}

func (s *cancellationService) PendingRequests(ctx context.Context) ([]*entity.CancellationRequest, error) {
	return s.cancelRepo.GetByStatus(ctx, entity.CancellationStatusPending)
}

func (s *cancellationService) RequestsByCustomer(ctx context.Context, customerID string) ([]*entity.CancellationRequest, error) {
	return s.cancelRepo.GetByCustomer(ctx, customerID)
}

func (s *cancellationService) publish(ctx context.Context, event *BookingEvent) {
	if s.events == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = time.Now()
	if err := s.events.Publish(ctx, event); err != nil {
		logrus.Errorf("failed to publish %s event for ticket %s: %v", event.Type, event.TicketCode, err)
	}
}
