package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

// paidTicket books and pays one seat, returning its ticket.
func paidTicket(t *testing.T, f *fixture, sessionID, seat string) *entity.Ticket {
	t.Helper()
	ctx := context.Background()

	resp, err := f.booking.CreateBooking(ctx, bookingReq(sessionID, seat))
	require.NoError(t, err)
	result, err := f.booking.ConfirmPayment(ctx, resp.BookingID, "cust-"+sessionID)
	require.NoError(t, err)
	return result.Tickets[0]
}

func TestCreateCancellationRequest(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode:    ticket.Code,
		Reason:        "missed connection",
		RefundAmount:  120,
		RefundPercent: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationStatusPending, request.Status)
	assert.Equal(t, ticket.Code, request.TicketCode)

	// The ticket is frozen while the request is pending.
	frozen, err := f.ticketRepo.GetByCode(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusCancelPending, frozen.Status)

	// A second request for the same ticket is rejected.
	_, err = f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "again",
	})
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}

func TestCreateCancellationRequestGuards(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	_, err := f.cancel.CreateRequest(ctx, "stranger", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "not mine",
	})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: "VE404",
		Reason:     "ghost",
	})
	assert.ErrorIs(t, err, entity.ErrTicketNotFound)

	_, err = f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "   ",
	})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestResolveApproveWithRefund(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode:   ticket.Code,
		Reason:       "refund me",
		RefundAmount: 150,
	})
	require.NoError(t, err)

	resolved, err := f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationStatusApproved, resolved.Status)
	assert.Equal(t, "staff-1", resolved.ResolvedBy)

	updated, err := f.ticketRepo.GetByCode(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusRefunded, updated.Status)

	// The seat is bookable again.
	_, err = f.booking.CreateBooking(ctx, bookingReq("s2", "A1"))
	require.NoError(t, err)
}

func TestResolveApproveWithoutRefund(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "no refund expected",
	})
	require.NoError(t, err)

	_, err = f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	require.NoError(t, err)

	updated, err := f.ticketRepo.GetByCode(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusCancelled, updated.Status)
}

func TestResolveReject(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "please",
	})
	require.NoError(t, err)

	// Reject without a reason is refused.
	_, err = f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "reject"}, "staff-1")
	assert.ErrorIs(t, err, entity.ErrRejectReason)

	resolved, err := f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{
		Action:       "reject",
		RejectReason: "outside refund window",
	}, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, entity.CancellationStatusRejected, resolved.Status)
	assert.Equal(t, "outside refund window", resolved.RejectReason)

	// The ticket goes back to paid and keeps blocking its seat.
	updated, err := f.ticketRepo.GetByCode(ctx, ticket.Code)
	require.NoError(t, err)
	assert.Equal(t, entity.TicketStatusPaid, updated.Status)
}

func TestResolveTwiceRejected(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode:   ticket.Code,
		Reason:       "once",
		RefundAmount: 150,
	})
	require.NoError(t, err)

	_, err = f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	require.NoError(t, err)

	_, err = f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-2")
	assert.ErrorIs(t, err, entity.ErrAlreadyProcessed)
}

func TestResolveUnknownRequest(t *testing.T) {
	f := newFixture(t, time.Minute, nil)

	_, err := f.cancel.Resolve(context.Background(), "YC404", &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	assert.ErrorIs(t, err, entity.ErrRequestNotFound)
}

func TestPendingAndCustomerRequests(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")
	other := paidTicket(t, f, "s2", "A2")

	first, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode: ticket.Code,
		Reason:     "mine",
	})
	require.NoError(t, err)
	_, err = f.cancel.CreateRequest(ctx, "cust-s2", &CreateCancellationRequest{
		TicketCode: other.Code,
		Reason:     "theirs",
	})
	require.NoError(t, err)

	pending, err := f.cancel.PendingRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = f.cancel.Resolve(ctx, first.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	require.NoError(t, err)

	pending, err = f.cancel.PendingRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	mine, err := f.cancel.RequestsByCustomer(ctx, "cust-s1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.Code, mine[0].Code)
}

func TestEventsOnCancellationFlow(t *testing.T) {
	f := newFixture(t, time.Minute, nil)
	ctx := context.Background()
	ticket := paidTicket(t, f, "s1", "A1")

	request, err := f.cancel.CreateRequest(ctx, "cust-s1", &CreateCancellationRequest{
		TicketCode:   ticket.Code,
		Reason:       "events please",
		RefundAmount: 150,
	})
	require.NoError(t, err)
	_, err = f.cancel.Resolve(ctx, request.Code, &ResolveCancellationRequest{Action: "approve"}, "staff-1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		EventBookingCreated,
		EventBookingPaid,
		EventRefundRequested,
		EventRefundApproved,
	}, f.events.types())
}
