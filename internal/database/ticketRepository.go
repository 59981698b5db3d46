package database

import (
	"context"

	"github.com/KunN-21/Bus-ticket/internal/entity"
)

const (
	collectionTicket       = "ticket"
	collectionInvoice      = "invoice"
	collectionCancellation = "cancelreq"
)

type ticketRepository struct {
	store Store
}

func NewTicketRepository(store Store) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	return putRecord(ctx, r.store, collectionTicket, ticket.Code, ticket)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*entity.Ticket, error) {
	var ticket entity.Ticket
	if err := getRecord(ctx, r.store, collectionTicket, code, &ticket); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *entity.Ticket) error {
	return putRecord(ctx, r.store, collectionTicket, ticket.Code, ticket)
}

func (r *ticketRepository) getAll(ctx context.Context) ([]*entity.Ticket, error) {
	codes, err := r.store.IndexMembers(ctx, collectionTicket)
	if err != nil {
		return nil, err
	}
	tickets := make([]*entity.Ticket, 0, len(codes))
	for _, code := range codes {
		ticket, err := r.GetByCode(ctx, code)
		if err == entity.ErrTicketNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

func (r *ticketRepository) GetByCustomer(ctx context.Context, customerID string) ([]*entity.Ticket, error) {
	all, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	var tickets []*entity.Ticket
	for _, t := range all {
		if t.CustomerID == customerID {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

func (r *ticketRepository) GetByTrip(ctx context.Context, tripCode, date string) ([]*entity.Ticket, error) {
	all, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	var tickets []*entity.Ticket
	for _, t := range all {
		if t.TripCode == tripCode && t.Date == date {
			tickets = append(tickets, t)
		}
	}
	return tickets, nil
}

type invoiceRepository struct {
	store Store
}

func NewInvoiceRepository(store Store) InvoiceRepository {
	return &invoiceRepository{store: store}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return putRecord(ctx, r.store, collectionInvoice, invoice.Code, invoice)
}

func (r *invoiceRepository) GetByCode(ctx context.Context, code string) (*entity.Invoice, error) {
	var invoice entity.Invoice
	if err := getRecord(ctx, r.store, collectionInvoice, code, &invoice); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrBookingNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByCustomer(ctx context.Context, customerID string) ([]*entity.Invoice, error) {
	codes, err := r.store.IndexMembers(ctx, collectionInvoice)
	if err != nil {
		return nil, err
	}
	var invoices []*entity.Invoice
	for _, code := range codes {
		invoice, err := r.GetByCode(ctx, code)
		if err == entity.ErrBookingNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		if invoice.CustomerID == customerID {
			invoices = append(invoices, invoice)
		}
	}
	return invoices, nil
}

type cancellationRepository struct {
	store Store
}

func NewCancellationRepository(store Store) CancellationRepository {
	return &cancellationRepository{store: store}
}

func (r *cancellationRepository) Create(ctx context.Context, req *entity.CancellationRequest) error {
	return putRecord(ctx, r.store, collectionCancellation, req.Code, req)
}

func (r *cancellationRepository) GetByCode(ctx context.Context, code string) (*entity.CancellationRequest, error) {
	var req entity.CancellationRequest
	if err := getRecord(ctx, r.store, collectionCancellation, code, &req); err != nil {
		if err == ErrKeyNotFound {
			return nil, entity.ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *cancellationRepository) Update(ctx context.Context, req *entity.CancellationRequest) error {
	return putRecord(ctx, r.store, collectionCancellation, req.Code, req)
}

func (r *cancellationRepository) getAll(ctx context.Context) ([]*entity.CancellationRequest, error) {
	codes, err := r.store.IndexMembers(ctx, collectionCancellation)
	if err != nil {
		return nil, err
	}
	reqs := make([]*entity.CancellationRequest, 0, len(codes))
	for _, code := range codes {
		req, err := r.GetByCode(ctx, code)
		if err == entity.ErrRequestNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func (r *cancellationRepository) GetByStatus(ctx context.Context, status entity.CancellationStatus) ([]*entity.CancellationRequest, error) {
	all, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	var reqs []*entity.CancellationRequest
	for _, req := range all {
		if req.Status == status {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}

func (r *cancellationRepository) GetByCustomer(ctx context.Context, customerID string) ([]*entity.CancellationRequest, error) {
	all, err := r.getAll(ctx)
	if err != nil {
		return nil, err
	}
	var reqs []*entity.CancellationRequest
	for _, req := range all {
		if req.CustomerID == customerID {
			reqs = append(reqs, req)
		}
	}
	return reqs, nil
}
