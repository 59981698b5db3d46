package entity

import "time"

type CancellationStatus string

const (
	CancellationStatusPending  CancellationStatus = "pending"
	CancellationStatusApproved CancellationStatus = "approved"
	CancellationStatusRejected CancellationStatus = "rejected"
)

// CancellationRequest asks staff to refund one paid ticket. While pending,
// the referenced ticket is frozen in cancel_pending.
type CancellationRequest struct {
	Code          string             `json:"code"`
	TicketCode    string             `json:"ticket_code"`
	CustomerID    string             `json:"customer_id"`
	Reason        string             `json:"reason"`
	Note          string             `json:"note,omitempty"`
	RefundAmount  float64            `json:"refund_amount"`
	RefundPercent int                `json:"refund_percent"`
	Status        CancellationStatus `json:"status"`
	RejectReason  string             `json:"reject_reason,omitempty"`
	ResolvedBy    string             `json:"resolved_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
