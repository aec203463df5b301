package model

import "time"

// MaintenanceRequest represents a maintenance request filed against an
// item. GovID is the government ID of the authenticated caller who filed
// the request, which may differ from the linked user when a request is
// filed on someone's behalf.
type MaintenanceRequest struct {
	ID                string     `json:"id"`
	GovID             string     `json:"govId"`
	UserID            int64      `json:"user_id"`
	ItemID            int64      `json:"item_id"`
	IssueDescription  string     `json:"issueDescription"`
	Status            string     `json:"status"`
	TechnicianID      string     `json:"technicianId,omitempty"`
	ResolutionDetails string     `json:"resolutionDetails,omitempty"`
	DiscardReason     string     `json:"discardReason,omitempty"`
	ApprovalDate      *time.Time `json:"approvalDate,omitempty"`
	CompletionDate    *time.Time `json:"completionDate,omitempty"`
	MaintenanceCharge *float64   `json:"maintenanceCharge,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`

	// Joined summaries (populated by list queries).
	User *RequestUser `json:"user,omitempty"`
	Item *RequestItem `json:"item,omitempty"`
}

// RequestUser is the requester summary attached to listed requests.
type RequestUser struct {
	GovID string `json:"govId"`
	Name  string `json:"name"`
}

// RequestItem is the item summary attached to listed requests.
type RequestItem struct {
	Category string `json:"category"`
	Type     string `json:"type"`
}

// Request statuses. COMPLETED, DISCARDED, and REJECTED are terminal by
// convention; no transition guard enforces this.
const (
	StatusPending   = "PENDING"
	StatusApproved  = "APPROVED"
	StatusRejected  = "REJECTED"
	StatusCompleted = "COMPLETED"
	StatusDiscarded = "DISCARDED"
)

// Lifecycle actions accepted by the request update endpoint.
const (
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionComplete = "complete"
	ActionDiscard  = "discard"
)
