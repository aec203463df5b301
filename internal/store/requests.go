package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avashist/upkeep/internal/model"
)

// ErrInvalidAction is returned for an unrecognized lifecycle action.
var ErrInvalidAction = errors.New("invalid action type")

// ErrRequestNotFound is returned when a lifecycle action targets a
// request that does not exist.
var ErrRequestNotFound = errors.New("maintenance request not found")

// CreateRequest persists a new maintenance request in PENDING status.
// govID is the authenticated caller filing the request; userID and itemID
// are internal IDs of the already-resolved requester and item.
func CreateRequest(ctx context.Context, db *sql.DB, govID string, userID, itemID int64, issueDescription string) (*model.MaintenanceRequest, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO maintenance_requests (id, gov_id, user_id, item_id, issue_description)
		 VALUES (?, ?, ?, ?, ?)`,
		id, govID, userID, itemID, issueDescription,
	)
	if err != nil {
		return nil, fmt.Errorf("creating maintenance request: %w", err)
	}

	return GetRequest(ctx, db, id)
}

const requestColumns = `id, gov_id, user_id, item_id, issue_description, status,
	technician_id, resolution_details, discard_reason,
	approval_date, completion_date, maintenance_charge, created_at`

func scanRequest(row *sql.Row) (*model.MaintenanceRequest, error) {
	req := &model.MaintenanceRequest{}
	var technicianID, resolutionDetails, discardReason sql.NullString
	var charge sql.NullFloat64
	err := row.Scan(&req.ID, &req.GovID, &req.UserID, &req.ItemID, &req.IssueDescription, &req.Status,
		&technicianID, &resolutionDetails, &discardReason,
		&req.ApprovalDate, &req.CompletionDate, &charge, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	req.TechnicianID = technicianID.String
	req.ResolutionDetails = resolutionDetails.String
	req.DiscardReason = discardReason.String
	if charge.Valid {
		req.MaintenanceCharge = &charge.Float64
	}
	return req, nil
}

// GetRequest returns a maintenance request by ID.
func GetRequest(ctx context.Context, db *sql.DB, id string) (*model.MaintenanceRequest, error) {
	req, err := scanRequest(db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM maintenance_requests WHERE id = ?`, id,
	))
	if err != nil {
		return nil, fmt.Errorf("getting maintenance request: %w", err)
	}
	return req, nil
}

// ListRequests returns all maintenance requests with requester and item
// summaries attached. No pagination or filtering.
func ListRequests(ctx context.Context, db *sql.DB) ([]model.MaintenanceRequest, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT r.id, r.gov_id, r.user_id, r.item_id, r.issue_description, r.status,
		        r.technician_id, r.resolution_details, r.discard_reason,
		        r.approval_date, r.completion_date, r.maintenance_charge, r.created_at,
		        u.gov_id AS user_gov_id, u.name AS user_name,
		        i.category AS item_category, i.type AS item_type
		 FROM maintenance_requests r
		 JOIN users u ON u.id = r.user_id
		 JOIN items i ON i.id = r.item_id
		 ORDER BY r.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance requests: %w", err)
	}
	defer rows.Close()

	var requests []model.MaintenanceRequest
	for rows.Next() {
		var req model.MaintenanceRequest
		var technicianID, resolutionDetails, discardReason sql.NullString
		var charge sql.NullFloat64
		var user model.RequestUser
		var item model.RequestItem
		if err := rows.Scan(&req.ID, &req.GovID, &req.UserID, &req.ItemID, &req.IssueDescription, &req.Status,
			&technicianID, &resolutionDetails, &discardReason,
			&req.ApprovalDate, &req.CompletionDate, &charge, &req.CreatedAt,
			&user.GovID, &user.Name, &item.Category, &item.Type); err != nil {
			return nil, fmt.Errorf("scanning maintenance request: %w", err)
		}
		req.TechnicianID = technicianID.String
		req.ResolutionDetails = resolutionDetails.String
		req.DiscardReason = discardReason.String
		if charge.Valid {
			req.MaintenanceCharge = &charge.Float64
		}
		req.User = &user
		req.Item = &item
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// ApplyAction applies a lifecycle action to a request and returns the
// updated request. No current-status precondition is checked: any action
// may be applied regardless of the request's prior state, and re-applying
// an action overwrites its side fields.
func ApplyAction(ctx context.Context, db *sql.DB, action, requestID, technicianID, resolutionDetails, discardReason string, maintenanceCharge *float64) (*model.MaintenanceRequest, error) {
	var result sql.Result
	var err error

	switch action {
	case model.ActionApprove:
		result, err = db.ExecContext(ctx,
			`UPDATE maintenance_requests
			 SET status = ?, technician_id = ?, approval_date = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			model.StatusApproved, nullable(technicianID), requestID,
		)
	case model.ActionReject:
		result, err = db.ExecContext(ctx,
			`UPDATE maintenance_requests SET status = ?, discard_reason = ? WHERE id = ?`,
			model.StatusRejected, nullable(discardReason), requestID,
		)
	case model.ActionComplete:
		result, err = db.ExecContext(ctx,
			`UPDATE maintenance_requests
			 SET status = ?, resolution_details = ?, completion_date = CURRENT_TIMESTAMP, maintenance_charge = ?
			 WHERE id = ?`,
			model.StatusCompleted, nullable(resolutionDetails), maintenanceCharge, requestID,
		)
	case model.ActionDiscard:
		result, err = db.ExecContext(ctx,
			`UPDATE maintenance_requests
			 SET status = ?, discard_reason = ?, completion_date = CURRENT_TIMESTAMP, maintenance_charge = ?
			 WHERE id = ?`,
			model.StatusDiscarded, nullable(discardReason), maintenanceCharge, requestID,
		)
	default:
		return nil, ErrInvalidAction
	}

	if err != nil {
		return nil, fmt.Errorf("applying action %q: %w", action, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return nil, ErrRequestNotFound
	}

	return GetRequest(ctx, db, requestID)
}
