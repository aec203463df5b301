package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avashist/upkeep/internal/model"
)

// CreateNotification records a notification addressed to an incharge.
// Both userID and inchargeID are government IDs.
func CreateNotification(ctx context.Context, db *sql.DB, userID, inchargeID, message string) (*model.Notification, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, incharge_id, message) VALUES (?, ?, ?)`,
		userID, inchargeID, message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting notification id: %w", err)
	}

	n := &model.Notification{}
	err = db.QueryRowContext(ctx,
		`SELECT id, user_id, incharge_id, message, created_at FROM notifications WHERE id = ?`, id,
	).Scan(&n.ID, &n.UserID, &n.InchargeID, &n.Message, &n.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting notification: %w", err)
	}
	return n, nil
}

// ListNotificationsForIncharge returns all notifications addressed to the
// given incharge, newest first.
func ListNotificationsForIncharge(ctx context.Context, db *sql.DB, inchargeID string) ([]model.Notification, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, incharge_id, message, created_at
		 FROM notifications WHERE incharge_id = ? ORDER BY created_at DESC`,
		inchargeID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.InchargeID, &n.Message, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
