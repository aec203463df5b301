package model

import "time"

// Notification records that an incharge was notified of a new maintenance
// request. UserID and InchargeID are government IDs. Immutable once created.
type Notification struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	InchargeID string    `json:"inchargeId"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}
