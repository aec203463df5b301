package model

import "time"

// Penalty records a star deduction applied to a user. Immutable.
type Penalty struct {
	ID           int64     `json:"id"`
	GovID        string    `json:"userId"`
	StarsReduced int64     `json:"numberOfStarsReduced"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Award records a star grant applied to a user. Immutable.
type Award struct {
	ID         int64     `json:"id"`
	GovID      string    `json:"userId"`
	StarsAdded int64     `json:"numberOfStarsAdded"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
