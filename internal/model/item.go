package model

import "time"

// Item represents an individually tracked inventory item. ItemID is the
// printed asset tag (the value encoded in the item's QR code) and serves
// as the natural key; Location is the item's home location, while
// TemporaryLocation records where a bearer has currently taken it.
type Item struct {
	ID                int64      `json:"id"`
	ItemID            string     `json:"itemId"`
	Category          string     `json:"category"`
	Type              string     `json:"type"`
	Location          string     `json:"location"`
	TemporaryLocation string     `json:"temporaryLocation,omitempty"`
	Condition         string     `json:"condition"`
	PhotoMime         string     `json:"photo_mime,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// Item conditions.
const (
	ConditionWorking = "working"
	ConditionDamaged = "damaged"
)
