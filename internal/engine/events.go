package engine

import "time"

// Listing event kinds.
const (
	EventPublished = "published"
	EventUpdated   = "updated"
	EventWithdrawn = "withdrawn"
)

// ListingEvent describes one listing lifecycle change, published for
// downstream consumers.
type ListingEvent struct {
	ExternalNo  string    `json:"external_no"`
	CargoID     string    `json:"cargo_id,omitempty"`
	CargoNumber string    `json:"cargo_number,omitempty"`
	Event       string    `json:"event"`
	Timestamp   time.Time `json:"timestamp"`
}
