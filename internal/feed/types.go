package feed

import "time"

// StoragePoint is a feed loading/unloading location.
type StoragePoint struct {
	Settlement string `json:"settlement"`
	Address    string `json:"address"`
}

// Place wraps a storage point the way the feed nests it.
type Place struct {
	StoragePoint StoragePoint `json:"storagePoint"`
}

// Lot carries the auction block of an auction order.
type Lot struct {
	AuctionStatus string   `json:"auctionStatus"`
	StartPrice    *float64 `json:"startPrice"`
	LastBet       *float64 `json:"lastBet"`
}

// VehicleRequirements names the required vehicle.
type VehicleRequirements struct {
	Name string `json:"name"`
}

// FeedOrder is one raw order record as the source feed returns it.
type FeedOrder struct {
	ID                  string              `json:"id"`
	ExternalNo          string              `json:"externalNo"`
	LoadingPlaces       []Place             `json:"loadingPlaces"`
	UnloadingPlaces     []Place             `json:"unloadingPlaces"`
	LoadingDatetime     string              `json:"loadingDatetime"`
	UnloadingDatetime   string              `json:"unloadingDatetime"`
	Weight              *float64            `json:"weight"`
	Volume              *float64            `json:"volume"`
	LoadingTypes        string              `json:"loadingTypes"`
	Comment             string              `json:"comment"`
	Price               *float64            `json:"price"`
	Status              string              `json:"status"`
	Lot                 *Lot                `json:"lot"`
	VehicleRequirements VehicleRequirements `json:"vehicleRequirements"`
}

// Candidate is a qualified order after the intake filter: status checked,
// load time in the future, dates parsed, cities extracted.
type Candidate struct {
	ExternalNo       string
	OrderType        string
	LoadingCity      string
	UnloadingCity    string
	LoadingAddress   string // raw free text, normalized later
	UnloadingAddress string
	LoadDate         time.Time
	UnloadDate       *time.Time
	Weight           float64
	Volume           float64
	LoadingTypes     string
	Comment          string
	VehicleType      string
	BidPrice         float64
}

// Snapshot is the result of one full feed pull. ExternalNos lists every
// order the feed returned across all three categories, including orders the
// intake filter rejected: presence in the feed is what protects a persisted
// order from deletion. Complete is false when at least one category fetch
// failed; the deletion phase must not run on an incomplete snapshot.
type Snapshot struct {
	Candidates  []Candidate
	ExternalNos []string
	Complete    bool
}

// Seen reports whether an external number appeared anywhere in the feed.
func (s *Snapshot) Seen(externalNo string) bool {
	for _, no := range s.ExternalNos {
		if no == externalNo {
			return true
		}
	}
	return false
}
