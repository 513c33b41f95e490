package ati

// Wire shapes for the ATI v2 cargo API. Field names follow the external
// contract exactly; the transformer package fills them in.

// Payload is the request envelope for cargo create/update.
type Payload struct {
	CargoApplication CargoApplication `json:"cargo_application"`
}

// CargoApplication describes one listing.
type CargoApplication struct {
	Route    Route   `json:"route"`
	Truck    Truck   `json:"truck"`
	Payment  Payment `json:"payment"`
	Boards   []Board `json:"boards"`
	Note     string  `json:"note"`
	Contacts []int64 `json:"contacts"`
}

// Route holds the loading and unloading legs.
type Route struct {
	Loading   Loading   `json:"loading"`
	Unloading Unloading `json:"unloading"`
}

// Loading is the loading leg; its dates window is always present.
type Loading struct {
	CityID  int64   `json:"city_id"`
	Address string  `json:"address"`
	Dates   *Dates  `json:"dates,omitempty"`
	Cargos  []Cargo `json:"cargos"`
}

// Unloading is the unloading leg. Dates must be omitted entirely when no
// unload date exists; the API rejects empty date blocks.
type Unloading struct {
	CityID  int64  `json:"city_id"`
	Address string `json:"address"`
	Dates   *Dates `json:"dates,omitempty"`
}

// Cargo is one cargo line inside the loading leg.
type Cargo struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Weight WeightSpec `json:"weight"`
	Volume VolumeSpec `json:"volume"`
}

// WeightSpec is the cargo weight in tons.
type WeightSpec struct {
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
}

// VolumeSpec is the cargo volume in cubic meters.
type VolumeSpec struct {
	Quantity int `json:"quantity"`
}

// Dates is a date window for one leg.
type Dates struct {
	Type      string     `json:"type,omitempty"`
	Time      TimeWindow `json:"time"`
	FirstDate string     `json:"first_date"`
	LastDate  string     `json:"last_date"`
}

// TimeWindow bounds a date window within the day, or marks it round-the-clock.
type TimeWindow struct {
	Type   string `json:"type"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	Offset string `json:"offset"`
}

// Time window and dates type constants.
const (
	DatesTypeFromDate       = "from-date"
	TimeWindowBounded       = "bounded"
	TimeWindowRoundTheClock = "round-the-clock"
	DefaultTimeOffset       = "+00:00"
)

// Truck describes the required vehicle.
type Truck struct {
	LoadType      string    `json:"load_type"`
	BodyTypes     []int     `json:"body_types"`
	BodyLoading   MethodSet `json:"body_loading"`
	BodyUnloading MethodSet `json:"body_unloading"`
}

// MethodSet is a set of loading/unloading method ids.
type MethodSet struct {
	Types         []int `json:"types"`
	IsAllRequired bool  `json:"is_all_required"`
}

// Payment type constants.
const (
	PaymentWithoutBargaining = "without-bargaining"
	PaymentRateRequest       = "rate-request"
	PaymentModeDelayed       = "delayed-payment"
)

// Payment is either a fixed-rate offer or a price request.
type Payment struct {
	Type                    string      `json:"type"`
	HideCounterOffers       bool        `json:"hide_counter_offers"`
	DirectOffer             bool        `json:"direct_offer"`
	PaymentMode             PaymentMode `json:"payment_mode"`
	CurrencyType            int         `json:"currency_type"`
	RateWithVAT             float64     `json:"rate_with_vat,omitempty"`
	RateWithoutVAT          int64       `json:"rate_without_vat,omitempty"`
	RateWithVATAvailable    bool        `json:"rate_with_vat_available,omitempty"`
	RateWithoutVATAvailable bool        `json:"rate_without_vat_available,omitempty"`
}

// PaymentMode carries the delayed-payment term.
type PaymentMode struct {
	Type             string `json:"type"`
	PaymentDelayDays int    `json:"payment_delay_days"`
}

// Board selects a publication board.
type Board struct {
	ID              string `json:"id"`
	PublicationMode string `json:"publication_mode"`
}

// CargoRef identifies a published listing.
type CargoRef struct {
	CargoID     string
	CargoNumber string
}

// Contact is one firm contact from the ATI contact list. Different API
// versions expose the id under different keys.
type Contact struct {
	ContactID int64  `json:"contact_id"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
}

// EffectiveID returns whichever id field the API populated.
func (c *Contact) EffectiveID() int64 {
	if c.ContactID != 0 {
		return c.ContactID
	}
	return c.ID
}

// Dictionaries are the marketplace reference tables, fetched once per run.
// Keys are lower-cased labels.
type Dictionaries struct {
	CarTypes       map[string]int
	LoadingTypes   map[string]int
	UnloadingTypes map[string]int
}
