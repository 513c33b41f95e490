package entity

import (
	"time"
)

// Order type constants mirror the source feed categories.
const (
	OrderTypeAssigned = "ASSIGNED"
	OrderTypeAuction  = "AUCTION"
	OrderTypeFree     = "FREE"
)

// Order is the persisted representation of a source-feed freight order,
// keyed by the stable external number. CargoID and Published are set
// together when a marketplace listing exists and cleared together when it
// is withdrawn.
type Order struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalNo string `gorm:"column:external_no;type:varchar(64);not null;uniqueIndex:uk_external_no"`
	Platform   string `gorm:"column:platform;type:varchar(64);not null;index:idx_platform"`

	// Route
	LoadingCity      string  `gorm:"column:loading_city;type:varchar(128);not null"`
	UnloadingCity    string  `gorm:"column:unloading_city;type:varchar(128);not null"`
	LoadingAddress   *string `gorm:"column:loading_address;type:varchar(255)"`
	UnloadingAddress *string `gorm:"column:unloading_address;type:varchar(255)"`

	// Schedule
	LoadDate   time.Time  `gorm:"column:load_date;not null"`
	UnloadDate *time.Time `gorm:"column:unload_date"`

	// Cargo
	WeightVolume string  `gorm:"column:weight_volume;type:varchar(64);not null"`
	CargoName    *string `gorm:"column:cargo_name;type:varchar(128)"`
	VehicleType  string  `gorm:"column:vehicle_type;type:varchar(255)"`
	LoadingTypes string  `gorm:"column:loading_types;type:varchar(255)"`
	Comment      string  `gorm:"column:comment;type:varchar(1024)"`

	// Commercial
	OrderType string   `gorm:"column:order_type;type:varchar(16);not null"`
	BidPrice  float64  `gorm:"column:bid_price"`
	AtiPrice  *float64 `gorm:"column:ati_price"`

	// Assignment / marketplace state
	LogisticianName string  `gorm:"column:logistician_name;type:varchar(128)"`
	CargoID         *string `gorm:"column:cargo_id;type:varchar(64)"`
	Published       *string `gorm:"column:is_published;type:varchar(64)"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table name.
func (Order) TableName() string {
	return "orders"
}

// IsListed reports whether the order currently holds a marketplace listing.
func (o *Order) IsListed() bool {
	return o.CargoID != nil && *o.CargoID != ""
}
