package entity

import "time"

// DistributionRule assigns an owning logistician, margin and publication
// policy to a route. A nil city is a wildcard matching any city in that
// position. Rules are read-only inputs to the engine.
type DistributionRule struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Platform string `gorm:"column:platform;type:varchar(64);not null;index:idx_rule_platform"`

	LoadingCity   *string `gorm:"column:loading_city;type:varchar(128)"`
	UnloadingCity *string `gorm:"column:unloading_city;type:varchar(128)"`

	Logistician          string   `gorm:"column:logistician;type:varchar(128);not null"`
	MarginPercent        *float64 `gorm:"column:margin_percent"`
	AuctionMarginPercent *float64 `gorm:"column:auction_margin_percent"`
	CargoName            *string  `gorm:"column:cargo_name;type:varchar(128)"`

	AutoPublish        bool `gorm:"column:auto_publish;not null;default:false"`
	AutoPublishAuction bool `gorm:"column:auto_publish_auction;not null;default:false"`
	PublishDelay       int  `gorm:"column:publish_delay;not null;default:0"` // minutes
	PaymentDays        int  `gorm:"column:payment_days;not null;default:30"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table name.
func (DistributionRule) TableName() string {
	return "distribution_rules"
}

// AutoPublishFor returns the auto-publish flag applicable to the order type.
func (r *DistributionRule) AutoPublishFor(orderType string) bool {
	if orderType == OrderTypeAuction {
		return r.AutoPublishAuction
	}
	return r.AutoPublish
}
