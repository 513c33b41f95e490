package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Platform is a named order source. Enabled gates the whole sync run for
// that source; it is consulted once per run, never per order.
type Platform struct {
	ID       int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Name     string         `gorm:"column:name;type:varchar(64);not null;uniqueIndex:uk_platform_name"`
	Enabled  bool           `gorm:"column:enabled;not null;default:true"`
	AuthData datatypes.JSON `gorm:"column:auth_data;type:json"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table name.
func (Platform) TableName() string {
	return "platforms"
}
