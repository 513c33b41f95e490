package entity

import "time"

// Logist maps a logistician display name to their marketplace contact id.
// Rows are synced from the ATI firm contact list and extended whenever the
// contact lookup discovers a new mapping.
type Logist struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `gorm:"column:name;type:varchar(128);not null;index:idx_logist_name"`
	ContactID int64  `gorm:"column:contact_id;not null;uniqueIndex:uk_contact_id"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName pins the table name.
func (Logist) TableName() string {
	return "logists"
}
