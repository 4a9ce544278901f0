package model

import (
	"time"
)

// SchemaVersion is one applied migration step. Steps that do not apply to
// the connected dialect are still recorded so they are not retried.
type SchemaVersion struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Version     string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	Dialect     string    `gorm:"type:varchar(20);not null"`
	Description string    `gorm:"type:text"`
	AppliedAt   time.Time `gorm:"not null"`
}

// TableName specifies the table name for the schema version model
func (SchemaVersion) TableName() string {
	return "schema_versions"
}
