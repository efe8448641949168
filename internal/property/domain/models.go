// Package domain contains persistence models for properties and beds.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Property is a PG/hostel building under management.
type Property struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Address   string            `gorm:"type:text" json:"address"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Property) TableName() string { return "properties" }

// Bed is a rentable unit inside a property.
type Bed struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_beds_property_code,priority:1" json:"property_id"`
	Code        string       `gorm:"type:text;not null;uniqueIndex:ux_beds_property_code,priority:2" json:"code"`
	SharingType string       `gorm:"type:text" json:"sharing_type"`
	DefaultRent int64        `gorm:"not null;default:0" json:"default_rent"`
	Occupied    bool         `gorm:"not null;default:false" json:"occupied"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Bed) TableName() string { return "beds" }
