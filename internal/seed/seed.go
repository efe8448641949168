// Package seed ensures the baseline records a fresh install needs.
package seed

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	propertydomain "github.com/roombox/roombox/internal/property/domain"
)

const defaultPropertyName = "Main Property"

// EnsureDefaultProperty creates the default property if none exists, so a
// fresh install can onboard guests immediately.
func EnsureDefaultProperty(db *gorm.DB, genID *snowflake.Node) error {
	if db == nil || genID == nil {
		return errors.New("seed_unavailable")
	}

	var count int64
	if err := db.Model(&propertydomain.Property{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	property := propertydomain.Property{
		ID:   genID.Generate(),
		Name: defaultPropertyName,
	}
	return db.Create(&property).Error
}
