package database

import (
	"fmt"

	"github.com/tajoco/contacts/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate runs schema migrations for all application models
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Contact{},
	); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}
