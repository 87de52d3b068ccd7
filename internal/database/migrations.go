package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/eventboard/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
// Notifications must precede the ledger so the cascading foreign key can be created.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.Notification{},
		&models.RecipientEntry{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
