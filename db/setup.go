package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/planora-dev/planora/internal/models"
)

func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

func Migrate(db *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectEditor{},
		&models.AssignmentTemplate{},
		&models.ProjectAssignment{},
		&models.Comment{},
		&models.Like{},
	}

	migrator := db.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := db.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
