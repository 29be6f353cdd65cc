package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/farmatrack/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250612_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Farmacia{},
					&models.Assegnazione{}, &models.Rilievo{})
			},
		},
		{
			ID: "20250708_add_campi_rilievo",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.CampoRilievo{})
			},
		},
		{
			ID: "20250721_add_registrazioni",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.Registrazione{})
			},
		},
	})
	return m.Migrate()
}
