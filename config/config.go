package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Load reads .env and reports whether hosted persistence is configured.
// The decision is made once; the process never switches backend afterwards.
func Load() (hosted bool) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	return os.Getenv("DB_DSN") != ""
}

// Connect opens the hosted postgres backend, runs migrations and seeds the
// first admin account when the users table is empty.
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DB_DSN")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrations(db); err != nil {
		return nil, err
	}
	if err := SeedAdmin(db); err != nil {
		return nil, err
	}
	DB = db
	return db, nil
}

// DataDir is where the standalone demo mode keeps its collection files.
func DataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}
