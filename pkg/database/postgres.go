package database

import (
	"log"

	"github.com/urbanstay/rental-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Apartment{}, &models.Booking{}, &models.News{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	InstallBookingIndexes(db)

	return db
}

// InstallBookingIndexes adds the composite index the overlap query scans.
// Overlap enforcement itself stays in the application, behind the apartment
// row lock: a schema-level exclusion constraint would also reject
// admin-issued status overrides, which intentionally skip the availability
// check.
func InstallBookingIndexes(db *gorm.DB) {
	db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_bookings_apartment_range
		ON bookings (apartment_id, check_in, check_out)
	`)
}
