package service

import (
	"time"

	"github.com/urbanstay/rental-service/internal/models"
)

// TotalPrice derives a booking total from the nightly rate: nights are
// counted with the canonical ceiling rule (a 14:00 to next-day 10:00 stay
// is one night).
func TotalPrice(nightlyRate float64, checkIn, checkOut time.Time) (float64, error) {
	nights := models.Nights(checkIn, checkOut)
	if nights <= 0 {
		return 0, ErrInvalidDateRange
	}
	return float64(nights) * nightlyRate, nil
}
