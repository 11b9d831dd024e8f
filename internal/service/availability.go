package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urbanstay/rental-service/internal/models"
	"gorm.io/gorm"
)

// Availability is the result of a conflict check: either the range is
// free, or Conflicts lists every blocking interval.
type Availability struct {
	Available bool               `json:"available"`
	Conflicts []models.DateRange `json:"conflicts"`
}

// checkAvailability runs the overlap query against tx and folds the result.
// The store predicate is the half-open interval test (existing.checkIn <
// checkOut AND existing.checkOut > checkIn), so back-to-back stays where
// one checkout equals another's check-in never count as conflicts.
func (s *bookingService) checkAvailability(ctx context.Context, tx *gorm.DB, apartmentID uint, checkIn, checkOut time.Time) (*Availability, error) {
	if !checkIn.Before(checkOut) {
		return nil, ErrInvalidDateRange
	}

	overlapping, err := s.bookingRepo.FindOverlapping(ctx, tx, apartmentID, models.ActiveStatuses(), checkIn, checkOut)
	if err != nil {
		return nil, fmt.Errorf("find overlapping bookings: %w", err)
	}

	conflicts := make([]models.DateRange, len(overlapping))
	for i, b := range overlapping {
		conflicts[i] = b.Range()
	}

	return &Availability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

// CheckAvailability is the read-only public query. It takes no locks and
// repeated calls with no intervening writes return identical results.
func (s *bookingService) CheckAvailability(ctx context.Context, apartmentID uint, checkIn, checkOut time.Time) (*Availability, error) {
	apartment, err := s.apartmentRepo.FindByID(ctx, apartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("find apartment: %w", err)
	}
	if !apartment.IsActive {
		return nil, ErrApartmentNotFound
	}
	return s.checkAvailability(ctx, nil, apartmentID, checkIn, checkOut)
}
