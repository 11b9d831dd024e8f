package service

import (
	"errors"

	"github.com/urbanstay/rental-service/internal/models"
)

var (
	ErrApartmentNotFound        = errors.New("apartment not found")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrInvalidDateRange         = errors.New("check-out must be after check-in")
	ErrPastCheckIn              = errors.New("check-in date cannot be in the past")
	ErrGuestLimitExceeded       = errors.New("guest count exceeds apartment capacity")
	ErrForbidden                = errors.New("not allowed for this user")
	ErrAlreadyPaid              = errors.New("booking is already paid")
	ErrNotCancellable           = errors.New("booking is not in a cancellable status")
	ErrCancellationWindowPassed = errors.New("cancellation window has passed (less than 48h to check-in)")
	ErrInvalidStatus            = errors.New("invalid booking status")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNewsNotFound       = errors.New("news article not found")
)

// DateConflictError rejects a booking attempt and carries every existing
// interval the requested range collides with, so callers can show them.
type DateConflictError struct {
	Conflicts []models.DateRange
}

func (e *DateConflictError) Error() string {
	return "requested dates conflict with existing bookings"
}
