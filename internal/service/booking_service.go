package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/urbanstay/rental-service/internal/auth"
	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"github.com/urbanstay/rental-service/pkg/rabbitmq"
	"gorm.io/gorm"
)

type CreateBookingInput struct {
	ApartmentID     uint
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	SpecialRequests string
}

type BookingStats struct {
	Total            int64   `json:"total"`
	Pending          int64   `json:"pending"`
	Confirmed        int64   `json:"confirmed"`
	Cancelled        int64   `json:"cancelled"`
	Completed        int64   `json:"completed"`
	PaidRevenue      float64 `json:"paid_revenue"`
	UpcomingCheckIns int64   `json:"upcoming_check_ins"`
}

type BookingService interface {
	CheckAvailability(ctx context.Context, apartmentID uint, checkIn, checkOut time.Time) (*Availability, error)
	CreateBooking(ctx context.Context, principal *auth.Principal, input CreateBookingInput) (*models.Booking, error)
	GetBooking(ctx context.Context, principal *auth.Principal, id uint) (*models.Booking, error)
	ListMyBookings(ctx context.Context, principal *auth.Principal) ([]models.Booking, error)
	CancelBooking(ctx context.Context, principal *auth.Principal, id uint) (*models.Booking, error)
	ProcessPayment(ctx context.Context, principal *auth.Principal, id uint, method string) (*models.Booking, error)
	AdminListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error)
	AdminSetStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error)
	AdminStats(ctx context.Context) (*BookingStats, error)
}

// cancellationCutoff is measured against the booking's check-in instant,
// not creation time.
const cancellationCutoff = 48 * time.Hour

type bookingService struct {
	bookingRepo   repository.BookingRepository
	apartmentRepo repository.ApartmentRepository
	publisher     *rabbitmq.Publisher
}

func NewBookingService(bookingRepo repository.BookingRepository, apartmentRepo repository.ApartmentRepository, publisher *rabbitmq.Publisher) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		apartmentRepo: apartmentRepo,
		publisher:     publisher,
	}
}

// CreateBooking runs the whole creation pipeline inside one transaction.
// The FOR UPDATE lock on the apartment row is the serialization point:
// of two concurrent attempts for overlapping ranges, the second blocks
// until the first commits and then sees its booking in the conflict check.
func (s *bookingService) CreateBooking(ctx context.Context, principal *auth.Principal, input CreateBookingInput) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		// 1. Apartment must exist and be active; the lock serializes
		// concurrent creation attempts per apartment.
		apartment, err := s.apartmentRepo.FindByIDForUpdate(ctx, tx, input.ApartmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApartmentNotFound
			}
			return fmt.Errorf("lock apartment: %w", err)
		}
		if !apartment.IsActive {
			return ErrApartmentNotFound
		}

		// 2-4. Date and guest validation
		if !input.CheckIn.Before(input.CheckOut) {
			return ErrInvalidDateRange
		}
		if input.CheckIn.Before(time.Now()) {
			return ErrPastCheckIn
		}
		if input.Guests > apartment.MaxGuests {
			return ErrGuestLimitExceeded
		}

		// 5. Conflict check under the lock
		availability, err := s.checkAvailability(ctx, tx, input.ApartmentID, input.CheckIn, input.CheckOut)
		if err != nil {
			return err
		}
		if !availability.Available {
			return &DateConflictError{Conflicts: availability.Conflicts}
		}

		// 6. Price
		total, err := TotalPrice(apartment.Price, input.CheckIn, input.CheckOut)
		if err != nil {
			return err
		}

		// 7. Persist pending booking with the principal's contact snapshot
		booking := &models.Booking{
			ApartmentID:     input.ApartmentID,
			UserID:          principal.UserID,
			CheckIn:         input.CheckIn,
			CheckOut:        input.CheckOut,
			Guests:          input.Guests,
			TotalPrice:      total,
			Status:          models.StatusPending,
			PaymentStatus:   models.PaymentPending,
			SpecialRequests: input.SpecialRequests,
			Contact: models.ContactInfo{
				Name:  principal.Name,
				Email: principal.Email,
				Phone: principal.Phone,
			},
		}
		if err := s.bookingRepo.Create(ctx, tx, booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.created", result)
	}
	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, principal *auth.Principal, id uint) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if booking.UserID != principal.UserID && !principal.IsAdmin {
		return nil, ErrForbidden
	}
	return booking, nil
}

func (s *bookingService) ListMyBookings(ctx context.Context, principal *auth.Principal) ([]models.Booking, error) {
	return s.bookingRepo.FindByUserID(ctx, principal.UserID)
}

func (s *bookingService) CancelBooking(ctx context.Context, principal *auth.Principal, id uint) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		if booking.UserID != principal.UserID {
			return ErrForbidden
		}
		if booking.Status != models.StatusPending && booking.Status != models.StatusConfirmed {
			return ErrNotCancellable
		}
		if time.Now().After(booking.CheckIn.Add(-cancellationCutoff)) {
			return ErrCancellationWindowPassed
		}

		booking.Status = models.StatusCancelled
		if booking.PaymentStatus == models.PaymentPaid {
			booking.PaymentStatus = models.PaymentRefunded
		}
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.cancelled", result)
	}
	return result, nil
}

func (s *bookingService) ProcessPayment(ctx context.Context, principal *auth.Principal, id uint, method string) (*models.Booking, error) {
	var result *models.Booking

	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		if booking.UserID != principal.UserID {
			return ErrForbidden
		}
		if booking.PaymentStatus == models.PaymentPaid {
			return ErrAlreadyPaid
		}

		// Simulated payment: no gateway round trip, just the state change.
		now := time.Now()
		booking.PaymentStatus = models.PaymentPaid
		booking.Status = models.StatusConfirmed
		booking.Payment = models.PaymentDetails{
			TransactionID: uuid.NewString(),
			PaymentMethod: method,
			PaidAt:        &now,
		}
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		_ = s.publisher.Publish("booking.paid", result)
	}
	return result, nil
}

func (s *bookingService) AdminListBookings(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error) {
	return s.bookingRepo.List(ctx, filter)
}

// AdminSetStatus sets the status unconditionally, with no availability
// re-check. Operational escape hatch: an admin moving a booking back to
// confirmed can create an overlap the normal path would never allow.
func (s *bookingService) AdminSetStatus(ctx context.Context, id uint, status models.BookingStatus) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, ErrInvalidStatus
	}

	var result *models.Booking
	err := s.bookingRepo.Transaction(ctx, func(tx *gorm.DB) error {
		booking, err := s.bookingRepo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		booking.Status = status
		if err := s.bookingRepo.Save(ctx, tx, booking); err != nil {
			return fmt.Errorf("save booking: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *bookingService) AdminStats(ctx context.Context) (*BookingStats, error) {
	stats := &BookingStats{}

	for _, st := range []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted} {
		count, err := s.bookingRepo.CountByStatus(ctx, st)
		if err != nil {
			return nil, fmt.Errorf("count %s bookings: %w", st, err)
		}
		switch st {
		case models.StatusPending:
			stats.Pending = count
		case models.StatusConfirmed:
			stats.Confirmed = count
		case models.StatusCancelled:
			stats.Cancelled = count
		case models.StatusCompleted:
			stats.Completed = count
		}
		stats.Total += count
	}

	revenue, err := s.bookingRepo.PaidRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum paid revenue: %w", err)
	}
	stats.PaidRevenue = revenue

	upcoming, err := s.bookingRepo.CountUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("count upcoming check-ins: %w", err)
	}
	stats.UpcomingCheckIns = upcoming

	return stats, nil
}
