package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urbanstay/rental-service/internal/auth"
	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"gorm.io/gorm"
)

// --- In-memory fakes ---
//
// The fakes mirror the store contract: value semantics (mutations are
// invisible until Save) and the same half-open overlap predicate the SQL
// query encodes.

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uint]models.Booking
	nextID   uint
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uint]models.Booking)}
}

func (f *fakeBookingRepo) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(nil)
}

func (f *fakeBookingRepo) Create(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	f.nextID++
	booking.ID = f.nextID
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uint) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (f *fakeBookingRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookingRepo) FindByUserID(ctx context.Context, userID uint) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindOverlapping(ctx context.Context, tx *gorm.DB, apartmentID uint, statuses []models.BookingStatus, checkIn, checkOut time.Time) ([]models.Booking, error) {
	inStatus := func(s models.BookingStatus) bool {
		for _, st := range statuses {
			if st == s {
				return true
			}
		}
		return false
	}

	var out []models.Booking
	for _, b := range f.bookings {
		if b.ApartmentID == apartmentID && inStatus(b.Status) &&
			b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out, nil
}

func (f *fakeBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.ApartmentID != 0 && b.ApartmentID != filter.ApartmentID {
			continue
		}
		if filter.UserID != 0 && b.UserID != filter.UserID {
			continue
		}
		out = append(out, b)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBookingRepo) Save(ctx context.Context, tx *gorm.DB, booking *models.Booking) error {
	if _, ok := f.bookings[booking.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	booking.UpdatedAt = time.Now()
	f.bookings[booking.ID] = *booking
	return nil
}

func (f *fakeBookingRepo) CountByStatus(ctx context.Context, status models.BookingStatus) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if b.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeBookingRepo) PaidRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	for _, b := range f.bookings {
		if b.PaymentStatus == models.PaymentPaid {
			revenue += b.TotalPrice
		}
	}
	return revenue, nil
}

func (f *fakeBookingRepo) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	for _, b := range f.bookings {
		if !b.CheckIn.Before(from) && (b.Status == models.StatusPending || b.Status == models.StatusConfirmed) {
			count++
		}
	}
	return count, nil
}

type fakeApartmentRepo struct {
	apartments map[uint]models.Apartment
}

func newFakeApartmentRepo(apartments ...models.Apartment) *fakeApartmentRepo {
	f := &fakeApartmentRepo{apartments: make(map[uint]models.Apartment)}
	for _, a := range apartments {
		f.apartments[a.ID] = a
	}
	return f
}

func (f *fakeApartmentRepo) Create(ctx context.Context, apartment *models.Apartment) error {
	f.apartments[apartment.ID] = *apartment
	return nil
}

func (f *fakeApartmentRepo) FindByID(ctx context.Context, id uint) (*models.Apartment, error) {
	a, ok := f.apartments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (f *fakeApartmentRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Apartment, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeApartmentRepo) List(ctx context.Context, filter repository.ApartmentFilter) ([]models.Apartment, int64, error) {
	var out []models.Apartment
	for _, a := range f.apartments {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeApartmentRepo) Save(ctx context.Context, apartment *models.Apartment) error {
	f.apartments[apartment.ID] = *apartment
	return nil
}

// --- Fixtures ---

func testApartment() models.Apartment {
	return models.Apartment{
		ID:        1,
		Title:     "Belvárosi stúdió",
		Price:     100,
		MaxGuests: 4,
		IsActive:  true,
	}
}

func guest() *auth.Principal {
	return &auth.Principal{
		UserID: 7,
		Name:   "Kovács Anna",
		Email:  "anna@example.com",
		Phone:  "+36 30 123 4567",
	}
}

func newTestService() (BookingService, *fakeBookingRepo) {
	bookingRepo := newFakeBookingRepo()
	apartmentRepo := newFakeApartmentRepo(testApartment())
	return NewBookingService(bookingRepo, apartmentRepo, nil), bookingRepo
}

func daysFromNow(d int) time.Time {
	return time.Now().Add(time.Duration(d) * 24 * time.Hour).Truncate(time.Second)
}

// --- Creation pipeline ---

func TestCreateBooking_Success(t *testing.T) {
	svc, _ := newTestService()

	booking, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID:     1,
		CheckIn:         daysFromNow(10),
		CheckOut:        daysFromNow(13),
		Guests:          2,
		SpecialRequests: "late arrival",
	})

	require.NoError(t, err)
	assert.Equal(t, 300.0, booking.TotalPrice, "3 nights x 100")
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, models.PaymentPending, booking.PaymentStatus)
	assert.Equal(t, "Kovács Anna", booking.Contact.Name)
	assert.Equal(t, "anna@example.com", booking.Contact.Email)
	assert.Equal(t, "late arrival", booking.SpecialRequests)
	assert.NotZero(t, booking.ID)
}

func TestCreateBooking_ApartmentNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 99,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})

	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestCreateBooking_InactiveApartmentNotFound(t *testing.T) {
	apartment := testApartment()
	apartment.IsActive = false
	svc := NewBookingService(newFakeBookingRepo(), newFakeApartmentRepo(apartment), nil)

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})

	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestCreateBooking_InvalidDateRange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(13),
		CheckOut:    daysFromNow(10),
		Guests:      2,
	})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCreateBooking_PastCheckIn(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(-2),
		CheckOut:    daysFromNow(3),
		Guests:      2,
	})

	assert.ErrorIs(t, err, ErrPastCheckIn)
}

func TestCreateBooking_GuestLimitExceeded(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      5,
	})

	assert.ErrorIs(t, err, ErrGuestLimitExceeded)
}

// Missing apartment wins over bad dates: failures short-circuit in order.
func TestCreateBooking_FailureOrder(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 99,
		CheckIn:     daysFromNow(13),
		CheckOut:    daysFromNow(10),
		Guests:      50,
	})

	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

func TestCreateBooking_DateConflict(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(12),
		CheckOut:    daysFromNow(15),
		Guests:      2,
	})

	var conflict *DateConflictError
	require.ErrorAs(t, err, &conflict)
	require.Len(t, conflict.Conflicts, 1)
	assert.True(t, conflict.Conflicts[0].CheckIn.Equal(first.CheckIn))
	assert.True(t, conflict.Conflicts[0].CheckOut.Equal(first.CheckOut))
}

func TestCreateBooking_BackToBackAllowed(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	// checkout of A == check-in of B: no conflict
	second, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     first.CheckOut,
		CheckOut:    daysFromNow(15),
		Guests:      2,
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)
}

func TestCreateBooking_CancelledBookingDoesNotBlock(t *testing.T) {
	svc, repo := newTestService()

	booking, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	stored := repo.bookings[booking.ID]
	stored.Status = models.StatusCancelled
	repo.bookings[booking.ID] = stored

	_, err = svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(11),
		CheckOut:    daysFromNow(14),
		Guests:      2,
	})

	assert.NoError(t, err)
}

// --- Availability query ---

func TestCheckAvailability_ListsAllConflicts(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, d := range [][2]int{{10, 12}, {14, 16}} {
		_, err := svc.CreateBooking(ctx, guest(), CreateBookingInput{
			ApartmentID: 1,
			CheckIn:     daysFromNow(d[0]),
			CheckOut:    daysFromNow(d[1]),
			Guests:      2,
		})
		require.NoError(t, err)
	}

	availability, err := svc.CheckAvailability(ctx, 1, daysFromNow(11), daysFromNow(15))

	require.NoError(t, err)
	assert.False(t, availability.Available)
	assert.Len(t, availability.Conflicts, 2, "every conflicting interval is reported")
}

func TestCheckAvailability_RepeatedCallsIdentical(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	first, err := svc.CheckAvailability(ctx, 1, daysFromNow(11), daysFromNow(12))
	require.NoError(t, err)
	second, err := svc.CheckAvailability(ctx, 1, daysFromNow(11), daysFromNow(12))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CheckAvailability(context.Background(), 1, daysFromNow(13), daysFromNow(10))

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestCheckAvailability_UnknownApartment(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CheckAvailability(context.Background(), 99, daysFromNow(10), daysFromNow(13))

	assert.ErrorIs(t, err, ErrApartmentNotFound)
}

// --- Payment ---

func TestProcessPayment_Success(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	paid, err := svc.ProcessPayment(ctx, guest(), booking.ID, "card")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, paid.Status)
	assert.NotEmpty(t, paid.Payment.TransactionID)
	assert.Equal(t, "card", paid.Payment.PaymentMethod)
	require.NotNil(t, paid.Payment.PaidAt)
}

func TestProcessPayment_SecondPaymentRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, guest(), booking.ID, "card")
	require.NoError(t, err)

	_, err = svc.ProcessPayment(ctx, guest(), booking.ID, "card")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestProcessPayment_NotOwner(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     daysFromNow(10),
		CheckOut:    daysFromNow(13),
		Guests:      2,
	})
	require.NoError(t, err)

	stranger := &auth.Principal{UserID: 42, Name: "Valaki Más"}
	_, err = svc.ProcessPayment(ctx, stranger, booking.ID, "card")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProcessPayment_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ProcessPayment(context.Background(), guest(), 999, "card")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// --- Cancellation ---

func createBookingAt(t *testing.T, svc BookingService, checkIn, checkOut time.Time) *models.Booking {
	t.Helper()
	booking, err := svc.CreateBooking(context.Background(), guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      2,
	})
	require.NoError(t, err)
	return booking
}

func TestCancelBooking_Success(t *testing.T) {
	svc, _ := newTestService()
	booking := createBookingAt(t, svc, time.Now().Add(49*time.Hour), time.Now().Add(96*time.Hour))

	cancelled, err := svc.CancelBooking(context.Background(), guest(), booking.ID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentPending, cancelled.PaymentStatus)
}

func TestCancelBooking_WindowPassed(t *testing.T) {
	svc, _ := newTestService()
	booking := createBookingAt(t, svc, time.Now().Add(47*time.Hour), time.Now().Add(96*time.Hour))

	_, err := svc.CancelBooking(context.Background(), guest(), booking.ID)

	assert.ErrorIs(t, err, ErrCancellationWindowPassed)
}

func TestCancelBooking_PaidBookingRefunded(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	booking := createBookingAt(t, svc, time.Now().Add(80*time.Hour), time.Now().Add(120*time.Hour))

	_, err := svc.ProcessPayment(ctx, guest(), booking.ID, "card")
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(ctx, guest(), booking.ID)

	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentRefunded, cancelled.PaymentStatus)
}

func TestCancelBooking_TerminalStatusNotCancellable(t *testing.T) {
	svc, repo := newTestService()
	booking := createBookingAt(t, svc, daysFromNow(10), daysFromNow(13))

	for _, status := range []models.BookingStatus{models.StatusCancelled, models.StatusCompleted} {
		stored := repo.bookings[booking.ID]
		stored.Status = status
		repo.bookings[booking.ID] = stored

		_, err := svc.CancelBooking(context.Background(), guest(), booking.ID)
		assert.ErrorIs(t, err, ErrNotCancellable, "status %s", status)
	}
}

func TestCancelBooking_NotOwner(t *testing.T) {
	svc, _ := newTestService()
	booking := createBookingAt(t, svc, daysFromNow(10), daysFromNow(13))

	stranger := &auth.Principal{UserID: 42}
	_, err := svc.CancelBooking(context.Background(), stranger, booking.ID)

	assert.ErrorIs(t, err, ErrForbidden)
}

// --- Admin override ---

func TestAdminSetStatus_InvalidStatus(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AdminSetStatus(context.Background(), 1, "refunded")

	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdminSetStatus_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AdminSetStatus(context.Background(), 999, models.StatusConfirmed)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// Admins bypass both the cancellation window and the state machine; the
// freed range immediately reopens for new bookings.
func TestAdminSetStatus_BypassReopensRange(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// inside the 48h window, owner cancellation would fail
	booking := createBookingAt(t, svc, time.Now().Add(24*time.Hour), time.Now().Add(72*time.Hour))
	_, err := svc.CancelBooking(ctx, guest(), booking.ID)
	require.ErrorIs(t, err, ErrCancellationWindowPassed)

	updated, err := svc.AdminSetStatus(ctx, booking.ID, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	availability, err := svc.CheckAvailability(ctx, 1, booking.CheckIn, booking.CheckOut)
	require.NoError(t, err)
	assert.True(t, availability.Available, "cancelled range is open again")

	_, err = svc.CreateBooking(ctx, guest(), CreateBookingInput{
		ApartmentID: 1,
		CheckIn:     booking.CheckIn,
		CheckOut:    booking.CheckOut,
		Guests:      2,
	})
	assert.NoError(t, err)
}

// --- Stats ---

func TestAdminStats(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a := createBookingAt(t, svc, daysFromNow(10), daysFromNow(13))
	createBookingAt(t, svc, daysFromNow(20), daysFromNow(22))

	_, err := svc.ProcessPayment(ctx, guest(), a.ID, "card")
	require.NoError(t, err)

	stats, err := svc.AdminStats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Confirmed)
	assert.Equal(t, 300.0, stats.PaidRevenue)
	assert.Equal(t, int64(2), stats.UpcomingCheckIns)
}
