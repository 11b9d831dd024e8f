package dto

import (
	"math"
	"time"

	"github.com/urbanstay/rental-service/internal/models"
)

type BookingResponse struct {
	ID              uint                  `json:"id"`
	ApartmentID     uint                  `json:"apartment_id"`
	UserID          uint                  `json:"user_id"`
	CheckIn         time.Time             `json:"check_in"`
	CheckOut        time.Time             `json:"check_out"`
	Nights          int                   `json:"nights"`
	Guests          int                   `json:"guests"`
	TotalPrice      float64               `json:"total_price"`
	Status          models.BookingStatus  `json:"status"`
	PaymentStatus   models.PaymentStatus  `json:"payment_status"`
	Payment         models.PaymentDetails `json:"payment_details"`
	SpecialRequests string                `json:"special_requests,omitempty"`
	Contact         models.ContactInfo    `json:"contact_info"`
	CreatedAt       time.Time             `json:"created_at"`
}

type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []models.DateRange `json:"conflicts"`
}

type ConflictResponse struct {
	Message   string             `json:"message"`
	Conflicts []models.DateRange `json:"conflicts"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type BookingListResponse struct {
	Bookings    []BookingResponse `json:"bookings"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"total_pages"`
	CurrentPage int               `json:"current_page"`
}

type ApartmentListResponse struct {
	Apartments  []models.Apartment `json:"apartments"`
	Total       int64              `json:"total"`
	TotalPages  int                `json:"total_pages"`
	CurrentPage int                `json:"current_page"`
}

type NewsListResponse struct {
	News        []models.News `json:"news"`
	Total       int64         `json:"total"`
	TotalPages  int           `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ApartmentID:     b.ApartmentID,
		UserID:          b.UserID,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Nights:          b.Nights(),
		Guests:          b.Guests,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status,
		PaymentStatus:   b.PaymentStatus,
		Payment:         b.Payment,
		SpecialRequests: b.SpecialRequests,
		Contact:         b.Contact,
		CreatedAt:       b.CreatedAt,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = ToBookingResponse(&b)
	}
	return resp
}

func TotalPages(total int64, limit int) int {
	if limit < 1 {
		limit = 10
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
