package models

import (
	"math"
	"time"
)

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// ValidBookingStatus reports whether s is one of the four booking states.
func ValidBookingStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ActiveStatuses are the states that block an apartment's calendar.
// Cancelled and completed bookings do not.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type PaymentDetails struct {
	TransactionID string     `json:"transaction_id,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
}

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DateRange is a half-open [CheckIn, CheckOut) interval.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type Booking struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	ApartmentID     uint           `gorm:"not null;index" json:"apartment_id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	CheckIn         time.Time      `gorm:"not null" json:"check_in"`
	CheckOut        time.Time      `gorm:"not null" json:"check_out"`
	Guests          int            `gorm:"not null" json:"guests"`
	TotalPrice      float64        `gorm:"not null" json:"total_price"`
	Status          BookingStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus   PaymentStatus  `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	Payment         PaymentDetails `gorm:"embedded;embeddedPrefix:payment_" json:"payment_details"`
	SpecialRequests string         `gorm:"size:500" json:"special_requests,omitempty"`
	Contact         ContactInfo    `gorm:"embedded;embeddedPrefix:contact_" json:"contact_info"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Apartment *Apartment `gorm:"foreignKey:ApartmentID" json:"apartment,omitempty"`
}

// Nights is the canonical night count: calendar-day granularity, any
// positive fraction of a day rounds up. Stored totals and reported
// nights both go through here so the two can never diverge.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func (b *Booking) Nights() int {
	return Nights(b.CheckIn, b.CheckOut)
}

func (b *Booking) Range() DateRange {
	return DateRange{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
}
