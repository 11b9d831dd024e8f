package dto

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Phone    string `json:"phone"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateBookingRequest struct {
	ApartmentID     uint      `json:"apartment_id" validate:"required"`
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required"`
	Guests          int       `json:"guests" validate:"required,gte=1"`
	SpecialRequests string    `json:"special_requests" validate:"max=500"`
}

type PayBookingRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ApartmentRequest struct {
	Title            string   `json:"title" validate:"required"`
	Description      string   `json:"description" validate:"required"`
	ShortDescription string   `json:"short_description" validate:"required,max=200"`
	Price            float64  `json:"price" validate:"gte=0"`
	Address          string   `json:"address" validate:"required"`
	City             string   `json:"city" validate:"required"`
	Country          string   `json:"country"`
	Amenities        []string `json:"amenities"`
	Images           []Image  `json:"images"`
	MaxGuests        int      `json:"max_guests" validate:"required,gte=1"`
	Bedrooms         int      `json:"bedrooms" validate:"required,gte=1"`
	Bathrooms        int      `json:"bathrooms" validate:"required,gte=1"`
	Area             int      `json:"area" validate:"required,gt=0"`
}

type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type NewsRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Excerpt     string `json:"excerpt" validate:"max=300"`
	IsPublished bool   `json:"is_published"`
}
