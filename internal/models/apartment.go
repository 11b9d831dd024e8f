package models

import (
	"time"

	"gorm.io/datatypes"
)

type Location struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type Apartment struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"not null" json:"title"`
	Description      string         `gorm:"not null" json:"description"`
	ShortDescription string         `gorm:"size:200;not null" json:"short_description"`
	Price            float64        `gorm:"not null" json:"price"`
	Location         Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`
	Amenities        datatypes.JSON `json:"amenities"`
	Images           datatypes.JSON `json:"images"`
	MaxGuests        int            `gorm:"not null" json:"max_guests"`
	Bedrooms         int            `gorm:"not null" json:"bedrooms"`
	Bathrooms        int            `gorm:"not null" json:"bathrooms"`
	Area             int            `gorm:"not null" json:"area"` // m2
	IsActive         bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
