package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"gorm.io/gorm"
)

type ApartmentService interface {
	ListApartments(ctx context.Context, filter repository.ApartmentFilter) ([]models.Apartment, int64, error)
	GetApartment(ctx context.Context, id uint) (*models.Apartment, error)
	CreateApartment(ctx context.Context, apartment *models.Apartment) error
	UpdateApartment(ctx context.Context, id uint, apartment *models.Apartment) (*models.Apartment, error)
	DeactivateApartment(ctx context.Context, id uint) error
}

type apartmentService struct {
	repo repository.ApartmentRepository
}

func NewApartmentService(repo repository.ApartmentRepository) ApartmentService {
	return &apartmentService{repo: repo}
}

func (s *apartmentService) ListApartments(ctx context.Context, filter repository.ApartmentFilter) ([]models.Apartment, int64, error) {
	return s.repo.List(ctx, filter)
}

// GetApartment hides inactive apartments; they stay in the table because
// past bookings still reference them.
func (s *apartmentService) GetApartment(ctx context.Context, id uint) (*models.Apartment, error) {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("find apartment: %w", err)
	}
	if !apartment.IsActive {
		return nil, ErrApartmentNotFound
	}
	return apartment, nil
}

func (s *apartmentService) CreateApartment(ctx context.Context, apartment *models.Apartment) error {
	apartment.IsActive = true
	if err := s.repo.Create(ctx, apartment); err != nil {
		return fmt.Errorf("create apartment: %w", err)
	}
	return nil
}

func (s *apartmentService) UpdateApartment(ctx context.Context, id uint, updated *models.Apartment) (*models.Apartment, error) {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("find apartment: %w", err)
	}

	apartment.Title = updated.Title
	apartment.Description = updated.Description
	apartment.ShortDescription = updated.ShortDescription
	apartment.Price = updated.Price
	apartment.Location = updated.Location
	apartment.Amenities = updated.Amenities
	apartment.Images = updated.Images
	apartment.MaxGuests = updated.MaxGuests
	apartment.Bedrooms = updated.Bedrooms
	apartment.Bathrooms = updated.Bathrooms
	apartment.Area = updated.Area

	if err := s.repo.Save(ctx, apartment); err != nil {
		return nil, fmt.Errorf("save apartment: %w", err)
	}
	return apartment, nil
}

func (s *apartmentService) DeactivateApartment(ctx context.Context, id uint) error {
	apartment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApartmentNotFound
		}
		return fmt.Errorf("find apartment: %w", err)
	}
	apartment.IsActive = false
	if err := s.repo.Save(ctx, apartment); err != nil {
		return fmt.Errorf("save apartment: %w", err)
	}
	return nil
}
