package repository

import (
	"context"

	"github.com/urbanstay/rental-service/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApartmentFilter narrows public listing queries. Zero values mean "no filter".
type ApartmentFilter struct {
	Search   string
	City     string
	MinPrice float64
	MaxPrice float64
	Page     int
	Limit    int
}

type ApartmentRepository interface {
	Create(ctx context.Context, apartment *models.Apartment) error
	FindByID(ctx context.Context, id uint) (*models.Apartment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Apartment, error)
	List(ctx context.Context, filter ApartmentFilter) ([]models.Apartment, int64, error)
	Save(ctx context.Context, apartment *models.Apartment) error
}

type apartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) ApartmentRepository {
	return &apartmentRepository{db: db}
}

func (r *apartmentRepository) Create(ctx context.Context, apartment *models.Apartment) error {
	return r.db.WithContext(ctx).Create(apartment).Error
}

func (r *apartmentRepository) FindByID(ctx context.Context, id uint) (*models.Apartment, error) {
	var apartment models.Apartment
	if err := r.db.WithContext(ctx).First(&apartment, id).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

// FindByIDForUpdate locks the apartment row within the given transaction.
// This is the serialization point for concurrent booking creation: the
// availability check and the insert both happen while the lock is held.
func (r *apartmentRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Apartment, error) {
	var apartment models.Apartment
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&apartment, id).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

func (r *apartmentRepository) List(ctx context.Context, filter ApartmentFilter) ([]models.Apartment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Apartment{}).Where("is_active = ?", true)
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ? OR location_city ILIKE ?", like, like, like)
	}
	if filter.City != "" {
		q = q.Where("location_city ILIKE ?", "%"+filter.City+"%")
	}
	if filter.MinPrice > 0 {
		q = q.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		q = q.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var apartments []models.Apartment
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&apartments).Error
	if err != nil {
		return nil, 0, err
	}
	return apartments, total, nil
}

func (r *apartmentRepository) Save(ctx context.Context, apartment *models.Apartment) error {
	return r.db.WithContext(ctx).Save(apartment).Error
}
