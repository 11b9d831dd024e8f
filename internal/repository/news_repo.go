package repository

import (
	"context"

	"github.com/urbanstay/rental-service/internal/models"
	"gorm.io/gorm"
)

type NewsFilter struct {
	Search string
	Page   int
	Limit  int
	// PublishedOnly hides drafts; public routes set it, admin listing does not.
	PublishedOnly bool
}

type NewsRepository interface {
	Create(ctx context.Context, news *models.News) error
	FindByID(ctx context.Context, id uint) (*models.News, error)
	List(ctx context.Context, filter NewsFilter) ([]models.News, int64, error)
	Save(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) FindByID(ctx context.Context, id uint) (*models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).Preload("Author").First(&news, id).Error; err != nil {
		return nil, err
	}
	return &news, nil
}

func (r *newsRepository) List(ctx context.Context, filter NewsFilter) ([]models.News, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.News{})
	if filter.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR content ILIKE ?", like, like)
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

	var news []models.News
	err := q.Preload("Author").
		Order("published_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&news).Error
	if err != nil {
		return nil, 0, err
	}
	return news, total, nil
}

func (r *newsRepository) Save(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.News{}, id).Error
}
