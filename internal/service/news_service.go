package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"gorm.io/gorm"
)

type NewsService interface {
	ListNews(ctx context.Context, filter repository.NewsFilter) ([]models.News, int64, error)
	GetPublishedNews(ctx context.Context, id uint) (*models.News, error)
	CreateNews(ctx context.Context, news *models.News) error
	UpdateNews(ctx context.Context, id uint, news *models.News) (*models.News, error)
	DeleteNews(ctx context.Context, id uint) error
}

type newsService struct {
	repo repository.NewsRepository
}

func NewNewsService(repo repository.NewsRepository) NewsService {
	return &newsService{repo: repo}
}

func (s *newsService) ListNews(ctx context.Context, filter repository.NewsFilter) ([]models.News, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *newsService) GetPublishedNews(ctx context.Context, id uint) (*models.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}
	if !news.IsPublished {
		return nil, ErrNewsNotFound
	}
	return news, nil
}

func (s *newsService) CreateNews(ctx context.Context, news *models.News) error {
	if news.IsPublished && news.PublishedAt == nil {
		now := time.Now()
		news.PublishedAt = &now
	}
	if err := s.repo.Create(ctx, news); err != nil {
		return fmt.Errorf("create news: %w", err)
	}
	return nil
}

func (s *newsService) UpdateNews(ctx context.Context, id uint, updated *models.News) (*models.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, fmt.Errorf("find news: %w", err)
	}

	news.Title = updated.Title
	news.Content = updated.Content
	news.Excerpt = updated.Excerpt
	if updated.IsPublished && !news.IsPublished {
		now := time.Now()
		news.PublishedAt = &now
	}
	news.IsPublished = updated.IsPublished

	if err := s.repo.Save(ctx, news); err != nil {
		return nil, fmt.Errorf("save news: %w", err)
	}
	return news, nil
}

func (s *newsService) DeleteNews(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsNotFound
		}
		return fmt.Errorf("find news: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
