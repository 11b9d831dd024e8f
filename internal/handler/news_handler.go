package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/urbanstay/rental-service/internal/dto"
	"github.com/urbanstay/rental-service/internal/middleware"
	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"github.com/urbanstay/rental-service/internal/service"
)

type NewsHandler struct {
	svc service.NewsService
}

func NewNewsHandler(svc service.NewsService) *NewsHandler {
	return &NewsHandler{svc: svc}
}

func (h *NewsHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	news := e.Group("/api/v1/news")
	news.GET("", h.ListNews)
	news.GET("/:id", h.GetNews)

	admin := e.Group("/api/v1/admin/news", authMW, adminMW)
	admin.POST("", h.CreateNews)
	admin.PUT("/:id", h.UpdateNews)
	admin.DELETE("/:id", h.DeleteNews)
}

func (h *NewsHandler) ListNews(c echo.Context) error {
	filter := repository.NewsFilter{
		Search:        c.QueryParam("search"),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 10),
		PublishedOnly: true,
	}

	news, total, err := h.svc.ListNews(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, dto.NewsListResponse{
		News:        news,
		Total:       total,
		TotalPages:  dto.TotalPages(total, filter.Limit),
		CurrentPage: filter.Page,
	})
}

func (h *NewsHandler) GetNews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid news id")
	}

	news, err := h.svc.GetPublishedNews(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, news)
}

func (h *NewsHandler) CreateNews(c echo.Context) error {
	var req dto.NewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	news := &models.News{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		AuthorID:    middleware.PrincipalFrom(c).UserID,
		IsPublished: req.IsPublished,
	}
	if err := h.svc.CreateNews(c.Request().Context(), news); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, news)
}

func (h *NewsHandler) UpdateNews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid news id")
	}

	var req dto.NewsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	news, err := h.svc.UpdateNews(c.Request().Context(), uint(id), &models.News{
		Title:       req.Title,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, news)
}

func (h *NewsHandler) DeleteNews(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid news id")
	}

	if err := h.svc.DeleteNews(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrNewsNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}
