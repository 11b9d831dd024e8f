package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/urbanstay/rental-service/internal/dto"
	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"github.com/urbanstay/rental-service/internal/service"
	"gorm.io/datatypes"
)

type ApartmentHandler struct {
	svc service.ApartmentService
}

func NewApartmentHandler(svc service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{svc: svc}
}

func (h *ApartmentHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	apartments := e.Group("/api/v1/apartments")
	apartments.GET("", h.ListApartments)
	apartments.GET("/:id", h.GetApartment)

	admin := e.Group("/api/v1/admin/apartments", authMW, adminMW)
	admin.POST("", h.CreateApartment)
	admin.PUT("/:id", h.UpdateApartment)
	admin.DELETE("/:id", h.DeactivateApartment)
}

func (h *ApartmentHandler) ListApartments(c echo.Context) error {
	filter := repository.ApartmentFilter{
		Search: c.QueryParam("search"),
		City:   c.QueryParam("city"),
		Page:   queryInt(c, "page", 1),
		Limit:  queryInt(c, "limit", 10),
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid min_price")
		}
		filter.MinPrice = p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid max_price")
		}
		filter.MaxPrice = p
	}

	apartments, total, err := h.svc.ListApartments(c.Request().Context(), filter)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, dto.ApartmentListResponse{
		Apartments:  apartments,
		Total:       total,
		TotalPages:  dto.TotalPages(total, filter.Limit),
		CurrentPage: filter.Page,
	})
}

func (h *ApartmentHandler) GetApartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid apartment id")
	}

	apartment, err := h.svc.GetApartment(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrApartmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, apartment)
}

func (h *ApartmentHandler) CreateApartment(c echo.Context) error {
	apartment, err := bindApartment(c)
	if err != nil {
		return err
	}

	if err := h.svc.CreateApartment(c.Request().Context(), apartment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusCreated, apartment)
}

func (h *ApartmentHandler) UpdateApartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid apartment id")
	}

	updated, err := bindApartment(c)
	if err != nil {
		return err
	}

	apartment, err := h.svc.UpdateApartment(c.Request().Context(), uint(id), updated)
	if err != nil {
		if errors.Is(err, service.ErrApartmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, apartment)
}

func (h *ApartmentHandler) DeactivateApartment(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid apartment id")
	}

	if err := h.svc.DeactivateApartment(c.Request().Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrApartmentNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.NoContent(http.StatusNoContent)
}

func bindApartment(c echo.Context) (*models.Apartment, error) {
	var req dto.ApartmentRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amenities, _ := json.Marshal(req.Amenities)
	images, _ := json.Marshal(req.Images)

	country := req.Country
	if country == "" {
		country = "Magyarország"
	}

	return &models.Apartment{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		Location: models.Location{
			Address: req.Address,
			City:    req.City,
			Country: country,
		},
		Amenities: datatypes.JSON(amenities),
		Images:    datatypes.JSON(images),
		MaxGuests: req.MaxGuests,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Area:      req.Area,
	}, nil
}
