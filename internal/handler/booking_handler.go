package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/urbanstay/rental-service/internal/dto"
	"github.com/urbanstay/rental-service/internal/middleware"
	"github.com/urbanstay/rental-service/internal/models"
	"github.com/urbanstay/rental-service/internal/repository"
	"github.com/urbanstay/rental-service/internal/service"
)

var validate = validator.New()

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo, authMW, adminMW echo.MiddlewareFunc) {
	e.GET("/api/v1/apartments/:id/availability", h.CheckAvailability)

	bookings := e.Group("/api/v1/bookings", authMW)
	bookings.POST("", h.CreateBooking)
	bookings.GET("/my", h.ListMyBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.DELETE("/:id", h.CancelBooking)
	bookings.POST("/:id/payment", h.PayBooking)

	admin := e.Group("/api/v1/admin", authMW, adminMW)
	admin.GET("/bookings", h.AdminListBookings)
	admin.PATCH("/bookings/:id/status", h.AdminSetStatus)
	admin.GET("/stats", h.AdminStats)
}

func (h *BookingHandler) CheckAvailability(c echo.Context) error {
	apartmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid apartment id")
	}

	checkIn, err := parseDate(c.QueryParam("check_in"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid check_in date")
	}
	checkOut, err := parseDate(c.QueryParam("check_out"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid check_out date")
	}

	availability, err := h.svc.CheckAvailability(c.Request().Context(), uint(apartmentID), checkIn, checkOut)
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.AvailabilityResponse{
		Available: availability.Available,
		Conflicts: availability.Conflicts,
	})
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req dto.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal := middleware.PrincipalFrom(c)
	booking, err := h.svc.CreateBooking(c.Request().Context(), principal, service.CreateBookingInput{
		ApartmentID:     req.ApartmentID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		var conflict *service.DateConflictError
		if errors.As(err, &conflict) {
			return c.JSON(http.StatusConflict, dto.ConflictResponse{
				Message:   conflict.Error(),
				Conflicts: conflict.Conflicts,
			})
		}
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.GetBooking(c.Request().Context(), middleware.PrincipalFrom(c), uint(id))
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListMyBookings(c echo.Context) error {
	bookings, err := h.svc.ListMyBookings(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return bookingHTTPError(err)
	}
	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	booking, err := h.svc.CancelBooking(c.Request().Context(), middleware.PrincipalFrom(c), uint(id))
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) PayBooking(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.PayBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.svc.ProcessPayment(c.Request().Context(), middleware.PrincipalFrom(c), uint(id), req.PaymentMethod)
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) AdminListBookings(c echo.Context) error {
	filter := repository.BookingFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 10),
	}
	if s := c.QueryParam("status"); s != "" {
		st := models.BookingStatus(s)
		if !models.ValidBookingStatus(st) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status filter")
		}
		filter.Status = &st
	}
	if v := c.QueryParam("apartment_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid apartment_id filter")
		}
		filter.ApartmentID = uint(id)
	}
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid user_id filter")
		}
		filter.UserID = uint(id)
	}

	bookings, total, err := h.svc.AdminListBookings(c.Request().Context(), filter)
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.BookingListResponse{
		Bookings:    dto.ToBookingResponses(bookings),
		Total:       total,
		TotalPages:  dto.TotalPages(total, filter.Limit),
		CurrentPage: filter.Page,
	})
}

func (h *BookingHandler) AdminSetStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid booking id")
	}

	var req dto.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.svc.AdminSetStatus(c.Request().Context(), uint(id), models.BookingStatus(req.Status))
	if err != nil {
		return bookingHTTPError(err)
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) AdminStats(c echo.Context) error {
	stats, err := h.svc.AdminStats(c.Request().Context())
	if err != nil {
		return bookingHTTPError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func bookingHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrApartmentNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrPastCheckIn),
		errors.Is(err, service.ErrGuestLimitExceeded),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrCancellationWindowPassed):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrNotCancellable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		// storage failures: no business detail to surface
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

// parseDate accepts RFC3339 or plain dates; plain dates mean midnight UTC.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func queryInt(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
