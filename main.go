package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/urbanstay/rental-service/config"
	"github.com/urbanstay/rental-service/internal/handler"
	"github.com/urbanstay/rental-service/internal/middleware"
	"github.com/urbanstay/rental-service/internal/repository"
	"github.com/urbanstay/rental-service/internal/service"
	"github.com/urbanstay/rental-service/pkg/database"
	"github.com/urbanstay/rental-service/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	// RabbitMQ is optional: booking flows work without the event stream
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Printf("rabbitmq unavailable, lifecycle events disabled: %v", err)
		publisher = nil
	} else {
		defer publisher.Close()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	apartmentRepo := repository.NewApartmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	newsRepo := repository.NewNewsRepository(db)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	apartmentSvc := service.NewApartmentService(apartmentRepo)
	bookingSvc := service.NewBookingService(bookingRepo, apartmentRepo, publisher)
	newsSvc := service.NewNewsService(newsRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "rental-service"})
	})

	authMW := middleware.RequireAuth(cfg.JWTSecret)
	adminMW := middleware.RequireAdmin()

	handler.NewAuthHandler(authSvc).RegisterRoutes(e, authMW)
	handler.NewApartmentHandler(apartmentSvc).RegisterRoutes(e, authMW, adminMW)
	handler.NewBookingHandler(bookingSvc).RegisterRoutes(e, authMW, adminMW)
	handler.NewNewsHandler(newsSvc).RegisterRoutes(e, authMW, adminMW)

	log.Printf("Rental Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
