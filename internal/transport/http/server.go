package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"

	"devicepulse/internal/config"
	"devicepulse/internal/database"
	"devicepulse/internal/handler"
	"devicepulse/internal/repository"
	"devicepulse/internal/service"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Client().Disconnect(context.Background())

	// 3. Repositories share the single database handle
	userRepo := repository.NewUserRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	tokenRepo := repository.NewDeviceTokenRepository(db)

	// 4. Services
	userService := service.NewUserService(userRepo)
	authService := service.NewAuthService(cfg)
	deviceService := service.NewDeviceService(deviceRepo)
	notifService := service.NewNotificationService(notifRepo, tokenRepo)
	expoPush := service.NewExpoPushClient(cfg.ExpoPushURL)

	// 5. Handlers and router
	router := NewRouter(RouterConfig{
		UserHandler:         handler.NewUserHandler(userService, authService, cfg),
		DeviceHandler:       handler.NewDeviceHandler(deviceService),
		NotificationHandler: handler.NewNotificationHandler(notifService, expoPush),
		JWTSecret:           cfg.JWTSecret,
	})

	addr := ":" + cfg.ServerPort
	log.Printf("Starting server on %s", addr)

	return stdhttp.ListenAndServe(addr, router)
}
