package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slotify/config"
	"slotify/cron"
	"slotify/database"
	"slotify/database/repository/bookingrepo"
	"slotify/database/repository/catalog"
	"slotify/database/repository/customer"
	"slotify/database/repository/entitlement"
	"slotify/database/repository/slot"
	"slotify/middleware"
	"slotify/routes"
	"slotify/services/booking"
	"slotify/services/notification"
	"slotify/services/tasks"
	"slotify/services/verification"
	"slotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	database.InitDB()
	utils.InitRedis()

	slots := slotRepo.NewMongoSlotRepo()
	if repo, ok := slots.(*slotRepo.MongoSlotRepo); ok {
		if err := repo.EnsureIndexes(); err != nil {
			logger.Fatal("failed to ensure slot indexes", zap.Error(err))
		}
	}

	verificationSvc := &verification.DefaultVerificationService{
		Store:    verification.NewRedisSessionStore(),
		Sender:   verification.LogSender{},
		TTL:      config.OTPTTL(),
		Cooldown: config.OTPCooldown(),
	}

	bookingSvc := &booking.DefaultBookingService{
		Catalog:      catalogRepo.NewMongoCatalogRepo(),
		Slots:        slots,
		Entitlements: entitlementRepo.NewMongoEntitlementRepo(),
		Bookings:     bookingRepo.NewMongoBookingRepo(),
		Customers:    customerRepo.NewMongoCustomerRepo(),
		Locks:        booking.NewRedisLockStore(),
		Verifier:     verificationSvc,
		Notifier:     tasks.Enqueuer{},
		Scheduler:    tasks.Enqueuer{},
		LockTTL:      config.LockTTL(),
		AvailCache:   booking.NewRedisAvailabilityCache(),
		AvailTTL:     config.AvailabilityCacheTTL(),
	}

	worker := cron.NewWorker(bookingSvc, notification.LogNotifier{})
	if err := worker.Start(); err != nil {
		logger.Fatal("failed to start task worker", zap.Error(err))
	}

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RateLimitMiddleware())
	routes.SetupRoutes(router, bookingSvc, verificationSvc)

	server := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", config.AppConfig.AppPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	worker.Shutdown()
	tasks.CloseClient()

	disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer disconnectCancel()
	if err := database.MongoClient.Disconnect(disconnectCtx); err != nil {
		logger.Error("Failed to disconnect MongoDB", zap.Error(err))
	}
	logger.Info("Server exited")
}
