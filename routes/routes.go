package routes

import (
	"net/http"
	"time"

	"slotify/handlers"
	"slotify/middleware"
	"slotify/services/booking"
	"slotify/services/verification"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface onto the router.
func SetupRoutes(r *gin.Engine, bookingSvc booking.BookingService, verificationSvc verification.Service) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Tenant-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.Identify())

	verify := api.Group("/verification")
	{
		verify.POST("/send", handlers.SendVerificationCode(verificationSvc))
		verify.POST("/check", handlers.CheckVerificationCode(verificationSvc))
		verify.POST("/change", handlers.ChangeVerificationNumber(verificationSvc))
	}

	tenant := api.Group("")
	tenant.Use(middleware.RequireTenant())
	{
		tenant.GET("/services/:serviceID/availability", handlers.GetAvailability(bookingSvc))
		tenant.GET("/services/:serviceID/entitlement",
			middleware.RequireCustomer(), handlers.GetEntitlement(bookingSvc))

		bookings := tenant.Group("/bookings")
		{
			bookings.POST("/lock", handlers.CreateLock(bookingSvc))
			bookings.POST("/commit", handlers.CommitBooking(bookingSvc))
			bookings.POST("/release", handlers.ReleaseLock(bookingSvc))
			bookings.GET("", middleware.RequireCustomer(), handlers.ListBookingGroups(bookingSvc))
			bookings.GET("/:groupID", handlers.GetBookingGroup(bookingSvc))
			bookings.POST("/:groupID/cancel", handlers.CancelBookingGroup(bookingSvc))
			bookings.PATCH("/:groupID/payment", handlers.RecordGroupPayment(bookingSvc))
		}
	}
}
