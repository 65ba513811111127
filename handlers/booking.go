package handlers

import (
	"net/http"
	"time"

	"slotify/config"
	"slotify/middleware"
	"slotify/models"
	"slotify/services/booking"
	"slotify/utils"

	"github.com/gin-gonic/gin"
)

// GetAvailability returns the offerable slots for a service, with per-date
// counts for the date picker.
func GetAvailability(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString(middleware.ContextTenantID)
		serviceID := c.Param("serviceID")

		var from, to time.Time
		if raw := c.Query("from"); raw != "" {
			parsed, err := time.Parse(models.SlotDateLayout, raw)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid 'from' date", "Expected YYYY-MM-DD")
				return
			}
			from = parsed
		}
		if raw := c.Query("to"); raw != "" {
			parsed, err := time.Parse(models.SlotDateLayout, raw)
			if err != nil {
				utils.JSONError(c, http.StatusBadRequest, "Invalid 'to' date", "Expected YYYY-MM-DD")
				return
			}
			to = parsed
		}

		result, err := svc.ResolveAvailability(c.Request.Context(), tenantID, serviceID, from, to,
			config.AppConfig.AvailabilityDays)
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GetEntitlement reports the caller's remaining pre-paid quota for a service.
func GetEntitlement(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		entitlement, err := svc.ResolveEntitlement(c.Request.Context(),
			c.GetString(middleware.ContextTenantID),
			c.GetString(middleware.ContextCustomerID),
			c.Param("serviceID"))
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, entitlement)
	}
}

// CreateLock allocates units and places a TTL-bounded capacity lock.
func CreateLock(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ServiceID       string   `json:"serviceId" binding:"required"`
			Date            string   `json:"date"`
			StartTime       string   `json:"startTime"`
			EndTime         string   `json:"endTime"`
			Adults          int      `json:"adults"`
			Children        int      `json:"children"`
			Strategy        string   `json:"strategy"`
			SelectedSlotIDs []string `json:"selectedSlotIds"`
			GuestPhone      string   `json:"guestPhone"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if req.Strategy == "" {
			req.Strategy = booking.StrategyParallel
		}

		lock, err := svc.AllocateAndLock(c.Request.Context(), booking.LockRequest{
			TenantID:        c.GetString(middleware.ContextTenantID),
			CustomerID:      c.GetString(middleware.ContextCustomerID),
			GuestPhone:      req.GuestPhone,
			ServiceID:       req.ServiceID,
			Date:            req.Date,
			StartTime:       req.StartTime,
			EndTime:         req.EndTime,
			Adults:          req.Adults,
			Children:        req.Children,
			Strategy:        req.Strategy,
			SelectedSlotIDs: req.SelectedSlotIDs,
		})
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusCreated, lock)
	}
}

// CommitBooking finalizes a lock into a booking group.
func CommitBooking(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token         string `json:"token" binding:"required"`
			Name          string `json:"name"`
			Phone         string `json:"phone"`
			Email         string `json:"email"`
			PaymentMethod string `json:"paymentMethod"`
			PaymentRef    string `json:"paymentRef"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}

		group, err := svc.Commit(c.Request.Context(), booking.CommitRequest{
			TenantID:   c.GetString(middleware.ContextTenantID),
			Token:      req.Token,
			CustomerID: c.GetString(middleware.ContextCustomerID),
			Customer: models.CustomerInfo{
				Name:  req.Name,
				Phone: req.Phone,
				Email: req.Email,
			},
			PaymentMethod: req.PaymentMethod,
			PaymentRef:    req.PaymentRef,
		})
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusCreated, group)
	}
}

// ReleaseLock voluntarily returns a lock's held capacity.
func ReleaseLock(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := svc.Release(c.Request.Context(), c.GetString(middleware.ContextTenantID), req.Token); err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"released": true})
	}
}

// GetBookingGroup fetches one booking group by id.
func GetBookingGroup(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := svc.GetGroup(c.Request.Context(),
			c.GetString(middleware.ContextTenantID), c.Param("groupID"))
		if err != nil {
			utils.JSONError(c, http.StatusNotFound, "Booking not found", err.Error())
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

// ListBookingGroups lists the authenticated customer's booking groups.
func ListBookingGroups(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		groups, err := svc.ListGroups(c.Request.Context(),
			c.GetString(middleware.ContextTenantID),
			c.GetString(middleware.ContextCustomerID))
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"groups": groups})
	}
}

// CancelBookingGroup voids a group, restoring capacity and entitlement.
func CancelBookingGroup(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		group, err := svc.CancelGroup(c.Request.Context(),
			c.GetString(middleware.ContextTenantID), c.Param("groupID"))
		if err != nil {
			respondBookingError(c, err)
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

// RecordGroupPayment attaches an externally supplied payment status.
func RecordGroupPayment(svc booking.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status     string `json:"status" binding:"required"`
			PaymentRef string `json:"paymentRef"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		err := svc.RecordPayment(c.Request.Context(),
			c.GetString(middleware.ContextTenantID), c.Param("groupID"), req.Status, req.PaymentRef)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Failed to record payment", err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"updated": true})
	}
}
