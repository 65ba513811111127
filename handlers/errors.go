package handlers

import (
	"errors"
	"net/http"

	"slotify/services/booking"
	"slotify/services/verification"
	"slotify/utils"

	"github.com/gin-gonic/gin"
)

// respondBookingError maps booking engine errors onto HTTP statuses. Capacity
// shortfalls carry their numbers so clients can offer an actionable retry.
func respondBookingError(c *gin.Context, err error) {
	if ice, ok := booking.AsInsufficientCapacity(err); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     "insufficient_capacity",
			"requested": ice.Requested,
			"available": ice.Available,
		})
		return
	}
	switch {
	case errors.Is(err, booking.ErrLockExpired):
		// Clients should treat an expired lock like a capacity miss and
		// restart from allocation.
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "lock_expired"})
	case errors.Is(err, booking.ErrVerificationRequired):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "verification_required"})
	case errors.Is(err, booking.ErrMixedResourceSelection):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "mixed_resource_selection"})
	case errors.Is(err, booking.ErrNoSlotSelected):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "no_slot_selected"})
	case errors.Is(err, booking.ErrCommitFailed):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "commit_failed"})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Booking operation failed", err.Error())
	}
}

// respondVerificationError maps guest-verification errors onto HTTP statuses.
func respondVerificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, verification.ErrInvalidPhoneFormat):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_phone_format"})
	case errors.Is(err, verification.ErrOTPExpired):
		c.AbortWithStatusJSON(http.StatusGone, gin.H{"error": "code_expired"})
	case errors.Is(err, verification.ErrOTPMismatch):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "code_mismatch"})
	case errors.Is(err, verification.ErrResendCooldown):
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "resend_cooldown"})
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Verification failed", err.Error())
	}
}
