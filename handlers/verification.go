package handlers

import (
	"net/http"

	"slotify/services/verification"
	"slotify/utils"

	"github.com/gin-gonic/gin"
)

type phoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendVerificationCode starts or resends the guest phone challenge.
func SendVerificationCode(svc verification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req phoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := svc.SendCode(c.Request.Context(), req.Phone); err != nil {
			respondVerificationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": true})
	}
}

// CheckVerificationCode submits a code. Verification is terminal and
// idempotent: re-submitting after success returns verified again.
func CheckVerificationCode(svc verification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone" binding:"required"`
			Code  string `json:"code" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := svc.VerifyCode(c.Request.Context(), req.Phone, req.Code); err != nil {
			respondVerificationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"verified": true})
	}
}

// ChangeVerificationNumber abandons the pending challenge so the guest can
// start over with a different phone.
func ChangeVerificationNumber(svc verification.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req phoneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		if err := svc.ChangeNumber(c.Request.Context(), req.Phone); err != nil {
			respondVerificationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reset": true})
	}
}
