package verification

import (
	"errors"
	"time"

	"slotify/models"
)

// Guest-flow errors. All are recoverable by re-entry.
var (
	ErrInvalidPhoneFormat = errors.New("invalid phone number format")
	ErrOTPExpired         = errors.New("verification code expired")
	ErrOTPMismatch        = errors.New("verification code does not match")
	ErrResendCooldown     = errors.New("resend cooldown has not elapsed")
)

// NewSession starts a verification session in the OTP_SENT state: a session
// only exists once a code has been generated for a phone number.
func NewSession(phone, code string, now time.Time, ttl, cooldown time.Duration) models.OTPSession {
	return models.OTPSession{
		Phone:         phone,
		Code:          code,
		State:         models.OTPStateSent,
		ExpiresAt:     now.Add(ttl),
		CooldownUntil: now.Add(cooldown),
		CreatedAt:     now,
	}
}

// Resend regenerates the code and resets the cooldown. Allowed only after
// the previous cooldown elapsed; a verified session is left untouched.
func Resend(s models.OTPSession, code string, now time.Time, ttl, cooldown time.Duration) (models.OTPSession, error) {
	if s.State == models.OTPStateVerified {
		return s, nil
	}
	if now.Before(s.CooldownUntil) {
		return s, ErrResendCooldown
	}
	s.Code = code
	s.State = models.OTPStateSent
	s.ExpiresAt = now.Add(ttl)
	s.CooldownUntil = now.Add(cooldown)
	return s, nil
}

// Submit applies a code submission to the session. A wrong code keeps the
// session in OTP_SENT; a correct code before expiry transitions to VERIFIED.
// Re-verifying an already-verified session is a no-op: it neither errors nor
// resets the cooldown.
func Submit(s models.OTPSession, code string, now time.Time) (models.OTPSession, error) {
	if s.State == models.OTPStateVerified {
		return s, nil
	}
	if s.State != models.OTPStateSent {
		return s, ErrOTPExpired
	}
	if now.After(s.ExpiresAt) {
		return s, ErrOTPExpired
	}
	if s.Code != code {
		return s, ErrOTPMismatch
	}
	s.State = models.OTPStateVerified
	s.Code = ""
	return s, nil
}
