package models

import "time"

// OTPState enumerates the guest verification state machine.
type OTPState string

const (
	OTPStatePhone    OTPState = "phone"    // number entered, no code outstanding
	OTPStateSent     OTPState = "otp_sent" // code generated and dispatched
	OTPStateVerified OTPState = "verified" // terminal; gates guest commit
)

// OTPSession is the per-phone verification session for guest checkout. It is
// created on the first send-code request and invalidated on verification
// expiry or a user-initiated number change.
type OTPSession struct {
	Phone         string    `json:"phone"`
	Code          string    `json:"code"`
	State         OTPState  `json:"state"`
	ExpiresAt     time.Time `json:"expiresAt"`     // code expiry
	CooldownUntil time.Time `json:"cooldownUntil"` // earliest allowed resend
	CreatedAt     time.Time `json:"createdAt"`
}
