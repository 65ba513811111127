package verification

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"slotify/models"
	"slotify/utils"

	"go.uber.org/zap"
)

// CodeSender dispatches a generated code to a phone number. Delivery itself
// is an external collaborator; the default sender only logs.
type CodeSender interface {
	SendCode(phone, code string) error
}

// LogSender is the development sender.
type LogSender struct{}

func (LogSender) SendCode(phone, code string) error {
	utils.GetLogger().Sugar().Infof("Sending verification code %s to %s", code, phone)
	return nil
}

// Service is the guest phone-verification surface.
type Service interface {
	SendCode(ctx context.Context, phone string) error
	VerifyCode(ctx context.Context, phone, code string) error
	ChangeNumber(ctx context.Context, phone string) error
	IsVerified(ctx context.Context, phone string) (bool, error)
}

// DefaultVerificationService drives the PHONE → OTP_SENT → VERIFIED machine
// over a session store.
type DefaultVerificationService struct {
	Store    SessionStore
	Sender   CodeSender
	TTL      time.Duration // code lifetime
	Cooldown time.Duration // minimum wait between sends
}

// verifiedSessionTTL keeps a verified session around long enough to finish
// checkout.
const verifiedSessionTTL = 30 * time.Minute

// generateCode returns a secure random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendCode starts a session for a new number or resends after the cooldown.
func (s *DefaultVerificationService) SendCode(ctx context.Context, phone string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	code, err := generateCode()
	if err != nil {
		return err
	}
	now := time.Now()

	existing, err := s.Store.Get(ctx, normalized)
	if err != nil {
		return err
	}
	var session models.OTPSession
	if existing == nil {
		session = NewSession(normalized, code, now, s.TTL, s.Cooldown)
	} else {
		session, err = Resend(*existing, code, now, s.TTL, s.Cooldown)
		if err != nil {
			return err
		}
		if session.State == models.OTPStateVerified {
			// Nothing to send; verification already succeeded.
			return nil
		}
	}
	if err := s.Store.Save(ctx, session, s.TTL+s.Cooldown); err != nil {
		return err
	}
	if err := s.Sender.SendCode(normalized, code); err != nil {
		utils.GetLogger().Error("failed to dispatch verification code",
			zap.String("phone", normalized), zap.Error(err))
		return fmt.Errorf("failed to send verification code")
	}
	return nil
}

// VerifyCode submits a code. Success is idempotent and terminal.
func (s *DefaultVerificationService) VerifyCode(ctx context.Context, phone, code string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	session, err := s.Store.Get(ctx, normalized)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrOTPExpired
	}
	updated, err := Submit(*session, code, time.Now())
	if err != nil {
		return err
	}
	if updated.State == session.State {
		// Already verified: no-op, cooldown untouched.
		return nil
	}
	return s.Store.Save(ctx, updated, verifiedSessionTTL)
}

// ChangeNumber discards the pending session, returning the guest to the
// PHONE state.
func (s *DefaultVerificationService) ChangeNumber(ctx context.Context, phone string) error {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return err
	}
	return s.Store.Delete(ctx, normalized)
}

// IsVerified reports whether the phone holds a VERIFIED session. This is the
// gate the booking commit consults for guests.
func (s *DefaultVerificationService) IsVerified(ctx context.Context, phone string) (bool, error) {
	normalized, err := NormalizePhone(phone)
	if err != nil {
		return false, err
	}
	session, err := s.Store.Get(ctx, normalized)
	if err != nil {
		return false, err
	}
	return session != nil && session.State == models.OTPStateVerified, nil
}
