package verification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"slotify/models"
)

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.OTPSession
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]models.OTPSession)}
}

func (s *memSessionStore) Get(ctx context.Context, phone string) (*models.OTPSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[phone]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *memSessionStore) Save(ctx context.Context, session models.OTPSession, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Phone] = session
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, phone)
	return nil
}

type captureSender struct {
	mu    sync.Mutex
	codes []string
}

func (c *captureSender) SendCode(phone, code string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.codes = append(c.codes, code)
	return nil
}

func newTestVerification() (*DefaultVerificationService, *captureSender) {
	sender := &captureSender{}
	return &DefaultVerificationService{
		Store:    newMemSessionStore(),
		Sender:   sender,
		TTL:      5 * time.Minute,
		Cooldown: time.Minute,
	}, sender
}

func TestVerificationFlow(t *testing.T) {
	svc, sender := newTestVerification()
	ctx := context.Background()
	phone := "+15550001111"

	verified, err := svc.IsVerified(ctx, phone)
	if err != nil || verified {
		t.Fatalf("fresh number verified=%v err=%v, want false", verified, err)
	}

	if err := svc.SendCode(ctx, phone); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if len(sender.codes) != 1 || len(sender.codes[0]) != 6 {
		t.Fatalf("sent codes = %v, want one 6-digit code", sender.codes)
	}

	if err := svc.VerifyCode(ctx, phone, "xxxxxx"); !errors.Is(err, ErrOTPMismatch) {
		t.Fatalf("wrong code got %v, want ErrOTPMismatch", err)
	}
	if err := svc.VerifyCode(ctx, phone, sender.codes[0]); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	verified, err = svc.IsVerified(ctx, phone)
	if err != nil || !verified {
		t.Fatalf("verified=%v err=%v, want true", verified, err)
	}

	// Verification is terminal: re-submitting any code still succeeds.
	if err := svc.VerifyCode(ctx, phone, "garbage"); err != nil {
		t.Errorf("re-verify got %v, want nil", err)
	}
}

func TestSendCodeCooldown(t *testing.T) {
	svc, _ := newTestVerification()
	ctx := context.Background()
	phone := "+15550001111"

	if err := svc.SendCode(ctx, phone); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if err := svc.SendCode(ctx, phone); !errors.Is(err, ErrResendCooldown) {
		t.Fatalf("immediate resend got %v, want ErrResendCooldown", err)
	}
}

func TestVerifyCodeWithoutSession(t *testing.T) {
	svc, _ := newTestVerification()
	if err := svc.VerifyCode(context.Background(), "+15550001111", "123456"); !errors.Is(err, ErrOTPExpired) {
		t.Fatalf("got %v, want ErrOTPExpired", err)
	}
}

func TestChangeNumberResetsSession(t *testing.T) {
	svc, sender := newTestVerification()
	ctx := context.Background()
	phone := "+15550001111"

	if err := svc.SendCode(ctx, phone); err != nil {
		t.Fatalf("SendCode: %v", err)
	}
	if err := svc.VerifyCode(ctx, phone, sender.codes[0]); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if err := svc.ChangeNumber(ctx, phone); err != nil {
		t.Fatalf("ChangeNumber: %v", err)
	}
	verified, err := svc.IsVerified(ctx, phone)
	if err != nil || verified {
		t.Fatalf("verified=%v after change, want false", verified)
	}
	// The abandoned session's cooldown is gone with it.
	if err := svc.SendCode(ctx, phone); err != nil {
		t.Errorf("SendCode after change: %v", err)
	}
}

func TestSendCodeRejectsMalformedPhone(t *testing.T) {
	svc, sender := newTestVerification()
	if err := svc.SendCode(context.Background(), "not-a-phone"); !errors.Is(err, ErrInvalidPhoneFormat) {
		t.Fatalf("got %v, want ErrInvalidPhoneFormat", err)
	}
	if len(sender.codes) != 0 {
		t.Error("code dispatched for malformed phone")
	}
}
