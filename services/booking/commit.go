package booking

import (
	"context"
	"fmt"
	"time"

	"slotify/models"
	"slotify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommitRequest finalizes a held lock into a booking group.
type CommitRequest struct {
	TenantID   string
	Token      string
	CustomerID string              // authenticated principal; empty for guests
	Customer   models.CustomerInfo // guest-supplied identity (name/phone required)

	PaymentMethod string // informational; "transfer" requires PaymentRef
	PaymentRef    string
}

// Commit turns a lock into one booking row per unit, all sharing a group id.
// The durable capacity and entitlement decrements run in a single
// transaction; any unit failure rolls the whole group back, so a partial
// group is never visible. Guests must hold a VERIFIED phone session.
func (s *DefaultBookingService) Commit(ctx context.Context, req CommitRequest) (models.BookingGroup, error) {
	var snapshot models.CustomerInfo
	if req.CustomerID != "" {
		customer, err := s.Customers.GetByID(ctx, req.TenantID, req.CustomerID)
		if err != nil {
			return models.BookingGroup{}, fmt.Errorf("failed to resolve customer: %w", err)
		}
		snapshot = customer.Snapshot()
	} else {
		// Guest gate: verification substitutes for session identity. Checked
		// before the token is claimed, so a rejected guest keeps their lock.
		if req.Customer.Phone == "" || req.Customer.Name == "" {
			return models.BookingGroup{}, fmt.Errorf("guest bookings require name and phone")
		}
		verified, err := s.Verifier.IsVerified(ctx, req.Customer.Phone)
		if err != nil {
			return models.BookingGroup{}, fmt.Errorf("failed to check verification: %w", err)
		}
		if !verified {
			return models.BookingGroup{}, ErrVerificationRequired
		}
		snapshot = req.Customer
		snapshot.CustomerID = ""
	}

	if req.PaymentMethod == "transfer" && req.PaymentRef == "" {
		return models.BookingGroup{}, fmt.Errorf("transfer payment requires a transaction reference")
	}

	lock, err := s.Locks.Get(ctx, req.Token)
	if err != nil {
		return models.BookingGroup{}, err
	}
	if lock == nil || lock.TenantID != req.TenantID {
		// Checked on a plain read: claiming is destructive, and a foreign
		// tenant presenting a valid token must not consume it, or the owner's
		// scheduled release would find nothing and strand the holds.
		return models.BookingGroup{}, ErrLockExpired
	}
	lock, err = s.Locks.Claim(ctx, req.Token)
	if err != nil {
		return models.BookingGroup{}, err
	}
	if lock == nil {
		return models.BookingGroup{}, ErrLockExpired
	}
	now := time.Now()
	if lock.Expired(now) {
		// Lazy expiry: the scheduled release lost the claim race, so the
		// holds are still ours to return.
		s.releaseHolds(ctx, *lock)
		return models.BookingGroup{}, ErrLockExpired
	}

	groupID := uuid.New().String()
	units := make([]models.Booking, 0, len(lock.Units))
	for _, lu := range lock.Units {
		units = append(units, models.Booking{
			ID:             uuid.New().String(),
			TenantID:       lock.TenantID,
			BookingGroupID: groupID,
			ServiceID:      lock.ServiceID,
			SlotID:         lu.SlotID,
			ResourceID:     lu.ResourceID,
			Customer:       snapshot,
			TicketKind:     lu.TicketKind,
			UnitPrice:      lu.UnitPrice,
			Currency:       lock.Currency,
			SubscriptionID: lu.SubscriptionID,
			PaymentStatus:  models.PaymentUnpaid,
			PaymentRef:     req.PaymentRef,
			Status:         models.BookingConfirmed,
			CreatedAt:      now,
		})
	}

	if err := s.Bookings.CommitGroupTransactionally(ctx, units); err != nil {
		// The transaction aborted as a whole; only the holds remain.
		s.releaseHolds(ctx, *lock)
		return models.BookingGroup{}, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	group := models.GroupFromUnits(units)
	if s.Notifier != nil {
		if err := s.Notifier.BookingCommitted(group); err != nil {
			utils.GetLogger().Warn("failed to enqueue booking notification",
				zap.String("groupID", group.ID), zap.Error(err))
		}
	}
	return group, nil
}
