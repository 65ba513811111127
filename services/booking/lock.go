package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	slotRepo "slotify/database/repository/slot"
	"slotify/models"
	"slotify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LockRequest describes one allocate-and-lock attempt.
type LockRequest struct {
	TenantID   string
	CustomerID string // empty for guests
	GuestPhone string // guest identity before verification
	ServiceID  string

	Date      string // "2006-01-02"
	StartTime string // "15:04"
	EndTime   string

	Adults   int
	Children int
	Strategy string

	// Consecutive strategy: the caller's pre-selected slot instances.
	SelectedSlotIDs []string
}

// AllocateAndLock runs allocation and pricing, then reserves the selected
// capacity under a TTL-bounded lock token. Allocation and pricing errors are
// resolved before any reservation is attempted, so a failed request never
// holds capacity.
func (s *DefaultBookingService) AllocateAndLock(ctx context.Context, req LockRequest) (*models.CapacityLock, error) {
	units := req.Adults + req.Children
	if units <= 0 {
		return nil, fmt.Errorf("ticket count must be positive")
	}

	svc, err := s.Catalog.GetServiceByID(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}
	offer, err := s.Catalog.GetActiveOffer(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch offer: %w", err)
	}

	allocReq := AllocationRequest{
		Units:    units,
		Adults:   req.Adults,
		Children: req.Children,
		Strategy: req.Strategy,
	}
	if req.Strategy == StrategyConsecutive {
		if len(req.SelectedSlotIDs) == 0 {
			return nil, ErrNoSlotSelected
		}
		allocReq.Selected, err = s.Slots.GetSlotsByIDs(ctx, req.TenantID, req.SelectedSlotIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch selected slots: %w", err)
		}
		if err := s.checkResourcesActive(ctx, req.TenantID, allocReq.Selected); err != nil {
			return nil, err
		}
	} else {
		allocReq.Candidates, err = s.Slots.GetSlotsAtWindow(ctx, req.TenantID, req.ServiceID, req.Date, req.StartTime, req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch window slots: %w", err)
		}
	}

	assignments, err := Allocate(allocReq)
	if err != nil {
		return nil, err
	}

	ledger, err := s.loadEntitlementLedger(ctx, req.TenantID, req.CustomerID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	lockedUnits, total := PriceAssignments(*svc, offer, assignments, ledger)

	customerKey := req.CustomerID
	if customerKey == "" {
		customerKey = req.GuestPhone
	}
	now := time.Now()
	lock := models.CapacityLock{
		Token:       uuid.New().String(),
		TenantID:    req.TenantID,
		ServiceID:   req.ServiceID,
		CustomerKey: customerKey,
		Units:       lockedUnits,
		TotalPrice:  total,
		Currency:    svc.Currency,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.LockTTL),
	}

	if err := s.reserve(ctx, lock); err != nil {
		return nil, err
	}
	if err := s.Locks.Put(ctx, lock); err != nil {
		// The reservation must not outlive a lock we failed to store.
		s.releaseHolds(ctx, lock)
		return nil, err
	}
	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleRelease(lock); err != nil {
			// An unschedulable lock fails as a whole: nothing but the
			// scheduled task purges the holds of an abandoned checkout, so
			// the reservation must not outlive the enqueue failure.
			claimed, cErr := s.Locks.Claim(ctx, lock.Token)
			if cErr != nil {
				utils.GetLogger().Error("failed to revoke unscheduled lock",
					zap.String("token", lock.Token), zap.Error(cErr))
			} else if claimed != nil {
				s.releaseHolds(ctx, *claimed)
			}
			return nil, fmt.Errorf("failed to schedule lock release: %w", err)
		}
	}
	return &lock, nil
}

// checkResourcesActive rejects selections pointing at deactivated resources.
// Slots outlive staff changes; the slot rows themselves are never deleted.
func (s *DefaultBookingService) checkResourcesActive(ctx context.Context, tenantID string, slots []models.Slot) error {
	seen := make(map[string]bool)
	for _, slot := range slots {
		if slot.ResourceID == "" || seen[slot.ResourceID] {
			continue
		}
		seen[slot.ResourceID] = true
		employee, err := s.Catalog.GetEmployeeByID(ctx, tenantID, slot.ResourceID)
		if err != nil {
			return fmt.Errorf("failed to resolve resource %s: %w", slot.ResourceID, err)
		}
		if employee == nil || !employee.Active {
			return fmt.Errorf("resource %s is no longer available", slot.ResourceID)
		}
	}
	return nil
}

// reserve performs the atomic check-and-increment per slot, rolling back the
// slots already reserved when one fails.
func (s *DefaultBookingService) reserve(ctx context.Context, lock models.CapacityLock) error {
	counts := lock.UnitsBySlot()
	slotIDs := make([]string, 0, len(counts))
	for id := range counts {
		slotIDs = append(slotIDs, id)
	}
	sort.Strings(slotIDs)

	reserved := make([]string, 0, len(slotIDs))
	for _, slotID := range slotIDs {
		err := s.Slots.ReserveCapacity(ctx, lock.TenantID, slotID, counts[slotID])
		if err == nil {
			reserved = append(reserved, slotID)
			continue
		}
		for _, id := range reserved {
			if rbErr := s.Slots.ReleaseHold(ctx, lock.TenantID, id, counts[id]); rbErr != nil {
				utils.GetLogger().Error("failed to roll back reservation",
					zap.String("slotID", id), zap.Error(rbErr))
			}
		}
		if errors.Is(err, slotRepo.ErrInsufficientCapacity) {
			available := 0
			if slot, gErr := s.Slots.GetSlotByID(ctx, lock.TenantID, slotID); gErr == nil {
				available = slot.Free()
			}
			return NewInsufficientCapacityError(counts[slotID], available)
		}
		return err
	}
	return nil
}

// Release returns a lock's held capacity. It is idempotent: releasing an
// unknown or already-claimed token is a no-op. The tenant check runs on a
// plain read before the destructive claim; a foreign tenant must not consume
// the token out from under the owner's scheduled release, or the holds would
// be stranded with nothing left to free them.
func (s *DefaultBookingService) Release(ctx context.Context, tenantID, token string) error {
	lock, err := s.Locks.Get(ctx, token)
	if err != nil {
		return err
	}
	if lock == nil || lock.TenantID != tenantID {
		return nil
	}
	claimed, err := s.Locks.Claim(ctx, token)
	if err != nil {
		return err
	}
	if claimed == nil {
		// Lost the claim race; the winner releases or commits.
		return nil
	}
	s.releaseHolds(ctx, *claimed)
	return nil
}

func (s *DefaultBookingService) releaseHolds(ctx context.Context, lock models.CapacityLock) {
	counts := lock.UnitsBySlot()
	slotIDs := make([]string, 0, len(counts))
	for id := range counts {
		slotIDs = append(slotIDs, id)
	}
	sort.Strings(slotIDs)
	for _, id := range slotIDs {
		if err := s.Slots.ReleaseHold(ctx, lock.TenantID, id, counts[id]); err != nil {
			utils.GetLogger().Error("failed to release hold",
				zap.String("slotID", id), zap.String("token", lock.Token), zap.Error(err))
		}
	}
}
