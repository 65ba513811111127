package booking

import (
	"context"
	"fmt"
	"time"

	"slotify/models"
)

// Entitlement is the answer of the package capacity resolver for one
// (customer, service) pair.
type Entitlement struct {
	Available bool `json:"available"`
	Remaining int  `json:"remaining"`
}

// ResolveEntitlement sums the remaining pre-paid quota for a service across
// all of the customer's usable subscriptions.
func (s *DefaultBookingService) ResolveEntitlement(ctx context.Context, tenantID, customerID, serviceID string) (Entitlement, error) {
	ledger, err := s.loadEntitlementLedger(ctx, tenantID, customerID, serviceID)
	if err != nil {
		return Entitlement{}, err
	}
	remaining := ledger.Remaining()
	return Entitlement{Available: remaining > 0, Remaining: remaining}, nil
}

func (s *DefaultBookingService) loadEntitlementLedger(ctx context.Context, tenantID, customerID, serviceID string) (*EntitlementLedger, error) {
	if customerID == "" {
		// Guests hold no subscriptions.
		return NewEntitlementLedger(nil), nil
	}
	subs, err := s.Entitlements.GetActiveSubscriptions(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscriptions: %w", err)
	}
	now := time.Now()
	subIDs := make([]string, 0, len(subs))
	for _, sub := range subs {
		if sub.Usable(now) {
			subIDs = append(subIDs, sub.ID)
		}
	}
	if len(subIDs) == 0 {
		return NewEntitlementLedger(nil), nil
	}
	usages, err := s.Entitlements.GetUsageForService(ctx, tenantID, subIDs, serviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package usage: %w", err)
	}
	return NewEntitlementLedger(usages), nil
}

// EntitlementLedger tracks remaining entitlement within a single multi-unit
// allocation. Every provisionally covered unit claims one from the ledger, so
// unit 2 of a booking can never re-claim what unit 1 already took. Omitting
// this in-memory decrement would double-spend entitlement.
type EntitlementLedger struct {
	claims []ledgerClaim
}

type ledgerClaim struct {
	subscriptionID string
	remaining      int
}

// NewEntitlementLedger seeds a ledger from stored usage rows. Rows with
// nothing remaining are dropped up front.
func NewEntitlementLedger(usages []models.PackageUsage) *EntitlementLedger {
	l := &EntitlementLedger{}
	for _, u := range usages {
		if u.RemainingQuantity > 0 {
			l.claims = append(l.claims, ledgerClaim{
				subscriptionID: u.SubscriptionID,
				remaining:      u.RemainingQuantity,
			})
		}
	}
	return l
}

// Remaining is the effective remaining count: stored remaining minus what
// this transaction already claimed.
func (l *EntitlementLedger) Remaining() int {
	total := 0
	for _, c := range l.claims {
		total += c.remaining
	}
	return total
}

// Claim consumes one unit of entitlement and returns the subscription that
// covers it. ok is false when the ledger is exhausted.
func (l *EntitlementLedger) Claim() (subscriptionID string, ok bool) {
	for i := range l.claims {
		if l.claims[i].remaining > 0 {
			l.claims[i].remaining--
			return l.claims[i].subscriptionID, true
		}
	}
	return "", false
}
