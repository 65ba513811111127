package models

import "time"

// LockedUnit is one priced slot-unit reserved under a capacity lock. The lock
// carries the full quote so Commit can materialize booking rows without
// re-running allocation or pricing.
type LockedUnit struct {
	SlotID         string  `json:"slotId"`
	ResourceID     string  `json:"resourceId,omitempty"`
	TicketKind     string  `json:"ticketKind"`
	UnitPrice      float64 `json:"unitPrice"`
	SubscriptionID string  `json:"subscriptionId,omitempty"` // non-empty when covered by entitlement
}

// CapacityLock is the token-addressed reservation created by the Lock phase.
// Its held capacity is released either by Commit, by an explicit Release, or
// by the scheduled expiry task.
type CapacityLock struct {
	Token       string       `json:"token"`
	TenantID    string       `json:"tenantId"`
	ServiceID   string       `json:"serviceId"`
	CustomerKey string       `json:"customerKey"` // customer id, or guest phone number
	Units       []LockedUnit `json:"units"`
	TotalPrice  float64      `json:"totalPrice"`
	Currency    string       `json:"currency"`
	CreatedAt   time.Time    `json:"createdAt"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

// Expired reports whether the lock's TTL has elapsed.
func (l CapacityLock) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}

// UnitsBySlot folds the locked units into per-slot reservation counts, the
// shape the slot repository's reserve/release operations work in.
func (l CapacityLock) UnitsBySlot() map[string]int {
	counts := make(map[string]int, len(l.Units))
	for _, u := range l.Units {
		counts[u.SlotID]++
	}
	return counts
}
