package models

import "time"

// Subscription status values.
const (
	SubscriptionActive    = "active"
	SubscriptionExpired   = "expired"
	SubscriptionCancelled = "cancelled"
)

// Package is a pre-purchased bundle of service entitlements.
type Package struct {
	ID       string `bson:"id" json:"id"`
	TenantID string `bson:"tenant_id" json:"tenantId"`
	Name     string `bson:"name" json:"name"`
	Active   bool   `bson:"active" json:"active"`
}

// PackageSubscription ties a customer to a purchased package.
type PackageSubscription struct {
	ID         string    `bson:"id" json:"id"`
	TenantID   string    `bson:"tenant_id" json:"tenantId"`
	CustomerID string    `bson:"customer_id" json:"customerId"`
	PackageID  string    `bson:"package_id" json:"packageId"`
	Status     string    `bson:"status" json:"status"`
	ExpiresAt  time.Time `bson:"expires_at" json:"expiresAt"`
}

// Usable reports whether the subscription can still cover tickets.
func (s PackageSubscription) Usable(now time.Time) bool {
	if s.Status != SubscriptionActive {
		return false
	}
	return s.ExpiresAt.IsZero() || now.Before(s.ExpiresAt)
}

// PackageUsage tracks the remaining pre-paid quota of one service within one
// subscription. Invariant: 0 <= RemainingQuantity <= OriginalQuantity.
type PackageUsage struct {
	ID                string `bson:"id" json:"id"`
	TenantID          string `bson:"tenant_id" json:"tenantId"`
	SubscriptionID    string `bson:"subscription_id" json:"subscriptionId"`
	ServiceID         string `bson:"service_id" json:"serviceId"`
	OriginalQuantity  int    `bson:"original_quantity" json:"originalQuantity"`
	RemainingQuantity int    `bson:"remaining_quantity" json:"remainingQuantity"`
}

// UsedQuantity is derived, never stored.
func (u PackageUsage) UsedQuantity() int {
	return u.OriginalQuantity - u.RemainingQuantity
}
