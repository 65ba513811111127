package models

import "time"

// Service is a bookable service offered by a tenant. A service's pricing and
// capacity fields are treated as immutable for the duration of a booking
// transaction.
type Service struct {
	ID              string   `bson:"id" json:"id"`
	TenantID        string   `bson:"tenant_id" json:"tenantId"`
	Name            string   `bson:"name" json:"name"`
	BasePrice       float64  `bson:"base_price" json:"basePrice"`                              // per-unit adult price
	DiscountPrice   *float64 `bson:"discount_price,omitempty" json:"discountPrice,omitempty"` // optional discounted adult price
	ChildPrice      *float64 `bson:"child_price,omitempty" json:"childPrice,omitempty"`       // optional per-unit child price
	CapacityPerSlot int      `bson:"capacity_per_slot" json:"capacityPerSlot"`                // default capacity for generated slots
	Currency        string   `bson:"currency" json:"currency"`
	Active          bool     `bson:"active" json:"active"`
}

// Offer is a time-bounded promotional price for a service. When an active
// offer is selected, its price replaces the adult unit price.
type Offer struct {
	ID        string    `bson:"id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	ServiceID string    `bson:"service_id" json:"serviceId"`
	Price     float64   `bson:"price" json:"price"`
	Active    bool      `bson:"active" json:"active"`
	StartsAt  time.Time `bson:"starts_at" json:"startsAt"`
	EndsAt    time.Time `bson:"ends_at" json:"endsAt"`
}

// Current reports whether the offer is active and within its validity window.
func (o Offer) Current(now time.Time) bool {
	if !o.Active {
		return false
	}
	if !o.StartsAt.IsZero() && now.Before(o.StartsAt) {
		return false
	}
	if !o.EndsAt.IsZero() && now.After(o.EndsAt) {
		return false
	}
	return true
}
