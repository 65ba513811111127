package models

import "time"

// Ticket kinds.
const (
	TicketAdult = "adult"
	TicketChild = "child"
)

// Booking row status values.
const (
	BookingConfirmed = "confirmed"
	BookingVoided    = "voided"
)

// Payment status values, supplied by the external payment collaborator.
const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentManual   = "paid_manual"
	PaymentAwaiting = "awaiting_payment"
)

// CustomerInfo is the identity snapshot denormalized onto each booking row at
// creation time. Later profile edits never rewrite committed bookings.
type CustomerInfo struct {
	CustomerID string `bson:"customer_id,omitempty" json:"customerId,omitempty"` // empty for guests
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Email      string `bson:"email,omitempty" json:"email,omitempty"`
}

// Booking is one per-unit booking row. All rows created by a single customer
// checkout action share a BookingGroupID.
type Booking struct {
	ID             string       `bson:"id" json:"id"`
	TenantID       string       `bson:"tenant_id" json:"tenantId"`
	BookingGroupID string       `bson:"booking_group_id" json:"bookingGroupId"`
	ServiceID      string       `bson:"service_id" json:"serviceId"`
	SlotID         string       `bson:"slot_id" json:"slotId"`
	ResourceID     string       `bson:"resource_id,omitempty" json:"resourceId,omitempty"`
	Customer       CustomerInfo `bson:"customer" json:"customer"`
	TicketKind     string       `bson:"ticket_kind" json:"ticketKind"` // "adult" or "child"
	UnitPrice      float64      `bson:"unit_price" json:"unitPrice"`
	Currency       string       `bson:"currency" json:"currency"`
	SubscriptionID string       `bson:"subscription_id,omitempty" json:"subscriptionId,omitempty"` // set when covered by entitlement
	PaymentStatus  string       `bson:"payment_status" json:"paymentStatus"`
	PaymentRef     string       `bson:"payment_ref,omitempty" json:"paymentRef,omitempty"` // transfer transaction reference
	Status         string       `bson:"status" json:"status"`
	CreatedAt      time.Time    `bson:"created_at" json:"createdAt"`
}

// BookingGroup is the logical purchase assembled from the unit rows sharing
// one group id. It is derived on read, not stored.
type BookingGroup struct {
	ID         string       `json:"id"`
	TenantID   string       `json:"tenantId"`
	ServiceID  string       `json:"serviceId"`
	Customer   CustomerInfo `json:"customer"`
	Units      []Booking    `json:"units"`
	Adults     int          `json:"adults"`
	Children   int          `json:"children"`
	TotalPrice float64      `json:"totalPrice"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// GroupFromUnits folds unit rows into a BookingGroup. Returns a zero group
// when units is empty.
func GroupFromUnits(units []Booking) BookingGroup {
	var g BookingGroup
	if len(units) == 0 {
		return g
	}
	first := units[0]
	g.ID = first.BookingGroupID
	g.TenantID = first.TenantID
	g.ServiceID = first.ServiceID
	g.Customer = first.Customer
	g.CreatedAt = first.CreatedAt
	g.Units = units
	for _, u := range units {
		g.TotalPrice += u.UnitPrice
		switch u.TicketKind {
		case TicketChild:
			g.Children++
		default:
			g.Adults++
		}
	}
	return g
}
