package models

import "time"

// Customer is an account-holding customer of a tenant. Guests have no
// customer record; their identity lives only in booking snapshots.
type Customer struct {
	ID        string    `bson:"id" json:"id"`
	TenantID  string    `bson:"tenant_id" json:"tenantId"`
	Name      string    `bson:"name" json:"name"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Snapshot denormalizes the customer identity for embedding in booking rows.
func (c Customer) Snapshot() CustomerInfo {
	return CustomerInfo{
		CustomerID: c.ID,
		Name:       c.Name,
		Phone:      c.Phone,
		Email:      c.Email,
	}
}
