package models

import (
	"strings"
	"time"
)

// Shift is a recurring weekly availability template for a service. Concrete
// Slot rows are materialized from shifts by an external batch job; this core
// only reads shifts to validate that a slot is still legitimate on its date.
type Shift struct {
	ID        string   `bson:"id" json:"id"`
	TenantID  string   `bson:"tenant_id" json:"tenantId"`
	ServiceID string   `bson:"service_id" json:"serviceId"`
	Weekdays  []string `bson:"weekdays" json:"weekdays"` // lowercase day names, e.g. "monday"
	IsActive  bool     `bson:"is_active" json:"isActive"`
}

// HasWeekday reports whether the shift runs on the given calendar weekday.
func (s Shift) HasWeekday(day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range s.Weekdays {
		if strings.ToLower(d) == name {
			return true
		}
	}
	return false
}
