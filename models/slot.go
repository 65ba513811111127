package models

import "time"

const SlotDateLayout = "2006-01-02"

// Slot is a concrete, dated, capacity-bounded booking window generated from a
// Shift. Slots are created by the external materialization job and mutated
// only through the lock/commit path; they are never deleted, only exhausted.
type Slot struct {
	ID                string `bson:"id" json:"id"`
	TenantID          string `bson:"tenant_id" json:"tenantId"`
	ShiftID           string `bson:"shift_id" json:"shiftId"`
	ServiceID         string `bson:"service_id" json:"serviceId"`
	ResourceID        string `bson:"resource_id,omitempty" json:"resourceId,omitempty"` // empty for service-based slots
	Date              string `bson:"date" json:"date"`                                  // "2006-01-02"
	StartTime         string `bson:"start_time" json:"startTime"`                       // "15:04"
	EndTime           string `bson:"end_time" json:"endTime"`
	AvailableCapacity int    `bson:"available_capacity" json:"availableCapacity"`
	HeldCount         int    `bson:"held_count" json:"-"` // units provisionally reserved by uncommitted locks
	BookedCount       int    `bson:"booked_count" json:"bookedCount"`
	IsAvailable       bool   `bson:"is_available" json:"isAvailable"`
}

// StartMinutes returns the slot's start time as minutes since midnight.
// ok is false when the stored start time does not parse.
func (s Slot) StartMinutes() (int, bool) {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// Day returns the slot's own calendar date. ok is false for a malformed date.
func (s Slot) Day() (time.Time, bool) {
	d, err := time.Parse(SlotDateLayout, s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Free is the capacity still open to new locks: committed capacity minus
// units already held by pending locks.
func (s Slot) Free() int {
	free := s.AvailableCapacity - s.HeldCount
	if free < 0 {
		return 0
	}
	return free
}
