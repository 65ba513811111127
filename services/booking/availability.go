package booking

import (
	"context"
	"fmt"
	"time"

	"slotify/models"
	"slotify/utils"

	"go.uber.org/zap"
)

// AvailabilityResult is what the availability resolver hands to callers: the
// offerable slots plus a per-date count for date-picker rendering.
type AvailabilityResult struct {
	Slots        []models.Slot  `json:"slots"`
	PerDateCount map[string]int `json:"perDateCount"`
}

// ResolveAvailability returns the slots of a service that can still be
// offered within the date range. A zero from/to defaults to today through
// today+days. Results are recomputed per call; there is no persisted cursor.
func (s *DefaultBookingService) ResolveAvailability(ctx context.Context, tenantID, serviceID string, from, to time.Time, days int) (AvailabilityResult, error) {
	now := time.Now()
	if from.IsZero() {
		from = now
	}
	if to.IsZero() {
		if days <= 0 {
			days = 60
		}
		to = from.AddDate(0, 0, days)
	}

	cacheKey := fmt.Sprintf("%s:%s:%s:%s", tenantID, serviceID,
		from.Format(models.SlotDateLayout), to.Format(models.SlotDateLayout))
	if s.AvailCache != nil {
		cached, err := s.AvailCache.Get(ctx, cacheKey)
		if err != nil {
			utils.GetLogger().Warn("availability cache read failed", zap.Error(err))
		} else if cached != nil {
			return *cached, nil
		}
	}

	shifts, err := s.Catalog.GetActiveShifts(ctx, tenantID, serviceID)
	if err != nil {
		return AvailabilityResult{}, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	if len(shifts) == 0 {
		return AvailabilityResult{PerDateCount: map[string]int{}}, nil
	}

	shiftIDs := make([]string, 0, len(shifts))
	for _, sh := range shifts {
		shiftIDs = append(shiftIDs, sh.ID)
	}

	raw, err := s.Slots.GetOpenSlots(ctx, tenantID, shiftIDs,
		from.Format(models.SlotDateLayout), to.Format(models.SlotDateLayout))
	if err != nil {
		return AvailabilityResult{}, fmt.Errorf("failed to fetch slots: %w", err)
	}

	open := FilterOfferable(raw, shifts, now)
	result := AvailabilityResult{Slots: open, PerDateCount: CountByDate(open)}
	if s.AvailCache != nil && s.AvailTTL > 0 {
		if err := s.AvailCache.Set(ctx, cacheKey, result, s.AvailTTL); err != nil {
			utils.GetLogger().Warn("availability cache write failed", zap.Error(err))
		}
	}
	return result, nil
}

// FilterOfferable applies the availability rules to already-fetched slots:
// the slot's own weekday must be in its shift's weekday set, orphaned slots
// are discarded, and today's slots whose start has passed are dropped. A slot
// with an unparseable start time is kept rather than discarded.
func FilterOfferable(slots []models.Slot, shifts []models.Shift, now time.Time) []models.Slot {
	logger := utils.GetLogger()
	shiftByID := make(map[string]models.Shift, len(shifts))
	for _, sh := range shifts {
		shiftByID[sh.ID] = sh
	}

	today := now.Format(models.SlotDateLayout)
	nowMinutes := now.Hour()*60 + now.Minute()

	var out []models.Slot
	for _, slot := range slots {
		shift, ok := shiftByID[slot.ShiftID]
		if !ok {
			// Orphaned slot: its shift no longer resolves. Never offer it.
			continue
		}
		day, ok := slot.Day()
		if !ok {
			logger.Warn("slot has malformed date, discarding",
				zap.String("slotID", slot.ID), zap.String("date", slot.Date))
			continue
		}
		// Weekday check uses the slot's own date, so stale slots left behind
		// by a shift schedule change are filtered out.
		if !shift.HasWeekday(day.Weekday()) {
			continue
		}
		if slot.Date == today {
			startMin, ok := slot.StartMinutes()
			if !ok {
				// Fail-open: keep slots with corrupt start times.
				logger.Warn("slot has unparseable start time, keeping",
					zap.String("slotID", slot.ID), zap.String("startTime", slot.StartTime))
			} else if startMin <= nowMinutes {
				continue
			}
		}
		out = append(out, slot)
	}
	return out
}

// CountByDate folds slots into per-date availability counts.
func CountByDate(slots []models.Slot) map[string]int {
	counts := make(map[string]int)
	for _, slot := range slots {
		counts[slot.Date]++
	}
	return counts
}
