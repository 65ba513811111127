package booking

import (
	"sort"

	"slotify/models"
)

// Allocation strategies.
const (
	StrategyParallel    = "parallel"
	StrategyConsecutive = "consecutive"
)

// AllocationRequest describes one multi-unit allocation attempt at a chosen
// time window. For the parallel strategy, Candidates holds every slot at that
// window (one per resource). For the consecutive strategy, Selected holds the
// caller's pre-picked slot instances; the allocator validates the selection,
// it does not search for sequential windows itself.
type AllocationRequest struct {
	Units    int
	Adults   int
	Children int
	Strategy string

	Candidates []models.Slot
	Selected   []models.Slot
}

// Assignment binds one ticket to one slot-unit.
type Assignment struct {
	Slot models.Slot
	Kind string // models.TicketAdult or models.TicketChild
}

// Allocate produces exactly req.Units assignments or fails. The order of the
// returned assignments is deterministic for identical input state: lowest
// booking load first, adults before children.
func Allocate(req AllocationRequest) ([]Assignment, error) {
	if req.Units <= 0 {
		return nil, ErrNoSlotSelected
	}
	if req.Adults+req.Children != req.Units {
		// Unspecified composition books adult tickets.
		req.Adults = req.Units
		req.Children = 0
	}

	var slots []models.Slot
	var err error
	switch req.Strategy {
	case StrategyConsecutive:
		slots, err = allocateConsecutive(req)
	default:
		slots, err = allocateParallel(req)
	}
	if err != nil {
		return nil, err
	}
	return assignKinds(slots, req.Adults, req.Children), nil
}

// singleSlotShortcut finds one slot that can absorb the whole request. This
// is always preferred: it minimizes fragmentation and resource usage.
func singleSlotShortcut(pool []models.Slot, units int) (models.Slot, bool) {
	best := models.Slot{}
	found := false
	for _, s := range pool {
		if s.Free() < units {
			continue
		}
		if !found || lessLoaded(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

// lessLoaded orders slots by ascending booking load, id as tiebreak, to
// balance resource utilization deterministically.
func lessLoaded(a, b models.Slot) bool {
	if a.BookedCount != b.BookedCount {
		return a.BookedCount < b.BookedCount
	}
	return a.ID < b.ID
}

func allocateParallel(req AllocationRequest) ([]models.Slot, error) {
	if single, ok := singleSlotShortcut(req.Candidates, req.Units); ok {
		return repeatSlot(single, req.Units), nil
	}

	open := make([]models.Slot, 0, len(req.Candidates))
	for _, s := range req.Candidates {
		if s.Free() > 0 {
			open = append(open, s)
		}
	}
	if len(open) < req.Units {
		return nil, NewInsufficientCapacityError(req.Units, len(open))
	}
	sort.Slice(open, func(i, j int) bool { return lessLoaded(open[i], open[j]) })
	return open[:req.Units], nil
}

func allocateConsecutive(req AllocationRequest) ([]models.Slot, error) {
	if len(req.Selected) == 0 {
		return nil, ErrNoSlotSelected
	}

	if single, ok := singleSlotShortcut(req.Selected, req.Units); ok {
		return repeatSlot(single, req.Units), nil
	}

	selected := append([]models.Slot(nil), req.Selected...)
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Date != selected[j].Date {
			return selected[i].Date < selected[j].Date
		}
		if selected[i].StartTime != selected[j].StartTime {
			return selected[i].StartTime < selected[j].StartTime
		}
		return selected[i].ID < selected[j].ID
	})
	if len(selected) > req.Units {
		selected = selected[:req.Units]
	}

	open := 0
	for _, s := range selected {
		if s.Free() > 0 {
			open++
		}
	}
	if len(selected) < req.Units || open < req.Units {
		return nil, NewInsufficientCapacityError(req.Units, open)
	}

	byResource := make(map[string][]models.Slot)
	for _, s := range selected {
		byResource[s.ResourceID] = append(byResource[s.ResourceID], s)
	}
	if len(byResource) == 1 {
		return selected, nil
	}

	// Hybrid parallel + extension: capacity is resource-bound, so when one
	// resource cannot hold every unit, the selection may span distinct
	// resources once, with at most one resource carrying extension slots.
	extended := 0
	for _, group := range byResource {
		if len(group) > 1 {
			extended++
		}
	}
	// Without an extension this is just a parallel selection mislabeled as
	// consecutive; with more than one extended resource the shape is
	// ambiguous. Both are rejected.
	if extended != 1 {
		return nil, ErrMixedResourceSelection
	}

	resourceIDs := make([]string, 0, len(byResource))
	for id := range byResource {
		resourceIDs = append(resourceIDs, id)
	}
	sort.Strings(resourceIDs)

	// First one unit per distinct resource, then the extension slots.
	var head, tail []models.Slot
	for _, id := range resourceIDs {
		group := byResource[id]
		head = append(head, group[0])
		tail = append(tail, group[1:]...)
	}
	return append(head, tail...), nil
}

func repeatSlot(s models.Slot, n int) []models.Slot {
	out := make([]models.Slot, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// assignKinds distributes ticket kinds across the allocation order: adults
// first, then children.
func assignKinds(slots []models.Slot, adults, children int) []Assignment {
	out := make([]Assignment, 0, len(slots))
	for _, s := range slots {
		kind := models.TicketChild
		if adults > 0 {
			kind = models.TicketAdult
			adults--
		} else if children > 0 {
			children--
		}
		out = append(out, Assignment{Slot: s, Kind: kind})
	}
	return out
}
