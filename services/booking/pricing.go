package booking

import "slotify/models"

// AdultUnitPrice returns the per-unit adult price: the offer price when an
// active offer is selected, else the service's discounted price when set,
// else the base price.
func AdultUnitPrice(svc models.Service, offer *models.Offer) float64 {
	if offer != nil {
		return offer.Price
	}
	if svc.DiscountPrice != nil {
		return *svc.DiscountPrice
	}
	return svc.BasePrice
}

// ChildUnitPrice returns the per-unit child price, falling back to the adult
// price when the service has no child price configured.
func ChildUnitPrice(svc models.Service, offer *models.Offer) float64 {
	if svc.ChildPrice != nil {
		return *svc.ChildPrice
	}
	return AdultUnitPrice(svc, offer)
}

// UnitPrice prices one allocated unit. A unit covered by package entitlement
// is 0 regardless of offers; coverage is binary, never a partial discount.
func UnitPrice(svc models.Service, offer *models.Offer, kind string, covered bool) float64 {
	if covered {
		return 0
	}
	if kind == models.TicketChild {
		return ChildUnitPrice(svc, offer)
	}
	return AdultUnitPrice(svc, offer)
}

// PriceAssignments prices every allocated unit in order, claiming entitlement
// from the ledger first. The returned total is the sum of the unit prices;
// itemized lines and the total can never diverge because one is computed from
// the other.
func PriceAssignments(svc models.Service, offer *models.Offer, assignments []Assignment, ledger *EntitlementLedger) ([]models.LockedUnit, float64) {
	units := make([]models.LockedUnit, 0, len(assignments))
	total := 0.0
	for _, a := range assignments {
		subID, covered := "", false
		if ledger != nil {
			subID, covered = ledger.Claim()
		}
		price := UnitPrice(svc, offer, a.Kind, covered)
		units = append(units, models.LockedUnit{
			SlotID:         a.Slot.ID,
			ResourceID:     a.Slot.ResourceID,
			TicketKind:     a.Kind,
			UnitPrice:      price,
			SubscriptionID: subID,
		})
		total += price
	}
	return units, total
}
