package booking

import (
	"testing"

	"slotify/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestUnitPriceSelection(t *testing.T) {
	base := models.Service{BasePrice: 100}
	discounted := models.Service{BasePrice: 100, DiscountPrice: floatPtr(80)}
	withChild := models.Service{BasePrice: 100, ChildPrice: floatPtr(40)}
	offer := &models.Offer{Price: 60}

	tests := []struct {
		name    string
		svc     models.Service
		offer   *models.Offer
		kind    string
		covered bool
		want    float64
	}{
		{"base price", base, nil, models.TicketAdult, false, 100},
		{"discount beats base", discounted, nil, models.TicketAdult, false, 80},
		{"offer beats discount", discounted, offer, models.TicketAdult, false, 60},
		{"child price when set", withChild, nil, models.TicketChild, false, 40},
		{"child falls back to adult", base, nil, models.TicketChild, false, 100},
		{"child falls back to offer", base, offer, models.TicketChild, false, 60},
		{"covered unit is free", discounted, offer, models.TicketAdult, true, 0},
		{"covered child is free", withChild, nil, models.TicketChild, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UnitPrice(tt.svc, tt.offer, tt.kind, tt.covered); got != tt.want {
				t.Errorf("UnitPrice = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceAssignmentsTotalMatchesItemized(t *testing.T) {
	svc := models.Service{BasePrice: 50, ChildPrice: floatPtr(20)}
	assignments := []Assignment{
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
		{Slot: models.Slot{ID: "s2"}, Kind: models.TicketChild},
	}
	units, total := PriceAssignments(svc, nil, assignments, NewEntitlementLedger(nil))
	sum := 0.0
	for _, u := range units {
		sum += u.UnitPrice
	}
	if sum != total {
		t.Errorf("itemized sum %v != total %v", sum, total)
	}
	if total != 120 {
		t.Errorf("total = %v, want 120", total)
	}
}

func TestPriceAssignmentsEntitlementCoversInOrder(t *testing.T) {
	// One remaining entitlement, two units: the first is covered, the second
	// pays full price. The ledger decrement prevents a double spend.
	svc := models.Service{BasePrice: 50}
	ledger := NewEntitlementLedger([]models.PackageUsage{
		{SubscriptionID: "sub-1", RemainingQuantity: 1},
	})
	assignments := []Assignment{
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
	}
	units, total := PriceAssignments(svc, nil, assignments, ledger)

	if units[0].UnitPrice != 0 || units[0].SubscriptionID != "sub-1" {
		t.Errorf("unit 0 = {price %v, sub %q}, want covered by sub-1", units[0].UnitPrice, units[0].SubscriptionID)
	}
	if units[1].UnitPrice != 50 || units[1].SubscriptionID != "" {
		t.Errorf("unit 1 = {price %v, sub %q}, want full price uncovered", units[1].UnitPrice, units[1].SubscriptionID)
	}
	if total != 50 {
		t.Errorf("total = %v, want 50", total)
	}
}

func TestPriceAssignmentsSpansSubscriptions(t *testing.T) {
	svc := models.Service{BasePrice: 30}
	ledger := NewEntitlementLedger([]models.PackageUsage{
		{SubscriptionID: "sub-1", RemainingQuantity: 1},
		{SubscriptionID: "sub-2", RemainingQuantity: 1},
	})
	assignments := []Assignment{
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
		{Slot: models.Slot{ID: "s1"}, Kind: models.TicketAdult},
	}
	units, total := PriceAssignments(svc, nil, assignments, ledger)
	if units[0].SubscriptionID != "sub-1" || units[1].SubscriptionID != "sub-2" {
		t.Errorf("coverage order = [%q %q], want [sub-1 sub-2]", units[0].SubscriptionID, units[1].SubscriptionID)
	}
	if total != 30 {
		t.Errorf("total = %v, want 30", total)
	}
}

func TestEntitlementLedgerRemaining(t *testing.T) {
	ledger := NewEntitlementLedger([]models.PackageUsage{
		{SubscriptionID: "sub-1", RemainingQuantity: 2},
		{SubscriptionID: "sub-2", RemainingQuantity: 0}, // exhausted rows dropped
	})
	if got := ledger.Remaining(); got != 2 {
		t.Fatalf("Remaining = %d, want 2", got)
	}
	if _, ok := ledger.Claim(); !ok {
		t.Fatal("first claim should succeed")
	}
	if got := ledger.Remaining(); got != 1 {
		t.Errorf("Remaining after claim = %d, want 1", got)
	}
	ledger.Claim()
	if _, ok := ledger.Claim(); ok {
		t.Error("claim on exhausted ledger should fail")
	}
}
