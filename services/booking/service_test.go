package booking

import (
	"context"
	"testing"

	"slotify/models"
)

func TestListGroupsFoldsUnits(t *testing.T) {
	slots := newFakeSlotRepo()
	bookings := &fakeBookings{slots: slots, listRows: []models.Booking{
		{ID: "u1", BookingGroupID: "g1", TicketKind: models.TicketAdult, UnitPrice: 50},
		{ID: "u2", BookingGroupID: "g1", TicketKind: models.TicketChild, UnitPrice: 20},
		{ID: "u3", BookingGroupID: "g2", TicketKind: models.TicketAdult, UnitPrice: 50},
	}}
	svc := newTestService(slots, bookings, false)

	groups, err := svc.ListGroups(context.Background(), "t1", "cust-1")
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	if groups[0].ID != "g1" || groups[1].ID != "g2" {
		t.Errorf("group order = [%s %s], want row order [g1 g2]", groups[0].ID, groups[1].ID)
	}
	g1 := groups[0]
	if g1.Adults != 1 || g1.Children != 1 || g1.TotalPrice != 70 {
		t.Errorf("g1 = {adults %d, children %d, total %v}, want {1, 1, 70}", g1.Adults, g1.Children, g1.TotalPrice)
	}
}

func TestRecordPaymentValidatesStatus(t *testing.T) {
	slots := newFakeSlotRepo()
	bookings := &fakeBookings{slots: slots, paymentModified: 2}
	svc := newTestService(slots, bookings, false)
	ctx := context.Background()

	if err := svc.RecordPayment(ctx, "t1", "g1", "definitely-paid", ""); err == nil {
		t.Error("unknown payment status accepted")
	}
	if err := svc.RecordPayment(ctx, "t1", "g1", models.PaymentPaid, "TRX-9"); err != nil {
		t.Errorf("RecordPayment: %v", err)
	}

	bookings.paymentModified = 0
	if err := svc.RecordPayment(ctx, "t1", "missing", models.PaymentPaid, ""); err == nil {
		t.Error("payment on missing group accepted")
	}
}

func TestGetGroupNotFound(t *testing.T) {
	slots := newFakeSlotRepo()
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)
	if _, err := svc.GetGroup(context.Background(), "t1", "nope"); err == nil {
		t.Error("missing group returned without error")
	}
}
