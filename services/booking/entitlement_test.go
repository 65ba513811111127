package booking

import (
	"context"
	"testing"
	"time"

	"slotify/models"
)

func TestResolveEntitlement(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-24 * time.Hour)

	tests := []struct {
		name       string
		customerID string
		subs       []models.PackageSubscription
		usages     []models.PackageUsage
		want       Entitlement
	}{
		{
			name:       "guest has no entitlement",
			customerID: "",
			subs:       []models.PackageSubscription{{ID: "sub-1", Status: models.SubscriptionActive}},
			usages:     []models.PackageUsage{{SubscriptionID: "sub-1", RemainingQuantity: 5}},
			want:       Entitlement{Available: false, Remaining: 0},
		},
		{
			name:       "active subscription with quota",
			customerID: "cust-1",
			subs:       []models.PackageSubscription{{ID: "sub-1", Status: models.SubscriptionActive, ExpiresAt: future}},
			usages:     []models.PackageUsage{{SubscriptionID: "sub-1", RemainingQuantity: 3}},
			want:       Entitlement{Available: true, Remaining: 3},
		},
		{
			name:       "expired subscription ignored",
			customerID: "cust-1",
			subs:       []models.PackageSubscription{{ID: "sub-1", Status: models.SubscriptionActive, ExpiresAt: past}},
			usages:     []models.PackageUsage{{SubscriptionID: "sub-1", RemainingQuantity: 3}},
			want:       Entitlement{Available: false, Remaining: 0},
		},
		{
			name:       "quota sums across subscriptions",
			customerID: "cust-1",
			subs: []models.PackageSubscription{
				{ID: "sub-1", Status: models.SubscriptionActive},
				{ID: "sub-2", Status: models.SubscriptionActive},
			},
			usages: []models.PackageUsage{
				{SubscriptionID: "sub-1", RemainingQuantity: 2},
				{SubscriptionID: "sub-2", RemainingQuantity: 1},
			},
			want: Entitlement{Available: true, Remaining: 3},
		},
		{
			name:       "exhausted quota unavailable",
			customerID: "cust-1",
			subs:       []models.PackageSubscription{{ID: "sub-1", Status: models.SubscriptionActive}},
			usages:     []models.PackageUsage{{SubscriptionID: "sub-1", RemainingQuantity: 0}},
			want:       Entitlement{Available: false, Remaining: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := newFakeSlotRepo()
			svc := newTestService(slots, &fakeBookings{slots: slots}, false)
			svc.Entitlements = &fakeEntitlements{subs: tt.subs, usages: tt.usages}

			got, err := svc.ResolveEntitlement(context.Background(), "t1", tt.customerID, "svc-1")
			if err != nil {
				t.Fatalf("ResolveEntitlement: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
