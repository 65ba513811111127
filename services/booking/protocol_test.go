package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	bookingRepo "slotify/database/repository/bookingrepo"
	slotRepo "slotify/database/repository/slot"
	"slotify/models"
)

// ---- in-memory fakes ----

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*models.Slot
}

func newFakeSlotRepo(slots ...models.Slot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[string]*models.Slot)}
	for i := range slots {
		s := slots[i]
		r.slots[s.ID] = &s
	}
	return r
}

func (r *fakeSlotRepo) snapshot() []models.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Slot, 0, len(r.slots))
	for _, s := range r.slots {
		out = append(out, *s)
	}
	return out
}

func (r *fakeSlotRepo) GetOpenSlots(ctx context.Context, tenantID string, shiftIDs []string, fromDate, toDate string) ([]models.Slot, error) {
	return r.snapshot(), nil
}

func (r *fakeSlotRepo) GetSlotsAtWindow(ctx context.Context, tenantID, serviceID, date, startTime, endTime string) ([]models.Slot, error) {
	return r.snapshot(), nil
}

func (r *fakeSlotRepo) GetSlotsByIDs(ctx context.Context, tenantID string, slotIDs []string) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Slot, 0, len(slotIDs))
	for _, id := range slotIDs {
		if s, ok := r.slots[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) GetSlotByID(ctx context.Context, tenantID, slotID string) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return nil, errors.New("slot not found")
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSlotRepo) ReserveCapacity(ctx context.Context, tenantID, slotID string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return errors.New("slot not found")
	}
	if s.AvailableCapacity-s.HeldCount < units {
		return slotRepo.ErrInsufficientCapacity
	}
	s.HeldCount += units
	return nil
}

func (r *fakeSlotRepo) ReleaseHold(ctx context.Context, tenantID, slotID string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok || s.HeldCount < units {
		return errors.New("no such hold")
	}
	s.HeldCount -= units
	return nil
}

func (r *fakeSlotRepo) RestoreCapacity(ctx context.Context, tenantID, slotID string, units int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[slotID]
	if !ok {
		return errors.New("slot not found")
	}
	s.AvailableCapacity += units
	s.BookedCount -= units
	return nil
}

type fakeCatalog struct {
	service models.Service
	offer   *models.Offer
	shifts  []models.Shift
}

func (c *fakeCatalog) GetServiceByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	svc := c.service
	return &svc, nil
}

func (c *fakeCatalog) GetActiveOffer(ctx context.Context, tenantID, serviceID string) (*models.Offer, error) {
	return c.offer, nil
}

func (c *fakeCatalog) GetActiveShifts(ctx context.Context, tenantID, serviceID string) ([]models.Shift, error) {
	return c.shifts, nil
}

func (c *fakeCatalog) GetEmployeeByID(ctx context.Context, tenantID, employeeID string) (*models.Employee, error) {
	return nil, errors.New("not found")
}

type fakeEntitlements struct {
	subs   []models.PackageSubscription
	usages []models.PackageUsage
}

func (e *fakeEntitlements) GetActiveSubscriptions(ctx context.Context, tenantID, customerID string) ([]models.PackageSubscription, error) {
	return e.subs, nil
}

func (e *fakeEntitlements) GetUsageForService(ctx context.Context, tenantID string, subscriptionIDs []string, serviceID string) ([]models.PackageUsage, error) {
	return e.usages, nil
}

type fakeBookings struct {
	mu              sync.Mutex
	slots           *fakeSlotRepo
	committed       [][]models.Booking
	failWith        error
	listRows        []models.Booking
	paymentModified int64
}

func (b *fakeBookings) CommitGroupTransactionally(ctx context.Context, units []models.Booking) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failWith != nil {
		return b.failWith
	}
	// Mirror the durable decrement: one available and one held unit consumed,
	// one booked unit recorded, per row.
	for _, u := range units {
		b.slots.mu.Lock()
		s := b.slots.slots[u.SlotID]
		s.AvailableCapacity--
		s.HeldCount--
		s.BookedCount++
		b.slots.mu.Unlock()
	}
	b.committed = append(b.committed, units)
	return nil
}

func (b *fakeBookings) VoidGroupTransactionally(ctx context.Context, tenantID, groupID string) ([]models.Booking, error) {
	return nil, errors.New("not implemented")
}

func (b *fakeBookings) GetGroup(ctx context.Context, tenantID, groupID string) ([]models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, g := range b.committed {
		if len(g) > 0 && g[0].BookingGroupID == groupID {
			return g, nil
		}
	}
	return nil, nil
}

func (b *fakeBookings) ListByCustomer(ctx context.Context, tenantID, customerID string) ([]models.Booking, error) {
	return b.listRows, nil
}

func (b *fakeBookings) UpdateGroupPayment(ctx context.Context, tenantID, groupID, status, paymentRef string) (int64, error) {
	return b.paymentModified, nil
}

type fakeCustomers struct {
	customer *models.Customer
}

func (c *fakeCustomers) GetByID(ctx context.Context, tenantID, customerID string) (*models.Customer, error) {
	if c.customer == nil {
		return nil, errors.New("customer not found")
	}
	return c.customer, nil
}

type memLockStore struct {
	mu    sync.Mutex
	locks map[string]models.CapacityLock
}

func newMemLockStore() *memLockStore {
	return &memLockStore{locks: make(map[string]models.CapacityLock)}
}

func (s *memLockStore) Put(ctx context.Context, lock models.CapacityLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks[lock.Token] = lock
	return nil
}

func (s *memLockStore) Get(ctx context.Context, token string) (*models.CapacityLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[token]
	if !ok {
		return nil, nil
	}
	return &lock, nil
}

func (s *memLockStore) Claim(ctx context.Context, token string) (*models.CapacityLock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[token]
	if !ok {
		return nil, nil
	}
	delete(s.locks, token)
	return &lock, nil
}

type failingScheduler struct{}

func (failingScheduler) ScheduleRelease(lock models.CapacityLock) error {
	return errors.New("queue unavailable")
}

type fakeVerifier struct{ verified bool }

func (v fakeVerifier) IsVerified(ctx context.Context, phone string) (bool, error) {
	return v.verified, nil
}

type memNotifier struct {
	mu     sync.Mutex
	groups []models.BookingGroup
}

func (n *memNotifier) BookingCommitted(group models.BookingGroup) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.groups = append(n.groups, group)
	return nil
}

func (n *memNotifier) BookingCancelled(group models.BookingGroup) error {
	return nil
}

// ---- fixtures ----

func newTestService(slots *fakeSlotRepo, bookings *fakeBookings, verified bool) *DefaultBookingService {
	return &DefaultBookingService{
		Catalog:      &fakeCatalog{service: models.Service{ID: "svc-1", BasePrice: 50, Currency: "EUR"}},
		Slots:        slots,
		Entitlements: &fakeEntitlements{},
		Bookings:     bookings,
		Customers:    &fakeCustomers{customer: &models.Customer{ID: "cust-1", Name: "Ada", Phone: "+15550001111"}},
		Locks:        newMemLockStore(),
		Verifier:     fakeVerifier{verified: verified},
		LockTTL:      10 * time.Minute,
	}
}

func heldCount(t *testing.T, slots *fakeSlotRepo, slotID string) int {
	t.Helper()
	s, err := slots.GetSlotByID(context.Background(), "t1", slotID)
	if err != nil {
		t.Fatalf("GetSlotByID: %v", err)
	}
	return s.HeldCount
}

// ---- tests ----

func TestAllocateAndLockReservesCapacity(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 3, 0, 0))
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 2, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}
	if lock.TotalPrice != 100 {
		t.Errorf("TotalPrice = %v, want 100", lock.TotalPrice)
	}
	if lock.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", lock.Currency)
	}
	if got := heldCount(t, slots, "s1"); got != 2 {
		t.Errorf("held count = %d, want 2", got)
	}
	stored, _ := svc.Locks.Get(context.Background(), lock.Token)
	if stored == nil {
		t.Fatal("lock not stored")
	}
}

func TestAllocateAndLockInsufficientLeavesNoHolds(t *testing.T) {
	slots := newFakeSlotRepo(
		slot("s1", "r1", 1, 0, 0),
		slot("s2", "r2", 1, 0, 0),
	)
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)

	_, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 3, Strategy: StrategyParallel,
	})
	ice, ok := AsInsufficientCapacity(err)
	if !ok {
		t.Fatalf("expected InsufficientCapacityError, got %v", err)
	}
	if ice.Requested != 3 || ice.Available != 2 {
		t.Errorf("got requested=%d available=%d, want 3 and 2", ice.Requested, ice.Available)
	}
	if heldCount(t, slots, "s1")+heldCount(t, slots, "s2") != 0 {
		t.Error("failed allocation left residual holds")
	}
}

func TestCommitWritesGroupAndSettlesCapacity(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 3, 0, 0))
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)
	notifier := &memNotifier{}
	svc.Notifier = notifier

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 2, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}

	group, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(group.Units) != 2 || group.TotalPrice != 100 {
		t.Errorf("group = %d units total %v, want 2 units total 100", len(group.Units), group.TotalPrice)
	}
	if group.Customer.Name != "Ada" {
		t.Errorf("customer snapshot = %q, want Ada", group.Customer.Name)
	}
	for _, u := range group.Units {
		if u.BookingGroupID != group.ID {
			t.Errorf("unit %s carries group %s, want %s", u.ID, u.BookingGroupID, group.ID)
		}
	}

	s, _ := slots.GetSlotByID(context.Background(), "t1", "s1")
	if s.AvailableCapacity != 1 || s.HeldCount != 0 || s.BookedCount != 2 {
		t.Errorf("slot after commit = {avail %d, held %d, booked %d}, want {1, 0, 2}",
			s.AvailableCapacity, s.HeldCount, s.BookedCount)
	}
	if len(notifier.groups) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.groups))
	}

	// The token was claimed: a second commit sees an expired lock.
	if _, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
	}); !errors.Is(err, ErrLockExpired) {
		t.Errorf("second commit got %v, want ErrLockExpired", err)
	}
}

func TestCommitUnverifiedGuestKeepsLock(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", GuestPhone: "+15550001111", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}

	_, err = svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token,
		Customer: models.CustomerInfo{Name: "Guest", Phone: "+15550001111"},
	})
	if !errors.Is(err, ErrVerificationRequired) {
		t.Fatalf("got %v, want ErrVerificationRequired", err)
	}

	// The rejection happened before the token claim: the lock survives and a
	// verified retry succeeds.
	if stored, _ := svc.Locks.Get(context.Background(), lock.Token); stored == nil {
		t.Fatal("lock was consumed by the rejected commit")
	}
	svc.Verifier = fakeVerifier{verified: true}
	if _, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token,
		Customer: models.CustomerInfo{Name: "Guest", Phone: "+15550001111"},
	}); err != nil {
		t.Fatalf("verified retry failed: %v", err)
	}
}

func TestCommitGuestRequiresNameAndPhone(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, true)

	_, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: "whatever",
		Customer: models.CustomerInfo{Phone: "+15550001111"},
	})
	if err == nil || errors.Is(err, ErrLockExpired) {
		t.Fatalf("got %v, want identity validation error", err)
	}
}

func TestCommitTransferRequiresReference(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}
	_, err = svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
		PaymentMethod: "transfer",
	})
	if err == nil {
		t.Fatal("transfer without reference accepted")
	}
	// Validation precedes the claim; the lock is still commitable.
	if _, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
		PaymentMethod: "transfer", PaymentRef: "TRX-1",
	}); err != nil {
		t.Fatalf("commit with reference failed: %v", err)
	}
}

func TestCommitExpiredLockReleasesHolds(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)
	svc.LockTTL = -time.Minute // already past expiry when stored

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}
	if got := heldCount(t, slots, "s1"); got != 1 {
		t.Fatalf("held count = %d, want 1", got)
	}

	_, err = svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
	})
	if !errors.Is(err, ErrLockExpired) {
		t.Fatalf("got %v, want ErrLockExpired", err)
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count after expired commit = %d, want 0", got)
	}
}

func TestCommitFailureRollsBackAndReleases(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	bookings := &fakeBookings{slots: slots, failWith: bookingRepo.ErrEntitlementSpent}
	svc := newTestService(slots, bookings, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}

	_, err = svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
	})
	if !errors.Is(err, ErrCommitFailed) {
		t.Fatalf("got %v, want ErrCommitFailed", err)
	}
	if len(bookings.committed) != 0 {
		t.Error("failed commit left booking rows")
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count after failed commit = %d, want 0", got)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}
	if err := svc.Release(context.Background(), "t1", lock.Token); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count = %d, want 0", got)
	}
	// Second release and unknown tokens are no-ops.
	if err := svc.Release(context.Background(), "t1", lock.Token); err != nil {
		t.Errorf("double release: %v", err)
	}
	if err := svc.Release(context.Background(), "t1", "no-such-token"); err != nil {
		t.Errorf("unknown token release: %v", err)
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count after double release = %d, want 0", got)
	}
}

func TestReleaseIgnoresForeignTenant(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}
	if err := svc.Release(context.Background(), "t2", lock.Token); err != nil {
		t.Fatalf("Release: %v", err)
	}
	// The hold stays: the foreign tenant's release must not free it.
	if got := heldCount(t, slots, "s1"); got != 1 {
		t.Errorf("held count = %d, want 1", got)
	}
	// And the token survives it, so the owner's release (the scheduled expiry
	// path) can still return the capacity.
	if stored, _ := svc.Locks.Get(context.Background(), lock.Token); stored == nil {
		t.Fatal("foreign release consumed the token")
	}
	if err := svc.Release(context.Background(), "t1", lock.Token); err != nil {
		t.Fatalf("owner release: %v", err)
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count after owner release = %d, want 0", got)
	}
}

func TestCommitIgnoresForeignTenant(t *testing.T) {
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	bookings := &fakeBookings{slots: slots}
	svc := newTestService(slots, bookings, false)

	lock, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err != nil {
		t.Fatalf("AllocateAndLock: %v", err)
	}

	if _, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t2", Token: lock.Token, CustomerID: "cust-1",
	}); !errors.Is(err, ErrLockExpired) {
		t.Fatalf("foreign commit got %v, want ErrLockExpired", err)
	}
	// The rejection must not consume the token: the owner can still commit.
	if _, err := svc.Commit(context.Background(), CommitRequest{
		TenantID: "t1", Token: lock.Token, CustomerID: "cust-1",
	}); err != nil {
		t.Fatalf("owner commit after foreign attempt: %v", err)
	}
	if len(bookings.committed) != 1 {
		t.Errorf("committed groups = %d, want 1", len(bookings.committed))
	}
}

func TestAllocateAndLockFailsWhenScheduleFails(t *testing.T) {
	// Only the scheduled task purges the holds of an abandoned checkout, so a
	// lock whose release cannot be enqueued must not be handed out.
	slots := newFakeSlotRepo(slot("s1", "r1", 2, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)
	svc.Scheduler = failingScheduler{}

	_, err := svc.AllocateAndLock(context.Background(), LockRequest{
		TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
		Adults: 1, Strategy: StrategyParallel,
	})
	if err == nil {
		t.Fatal("lock handed out without a scheduled release")
	}
	if got := heldCount(t, slots, "s1"); got != 0 {
		t.Errorf("held count = %d, want 0", got)
	}
}

func TestConcurrentLocksNeverOversell(t *testing.T) {
	const capacity = 3
	const contenders = 10

	slots := newFakeSlotRepo(slot("s1", "r1", capacity, 0, 0))
	svc := newTestService(slots, &fakeBookings{slots: slots}, false)

	var wg sync.WaitGroup
	results := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AllocateAndLock(context.Background(), LockRequest{
				TenantID: "t1", CustomerID: "cust-1", ServiceID: "svc-1",
				Adults: 1, Strategy: StrategyParallel,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if _, ok := AsInsufficientCapacity(err); !ok {
			t.Errorf("unexpected failure kind: %v", err)
		}
	}
	if succeeded != capacity {
		t.Errorf("%d locks succeeded on capacity %d", succeeded, capacity)
	}
	if got := heldCount(t, slots, "s1"); got != capacity {
		t.Errorf("held count = %d, want %d", got, capacity)
	}
}
