package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/daasly/ivy-migration/internal/billing/domain"
	"github.com/daasly/ivy-migration/internal/config"
	docstoredomain "github.com/daasly/ivy-migration/internal/docstore/domain"
	"github.com/daasly/ivy-migration/internal/docstore/memory"
	identitydomain "github.com/daasly/ivy-migration/internal/identity/domain"
	legacydomain "github.com/daasly/ivy-migration/internal/legacy/domain"
	"github.com/daasly/ivy-migration/internal/migration/domain"
	"github.com/daasly/ivy-migration/internal/pacing"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func TestRunMigratesFullDataset(t *testing.T) {
	store := memory.New()
	billing := newFakeBilling()
	billing.methods["cus_existing"] = []billingdomain.PaymentMethod{
		{ID: "pm_card", Type: "card", Last4: "4242", Brand: "visa", ExpMonth: 12, ExpYear: 2030},
	}
	svc := newTestService(t, fixtureSource(), store, newFakeProvisioner(), billing)

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	users := store.Collection(domain.CollectionUsers)
	if len(users) != 3 {
		t.Fatalf("expected 3 user docs, got %d", len(users))
	}

	ada, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionUsers, ID: "uid-1"})
	if !ok {
		t.Fatal("expected ada under the provider-allocated uid-1")
	}
	if ada["role"] != domain.RoleClient || ada["status"] != domain.UserStatusPending {
		t.Fatalf("unexpected ada doc: role=%v status=%v", ada["role"], ada["status"])
	}
	name := ada["name"].(map[string]any)
	if name["first"] != "Ada" || name["last"] != "Lovelace" {
		t.Fatalf("unexpected name split: %+v", name)
	}

	bob := findByField(t, store.Collection(domain.CollectionUsers), "prevId", "2")
	if bob["status"] != domain.UserStatusArchived {
		t.Fatalf("expected bob archived, got %v", bob["status"])
	}

	accounts := store.Collection(domain.CollectionAccounts)
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	adaAccount := findByField(t, accounts, "name", "Ada Lovelace")
	bobAccount := findByField(t, accounts, "name", "Bob Martin")

	for _, account := range []map[string]any{adaAccount, bobAccount} {
		if refs := account["assignments"].([]docstoredomain.Ref); len(refs) != 1 {
			t.Fatalf("expected 1 assignment ref, got %+v", refs)
		}
	}

	// Ada already had a billing customer: same id, methods fetched.
	if adaAccount["stripeCustomerId"] != "cus_existing" {
		t.Fatalf("expected existing customer id, got %v", adaAccount["stripeCustomerId"])
	}
	if methods := adaAccount["stripePaymentMethods"].([]map[string]any); len(methods) != 1 || methods[0]["last4"] != "4242" {
		t.Fatalf("unexpected payment methods: %+v", methods)
	}

	// Bob had none: fresh customer, empty snapshot.
	if bobAccount["stripeCustomerId"] != "cus_new_1" {
		t.Fatalf("expected fresh customer id, got %v", bobAccount["stripeCustomerId"])
	}
	if methods := bobAccount["stripePaymentMethods"].([]map[string]any); len(methods) != 0 {
		t.Fatalf("expected empty payment methods, got %+v", methods)
	}
	if len(billing.createdEmails) != 1 || billing.createdEmails[0] != "bob@example.com" {
		t.Fatalf("unexpected customer creations: %v", billing.createdEmails)
	}

	a1, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionAssignments, ID: "doc-a1"})
	if !ok {
		t.Fatal("missing assignment doc-a1")
	}
	if a1["balance"] != 10.01 || a1["rate"] != 85.56 || a1["cost"] != 95.0 {
		t.Fatalf("unexpected normalization: balance=%v rate=%v cost=%v", a1["balance"], a1["rate"], a1["cost"])
	}
	if a1["status"] != domain.AssignmentStatusActive {
		t.Fatalf("expected active assignment, got %v", a1["status"])
	}
	if userRef := a1["userRef"].(docstoredomain.Ref); userRef.ID != "uid-emp" || userRef.Collection != domain.CollectionUsers {
		t.Fatalf("contractor reference wrong: %+v", userRef)
	}
	if subRef := a1["thresholdSubscriptionRef"].(docstoredomain.Ref); subRef.ID != "doc-r1" {
		t.Fatalf("threshold subscription reference wrong: %+v", subRef)
	}

	a2, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionAssignments, ID: "doc-a2"})
	if !ok {
		t.Fatal("missing assignment doc-a2")
	}
	if a2["status"] != domain.AssignmentStatusNegative {
		t.Fatalf("expected negative balance status, got %v", a2["status"])
	}

	r1, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionSubscriptions, ID: "doc-r1"})
	if !ok {
		t.Fatal("missing threshold subscription doc-r1")
	}
	if r1["thresholdMinimum"] != 5.0 || r1["reloadAmount"] != 10.0 {
		t.Fatalf("unexpected threshold subscription: %+v", r1)
	}
	if r1["stripeCustomerId"] != "cus_existing" {
		t.Fatalf("threshold subscription must snapshot the pre-sync customer id, got %v", r1["stripeCustomerId"])
	}
	if _, ok := r1["reloadIntervalType"]; ok {
		t.Fatal("threshold subscription must not carry an interval type")
	}

	s1, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionSubscriptions, ID: "doc-s1"})
	if !ok {
		t.Fatal("missing monthly subscription doc-s1")
	}
	if s1["reloadIntervalType"] != domain.ReloadIntervalMonthly {
		t.Fatalf("expected monthly interval, got %v", s1["reloadIntervalType"])
	}
	if s1["stripeCustomerId"] != "" {
		t.Fatalf("bob had no customer id at assignment time, got %v", s1["stripeCustomerId"])
	}
	if next := s1["nextReload"].(time.Time); !next.Equal(testNow.AddDate(0, 1, 0)) {
		t.Fatalf("unexpected nextReload: %v", next)
	}
}

func TestRunOrdersWritesByDependency(t *testing.T) {
	store := memory.New()
	svc := newTestService(t, fixtureSource(), store, newFakeProvisioner(), newFakeBilling())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	writes := store.Writes()
	positions := make(map[string]int, len(writes))
	for i, ref := range writes {
		positions[ref.Path()] = i
	}

	// All users precede any account.
	for path, pos := range positions {
		if len(path) > 6 && path[:6] == "users/" {
			for other, otherPos := range positions {
				if len(other) > 9 && other[:9] == "accounts/" && otherPos < pos {
					t.Fatalf("account %s written before user %s", other, path)
				}
			}
		}
	}

	mustPrecede(t, positions, "subscriptions/doc-r1", "assignments/doc-a1")
	mustPrecede(t, positions, "subscriptions/doc-s1", "assignments/doc-a2")

	// A client's assignments land before its account document.
	adaAccountPos := accountWritePosition(t, store, "Ada Lovelace")
	if positions["assignments/doc-a1"] > adaAccountPos {
		t.Fatal("assignment doc-a1 written after its account")
	}
}

func TestRunFailsWhenReloadMissing(t *testing.T) {
	src := fixtureSource()
	src.reloads = nil
	store := memory.New()
	svc := newTestService(t, src, store, newFakeProvisioner(), newFakeBilling())

	err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrReloadNotFound) {
		t.Fatalf("expected ErrReloadNotFound, got %v", err)
	}
	if _, ok := store.Get(docstoredomain.Ref{Collection: domain.CollectionAssignments, ID: "doc-a1"}); ok {
		t.Fatal("assignment must not be written when its reload is missing")
	}
}

func TestRunFailsWhenContractorMissing(t *testing.T) {
	src := fixtureSource()
	src.users = src.users[:2] // drop the contractor
	svc := newTestService(t, src, memory.New(), newFakeProvisioner(), newFakeBilling())

	err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrContractorNotFound) {
		t.Fatalf("expected ErrContractorNotFound, got %v", err)
	}
}

func TestRunFailsOnDuplicateEmails(t *testing.T) {
	src := fixtureSource()
	src.users = append(src.users, legacydomain.User{ID: "9", Name: "Ada Clone", Email: "ADA@example.com"})
	svc := newTestService(t, src, memory.New(), newFakeProvisioner(), newFakeBilling())

	err := svc.Run(context.Background())
	if !errors.Is(err, domain.ErrDuplicateEmails) {
		t.Fatalf("expected ErrDuplicateEmails, got %v", err)
	}
}

func TestRunAssignsUniformRoleClaim(t *testing.T) {
	prov := newFakeProvisioner()
	svc := newTestService(t, fixtureSource(), memory.New(), prov, newFakeBilling())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(prov.claims) != 3 {
		t.Fatalf("expected 3 role claims, got %d", len(prov.claims))
	}
	for uid, role := range prov.claims {
		if role != "CLIENT" {
			t.Fatalf("expected uniform CLIENT claim for %s, got %q", uid, role)
		}
	}
}

func TestRerunOverwritesDocsButDuplicatesAccounts(t *testing.T) {
	store := memory.New()
	svc := newTestService(t, fixtureSource(), store, newFakeProvisioner(), newFakeBilling())

	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := svc.Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	if assignments := store.Collection(domain.CollectionAssignments); len(assignments) != 2 {
		t.Fatalf("assignments must overwrite in place, got %d docs", len(assignments))
	}
	if subscriptions := store.Collection(domain.CollectionSubscriptions); len(subscriptions) != 2 {
		t.Fatalf("subscriptions must overwrite in place, got %d docs", len(subscriptions))
	}
	if accounts := store.Collection(domain.CollectionAccounts); len(accounts) != 4 {
		t.Fatalf("accounts must duplicate across runs, got %d docs", len(accounts))
	}
}

func TestRunFailsFastOnProvisioningError(t *testing.T) {
	prov := newFakeProvisioner()
	prov.failEmail = "bob@example.com"
	store := memory.New()
	svc := newTestService(t, fixtureSource(), store, prov, newFakeBilling())

	if err := svc.Run(context.Background()); err == nil {
		t.Fatal("expected provisioning failure to abort the run")
	}

	// Ada was written before the failure and stays; nothing past bob.
	if users := store.Collection(domain.CollectionUsers); len(users) != 1 {
		t.Fatalf("expected exactly the pre-failure user doc, got %d", len(users))
	}
	if accounts := store.Collection(domain.CollectionAccounts); len(accounts) != 0 {
		t.Fatalf("no accounts may exist after an aborted user stage, got %d", len(accounts))
	}
}

func newTestService(
	t *testing.T,
	src *fakeSource,
	store *memory.Store,
	prov *fakeProvisioner,
	billing *fakeBilling,
) *Service {
	t.Helper()

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return &Service{
		log: zap.NewNop(),
		cfg: config.Config{
			AdminUserID: "admin-1",
			RoleClaim:   "CLIENT",
		},
		source:   src,
		store:    store,
		identity: prov,
		billing:  billing,
		pacer:    pacing.NewFixed(0),
		genID:    node,
		clock:    fixedClock{},
	}
}

func mustPrecede(t *testing.T, positions map[string]int, before, after string) {
	t.Helper()
	b, ok := positions[before]
	if !ok {
		t.Fatalf("missing write %s", before)
	}
	a, ok := positions[after]
	if !ok {
		t.Fatalf("missing write %s", after)
	}
	if b > a {
		t.Fatalf("%s written after %s", before, after)
	}
}

func accountWritePosition(t *testing.T, store *memory.Store, name string) int {
	t.Helper()
	for i, ref := range store.Writes() {
		if ref.Collection != domain.CollectionAccounts {
			continue
		}
		fields, _ := store.Get(ref)
		if fields["name"] == name {
			return i
		}
	}
	t.Fatalf("no account write for %s", name)
	return -1
}

func findByField(t *testing.T, docs map[string]map[string]any, key string, want any) map[string]any {
	t.Helper()
	for _, fields := range docs {
		if fields[key] == want {
			return fields
		}
	}
	t.Fatalf("no document with %s=%v", key, want)
	return nil
}

func fixtureSource() *fakeSource {
	return &fakeSource{
		users: []legacydomain.User{
			{ID: "1", Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100",
				AppRole: "customer", IsActive: true, IsAuth: true, StripeCustomerID: "cus_existing"},
			{ID: "2", Name: "Bob Martin", Email: "bob@example.com", Phone: "555-0101",
				AppRole: "customer", IsActive: true, IsAuth: false},
			{ID: "3", UID: "uid-emp", Name: "Eve Engineer", Email: "eve@example.com",
				AppRole: "employee", IsActive: true, IsAuth: true},
		},
		assignments: []legacydomain.Assignment{
			{ID: "a1", DocID: "doc-a1", CustomerID: "1", EmployeeID: "3",
				AvailableHours: 10.005, Rate: 85.555, Cost: 95,
				IsActive: true, HasReload: true},
			{ID: "a2", DocID: "doc-a2", CustomerID: "2", EmployeeID: "3",
				AvailableHours: -2.5, Rate: 70, Cost: 80,
				IsActive: true, HasSub: true},
		},
		reloads: []legacydomain.Reload{
			{ID: "r1", DocID: "doc-r1", AssignmentID: "a1", MinHours: 5, Hours: 10,
				PaymentMethodID: "pm_1", IsActive: true},
		},
		subscriptions: []legacydomain.Subscription{
			{ID: "s1", DocID: "doc-s1", AssignmentID: "a2", Hours: 20,
				PaymentMethodID: "pm_2", IsActive: true},
		},
	}
}

type fakeSource struct {
	users         []legacydomain.User
	assignments   []legacydomain.Assignment
	reloads       []legacydomain.Reload
	subscriptions []legacydomain.Subscription
}

func (s *fakeSource) Users(context.Context) ([]legacydomain.User, error) { return s.users, nil }
func (s *fakeSource) Assignments(context.Context) ([]legacydomain.Assignment, error) {
	return s.assignments, nil
}
func (s *fakeSource) Reloads(context.Context) ([]legacydomain.Reload, error) { return s.reloads, nil }
func (s *fakeSource) Subscriptions(context.Context) ([]legacydomain.Subscription, error) {
	return s.subscriptions, nil
}

type fakeProvisioner struct {
	next   int
	claims map[string]string

	failEmail string
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{claims: make(map[string]string)}
}

func (p *fakeProvisioner) Create(_ context.Context, spec identitydomain.Spec) (identitydomain.Identity, error) {
	if p.failEmail != "" && spec.Email == p.failEmail {
		return identitydomain.Identity{}, fmt.Errorf("identity: create user %s: email exists", spec.Email)
	}
	if spec.UID != "" {
		return identitydomain.Identity{UID: spec.UID}, nil
	}
	p.next++
	return identitydomain.Identity{UID: fmt.Sprintf("uid-%d", p.next)}, nil
}

func (p *fakeProvisioner) SetRoleClaim(_ context.Context, uid string, role string) error {
	p.claims[uid] = role
	return nil
}

type fakeBilling struct {
	next          int
	createdEmails []string
	methods       map[string][]billingdomain.PaymentMethod
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{methods: make(map[string][]billingdomain.PaymentMethod)}
}

func (b *fakeBilling) CreateCustomer(_ context.Context, email string) (string, error) {
	b.createdEmails = append(b.createdEmails, email)
	b.next++
	return fmt.Sprintf("cus_new_%d", b.next), nil
}

func (b *fakeBilling) ListCardPaymentMethods(_ context.Context, customerID string) ([]billingdomain.PaymentMethod, error) {
	return b.methods[customerID], nil
}

type fixedClock struct{}

func (fixedClock) Now() time.Time { return testNow }
