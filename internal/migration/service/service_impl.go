// Package service implements the migration orchestrator.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/daasly/ivy-migration/internal/billing/domain"
	"github.com/daasly/ivy-migration/internal/clock"
	"github.com/daasly/ivy-migration/internal/config"
	docstoredomain "github.com/daasly/ivy-migration/internal/docstore/domain"
	identitydomain "github.com/daasly/ivy-migration/internal/identity/domain"
	legacydomain "github.com/daasly/ivy-migration/internal/legacy/domain"
	"github.com/daasly/ivy-migration/internal/migration/domain"
	"github.com/daasly/ivy-migration/internal/pacing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Source   legacydomain.Source
	Store    docstoredomain.Store
	Identity identitydomain.Provisioner
	Billing  billingdomain.CustomerService
	Pacer    pacing.Pacer
	GenID    *snowflake.Node
	Clock    clock.Clock
}

type Service struct {
	log      *zap.Logger
	cfg      config.Config
	source   legacydomain.Source
	store    docstoredomain.Store
	identity identitydomain.Provisioner
	billing  billingdomain.CustomerService
	pacer    pacing.Pacer
	genID    *snowflake.Node
	clock    clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("migration.service"),
		cfg:      p.Cfg,
		source:   p.Source,
		store:    p.Store,
		identity: p.Identity,
		billing:  p.Billing,
		pacer:    p.Pacer,
		genID:    p.GenID,
		clock:    p.Clock,
	}
}

// Run executes the full migration. Stages are strictly ordered: every
// user is provisioned and persisted before any account work begins, and
// an assignment's subscription documents are written before the
// assignment that references them.
func (s *Service) Run(ctx context.Context) error {
	snapshot, err := s.loadSnapshot(ctx)
	if err != nil {
		return err
	}

	if dupes := snapshot.DuplicateEmails(); len(dupes) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateEmails, strings.Join(dupes, ", "))
	}

	roster, err := s.migrateUsers(ctx, snapshot)
	if err != nil {
		return err
	}

	clients := roster.Clients()
	s.log.Info("users migrated",
		zap.Int("total", len(snapshot.Users)),
		zap.Int("clients", len(clients)),
	)

	for _, client := range clients {
		if err := s.migrateClient(ctx, snapshot, roster, client); err != nil {
			return err
		}
		if err := s.pacer.Wait(ctx); err != nil {
			return err
		}
	}

	s.log.Info("migration complete", zap.Int("accounts", len(clients)))
	return nil
}

func (s *Service) loadSnapshot(ctx context.Context) (*legacydomain.Snapshot, error) {
	users, err := s.source.Users(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.source.Assignments(ctx)
	if err != nil {
		return nil, err
	}
	reloads, err := s.source.Reloads(ctx)
	if err != nil {
		return nil, err
	}
	subscriptions, err := s.source.Subscriptions(ctx)
	if err != nil {
		return nil, err
	}
	return legacydomain.NewSnapshot(users, assignments, reloads, subscriptions), nil
}

func (s *Service) migrateUsers(ctx context.Context, snapshot *legacydomain.Snapshot) (*domain.Roster, error) {
	roster := domain.NewRoster()

	for _, user := range snapshot.Users {
		identity, err := s.identity.Create(ctx, identitydomain.Spec{
			UID:         user.UID,
			DisplayName: user.Name,
			Email:       user.Email,
		})
		if err != nil {
			return nil, err
		}

		// The claim is uniform for every identity; the differentiated
		// role lives on the profile document only.
		if err := s.identity.SetRoleClaim(ctx, identity.UID, s.cfg.RoleClaim); err != nil {
			return nil, err
		}

		first, last := domain.SplitName(user.Name)
		doc := domain.UserDoc{
			PrevID:      user.ID,
			Role:        domain.UserRole(user.AppRole),
			FirstName:   first,
			LastName:    last,
			DisplayName: user.Name,
			Email:       user.Email,
			Phone:       user.Phone,
			Status:      domain.UserStatus(user.IsActive, user.IsAuth),
			Audit:       s.audit(),
		}

		ref := docstoredomain.Ref{Collection: domain.CollectionUsers, ID: identity.UID}
		if err := s.store.Set(ctx, ref, doc.Fields()); err != nil {
			return nil, err
		}
		s.log.Info("user created", zap.String("id", identity.UID))

		roster.Add(domain.RosterEntry{
			UID:              identity.UID,
			LegacyID:         user.ID,
			DisplayName:      user.Name,
			Email:            user.Email,
			Role:             doc.Role,
			StripeCustomerID: user.StripeCustomerID,
		})

		if err := s.pacer.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return roster, nil
}

func (s *Service) migrateClient(
	ctx context.Context,
	snapshot *legacydomain.Snapshot,
	roster *domain.Roster,
	client domain.RosterEntry,
) error {
	accountRef := docstoredomain.Ref{
		Collection: domain.CollectionAccounts,
		ID:         s.genID.Generate().String(),
	}
	account := domain.AccountDoc{
		Name:             client.DisplayName,
		BillingEmail:     client.Email,
		Type:             domain.AccountTypePerson,
		Users:            []docstoredomain.Ref{{Collection: domain.CollectionUsers, ID: client.UID}},
		StripeCustomerID: client.StripeCustomerID,
		Audit:            s.audit(),
	}

	for _, assignment := range snapshot.AssignmentsForCustomer(client.LegacyID) {
		assignmentRef, err := s.migrateAssignment(ctx, snapshot, roster, assignment, accountRef, account.StripeCustomerID)
		if err != nil {
			return err
		}
		account.Assignments = append(account.Assignments, assignmentRef)
	}

	if err := s.syncBilling(ctx, &account); err != nil {
		return err
	}

	if err := s.store.Set(ctx, accountRef, account.Fields()); err != nil {
		return err
	}
	s.log.Info("account created", zap.String("id", accountRef.ID))

	return nil
}

func (s *Service) migrateAssignment(
	ctx context.Context,
	snapshot *legacydomain.Snapshot,
	roster *domain.Roster,
	assignment legacydomain.Assignment,
	accountRef docstoredomain.Ref,
	stripeCustomerID string,
) (docstoredomain.Ref, error) {
	assignmentRef := docstoredomain.Ref{
		Collection: domain.CollectionAssignments,
		ID:         assignment.DocID,
	}

	contractor, ok := roster.ContractorByLegacyID(assignment.EmployeeID)
	if !ok {
		return assignmentRef, fmt.Errorf("%w: employee %s for assignment %s",
			domain.ErrContractorNotFound, assignment.EmployeeID, assignment.ID)
	}

	balance := domain.NormalizeAmount(assignment.AvailableHours)
	doc := domain.AssignmentDoc{
		PrevID:  assignment.ID,
		Account: accountRef,
		User:    docstoredomain.Ref{Collection: domain.CollectionUsers, ID: contractor.UID},
		Balance: balance,
		Rate:    domain.NormalizeAmount(assignment.Rate),
		Cost:    domain.NormalizeAmount(assignment.Cost),
		Status:  domain.AssignmentStatus(assignment.IsDeleted, assignment.IsActive, balance),
		Audit:   s.audit(),
	}

	// Subscription documents are written first so the assignment can
	// embed their references.
	if assignment.HasReload {
		subRef, err := s.writeThresholdSubscription(ctx, snapshot, assignment, assignmentRef, stripeCustomerID)
		if err != nil {
			return assignmentRef, err
		}
		doc.ThresholdSubscription = &subRef
	}

	if assignment.HasSub {
		subRef, err := s.writeMonthlySubscription(ctx, snapshot, assignment, assignmentRef, stripeCustomerID)
		if err != nil {
			return assignmentRef, err
		}
		doc.MonthlySubscription = &subRef
	}

	if err := s.store.Set(ctx, assignmentRef, doc.Fields()); err != nil {
		return assignmentRef, err
	}
	s.log.Info("assignment created", zap.String("id", assignmentRef.ID))

	return assignmentRef, nil
}

func (s *Service) writeThresholdSubscription(
	ctx context.Context,
	snapshot *legacydomain.Snapshot,
	assignment legacydomain.Assignment,
	assignmentRef docstoredomain.Ref,
	stripeCustomerID string,
) (docstoredomain.Ref, error) {
	reload, ok := snapshot.ReloadForAssignment(assignment.ID)
	if !ok {
		return docstoredomain.Ref{}, fmt.Errorf("%w: assignment %s flagged hasReload",
			domain.ErrReloadNotFound, assignment.ID)
	}

	minimum := reload.MinHours
	doc := domain.SubscriptionDoc{
		PrevID:                reload.ID,
		Assignment:            assignmentRef,
		ThresholdMinimum:      &minimum,
		ReloadAmount:          reload.Hours,
		StripeCustomerID:      stripeCustomerID,
		StripePaymentMethodID: reload.PaymentMethodID,
		Status:                domain.SubscriptionStatus(reload.IsDeleted, reload.IsActive),
		Audit:                 s.audit(),
	}

	ref := docstoredomain.Ref{Collection: domain.CollectionSubscriptions, ID: reload.DocID}
	if err := s.store.Set(ctx, ref, doc.Fields()); err != nil {
		return ref, err
	}
	s.log.Info("threshold subscription created", zap.String("id", ref.ID))

	return ref, nil
}

func (s *Service) writeMonthlySubscription(
	ctx context.Context,
	snapshot *legacydomain.Snapshot,
	assignment legacydomain.Assignment,
	assignmentRef docstoredomain.Ref,
	stripeCustomerID string,
) (docstoredomain.Ref, error) {
	subscription, ok := snapshot.SubscriptionForAssignment(assignment.ID)
	if !ok {
		return docstoredomain.Ref{}, fmt.Errorf("%w: assignment %s flagged hasSub",
			domain.ErrSubscriptionNotFound, assignment.ID)
	}

	doc := domain.SubscriptionDoc{
		PrevID:                subscription.ID,
		Assignment:            assignmentRef,
		ReloadAmount:          subscription.Hours,
		ReloadIntervalType:    domain.ReloadIntervalMonthly,
		StripeCustomerID:      stripeCustomerID,
		StripePaymentMethodID: subscription.PaymentMethodID,
		Status:                domain.SubscriptionStatus(subscription.IsDeleted, subscription.IsActive),
		Audit:                 s.audit(),
	}
	if doc.Status == domain.SubscriptionStatusActive {
		next := s.clock.Now().AddDate(0, 1, 0)
		doc.NextReload = &next
	}

	ref := docstoredomain.Ref{Collection: domain.CollectionSubscriptions, ID: subscription.DocID}
	if err := s.store.Set(ctx, ref, doc.Fields()); err != nil {
		return ref, err
	}
	s.log.Info("monthly subscription created", zap.String("id", ref.ID))

	return ref, nil
}

// syncBilling runs after the client's assignments so subscription
// documents snapshot the billing customer id the client arrived with,
// not the one created here.
func (s *Service) syncBilling(ctx context.Context, account *domain.AccountDoc) error {
	if account.StripeCustomerID != "" {
		methods, err := s.billing.ListCardPaymentMethods(ctx, account.StripeCustomerID)
		if err != nil {
			return err
		}
		account.PaymentMethods = methods
		return nil
	}

	customerID, err := s.billing.CreateCustomer(ctx, account.BillingEmail)
	if err != nil {
		return err
	}
	account.StripeCustomerID = customerID
	account.PaymentMethods = []billingdomain.PaymentMethod{}
	return nil
}

func (s *Service) audit() domain.Audit {
	now := s.clock.Now()
	adminRef := docstoredomain.Ref{Collection: domain.CollectionUsers, ID: s.cfg.AdminUserID}
	return domain.Audit{
		Created:   now,
		CreatedBy: adminRef,
		Updated:   now,
		UpdatedBy: adminRef,
	}
}
