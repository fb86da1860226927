// Package domain contains the destination data model and the pure
// transformation rules of the migration.
package domain

import (
	"time"

	billingdomain "github.com/daasly/ivy-migration/internal/billing/domain"
	docstoredomain "github.com/daasly/ivy-migration/internal/docstore/domain"
)

// Destination collections, written in dependency order.
const (
	CollectionUsers         = "users"
	CollectionAccounts      = "accounts"
	CollectionAssignments   = "assignments"
	CollectionSubscriptions = "subscriptions"
)

const (
	RoleClient     = "CLIENT"
	RoleContractor = "CONTRACTOR"
	RoleAdmin      = "ADMIN"
	RoleUnknown    = "UNKNOWN"

	UserStatusPending  = "PENDING"
	UserStatusArchived = "ARCHIVED"

	AssignmentStatusActive   = "Active"
	AssignmentStatusArchived = "Archived"
	AssignmentStatusNegative = "Negative Balance"

	SubscriptionStatusActive = "Active"
	SubscriptionStatusPaused = "Paused"

	ReloadIntervalMonthly = "monthly"

	AccountTypePerson = "Person"
)

// Audit stamps every document with creation/update times and the acting
// administrative identity.
type Audit struct {
	Created   time.Time
	CreatedBy docstoredomain.Ref
	Updated   time.Time
	UpdatedBy docstoredomain.Ref
}

func (a Audit) fields() map[string]any {
	return map[string]any{
		"created":   a.Created,
		"createdBy": a.CreatedBy,
		"updated":   a.Updated,
		"updatedBy": a.UpdatedBy,
	}
}

// Addresses are blank placeholders at migration time; the legacy data
// never carried them.
func blankAddress() map[string]any {
	return map[string]any{
		"street":  "",
		"city":    "",
		"state":   "",
		"zip":     "",
		"country": "",
	}
}

// UserDoc is the migrated profile document.
type UserDoc struct {
	PrevID      string
	Role        string
	FirstName   string
	LastName    string
	DisplayName string
	Email       string
	Phone       string
	Status      string
	Audit       Audit
}

func (d UserDoc) Fields() map[string]any {
	fields := map[string]any{
		"prevId": d.PrevID,
		"role":   d.Role,
		"name": map[string]any{
			"first": d.FirstName,
			"last":  d.LastName,
		},
		"displayName": d.DisplayName,
		"email":       d.Email,
		"phone":       d.Phone,
		"address":     blankAddress(),
		"status":      d.Status,
	}
	mergeAudit(fields, d.Audit)
	return fields
}

// AccountDoc owns a client's assignments and billing linkage. Account
// identifiers are generated fresh each run.
type AccountDoc struct {
	Name             string
	BillingEmail     string
	Type             string
	Users            []docstoredomain.Ref
	Assignments      []docstoredomain.Ref
	StripeCustomerID string
	PaymentMethods   []billingdomain.PaymentMethod
	Audit            Audit
}

func (d AccountDoc) Fields() map[string]any {
	methods := make([]map[string]any, len(d.PaymentMethods))
	for i, pm := range d.PaymentMethods {
		methods[i] = map[string]any{
			"id":       pm.ID,
			"type":     pm.Type,
			"last4":    pm.Last4,
			"brand":    pm.Brand,
			"expMonth": pm.ExpMonth,
			"expYear":  pm.ExpYear,
		}
	}

	fields := map[string]any{
		"name":                 d.Name,
		"address":              blankAddress(),
		"billingEmail":         d.BillingEmail,
		"type":                 d.Type,
		"users":                refList(d.Users),
		"opportunities":        []docstoredomain.Ref{},
		"assignments":          refList(d.Assignments),
		"stripeCustomerId":     d.StripeCustomerID,
		"stripePaymentMethods": methods,
	}
	mergeAudit(fields, d.Audit)
	return fields
}

// AssignmentDoc links an account to a contractor with normalized
// financial fields. Subscription references are present only when the
// legacy record was flagged.
type AssignmentDoc struct {
	PrevID                string
	Account               docstoredomain.Ref
	User                  docstoredomain.Ref
	Balance               float64
	Rate                  float64
	Cost                  float64
	Status                string
	ThresholdSubscription *docstoredomain.Ref
	MonthlySubscription   *docstoredomain.Ref
	Audit                 Audit
}

func (d AssignmentDoc) Fields() map[string]any {
	fields := map[string]any{
		"prevId":     d.PrevID,
		"accountRef": d.Account,
		"userRef":    d.User,
		"balance":    d.Balance,
		"rate":       d.Rate,
		"cost":       d.Cost,
		"status":     d.Status,
	}
	if d.ThresholdSubscription != nil {
		fields["thresholdSubscriptionRef"] = *d.ThresholdSubscription
	}
	if d.MonthlySubscription != nil {
		fields["monthlySubscriptionRef"] = *d.MonthlySubscription
	}
	mergeAudit(fields, d.Audit)
	return fields
}

// SubscriptionDoc covers both kinds: threshold reloads carry a
// ThresholdMinimum and no interval; monthly subscriptions carry the
// monthly interval and, when active, the next reload time.
type SubscriptionDoc struct {
	PrevID                string
	Assignment            docstoredomain.Ref
	ThresholdMinimum      *float64
	ReloadAmount          float64
	ReloadIntervalType    string
	StripeCustomerID      string
	StripePaymentMethodID string
	Status                string
	NextReload            *time.Time
	Audit                 Audit
}

func (d SubscriptionDoc) Fields() map[string]any {
	fields := map[string]any{
		"prevId":                d.PrevID,
		"assignmentRef":         d.Assignment,
		"reloadAmount":          d.ReloadAmount,
		"stripeCustomerId":      d.StripeCustomerID,
		"stripePaymentMethodId": d.StripePaymentMethodID,
		"status":                d.Status,
	}
	if d.ThresholdMinimum != nil {
		fields["thresholdMinimum"] = *d.ThresholdMinimum
	}
	if d.ReloadIntervalType != "" {
		fields["reloadIntervalType"] = d.ReloadIntervalType
	}
	if d.NextReload != nil {
		fields["nextReload"] = *d.NextReload
	}
	mergeAudit(fields, d.Audit)
	return fields
}

func mergeAudit(fields map[string]any, audit Audit) {
	for key, value := range audit.fields() {
		fields[key] = value
	}
}

func refList(refs []docstoredomain.Ref) []docstoredomain.Ref {
	if refs == nil {
		return []docstoredomain.Ref{}
	}
	return refs
}
