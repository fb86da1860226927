package domain

import (
	"sort"
	"strings"
)

// Snapshot indexes a fixed legacy dataset for cross-collection lookups.
// Assignments keep their export order within each customer.
type Snapshot struct {
	Users []User

	assignmentsByCustomer    map[string][]Assignment
	reloadByAssignment       map[string]Reload
	subscriptionByAssignment map[string]Subscription
}

// NewSnapshot builds the lookup indexes once; all later lookups are O(1).
func NewSnapshot(users []User, assignments []Assignment, reloads []Reload, subscriptions []Subscription) *Snapshot {
	s := &Snapshot{
		Users:                    users,
		assignmentsByCustomer:    make(map[string][]Assignment),
		reloadByAssignment:       make(map[string]Reload, len(reloads)),
		subscriptionByAssignment: make(map[string]Subscription, len(subscriptions)),
	}

	for _, a := range assignments {
		s.assignmentsByCustomer[a.CustomerID] = append(s.assignmentsByCustomer[a.CustomerID], a)
	}
	for _, r := range reloads {
		s.reloadByAssignment[r.AssignmentID] = r
	}
	for _, sub := range subscriptions {
		s.subscriptionByAssignment[sub.AssignmentID] = sub
	}

	return s
}

// AssignmentsForCustomer returns the customer's assignments in export order.
func (s *Snapshot) AssignmentsForCustomer(customerID string) []Assignment {
	return s.assignmentsByCustomer[customerID]
}

// ReloadForAssignment resolves the single reload record of an assignment
// flagged hasReload.
func (s *Snapshot) ReloadForAssignment(assignmentID string) (Reload, bool) {
	r, ok := s.reloadByAssignment[assignmentID]
	return r, ok
}

// SubscriptionForAssignment resolves the single monthly subscription
// record of an assignment flagged hasSub.
func (s *Snapshot) SubscriptionForAssignment(assignmentID string) (Subscription, bool) {
	sub, ok := s.subscriptionByAssignment[assignmentID]
	return sub, ok
}

// DuplicateEmails reports emails that appear more than once among the
// legacy users, compared case-insensitively. The identity provider
// rejects duplicates, so these must surface before provisioning starts.
func (s *Snapshot) DuplicateEmails() []string {
	seen := make(map[string]int, len(s.Users))
	for _, u := range s.Users {
		seen[strings.ToLower(u.Email)]++
	}

	var dupes []string
	for email, count := range seen {
		if count > 1 {
			dupes = append(dupes, email)
		}
	}
	sort.Strings(dupes)
	return dupes
}
