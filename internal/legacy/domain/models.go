// Package domain holds the legacy export record types and the source
// abstraction the migration reads them through.
package domain

// User is a legacy platform user as exported from the old system.
type User struct {
	ID               string `json:"id"`
	UID              string `json:"uid"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	AppRole          string `json:"appRole"`
	IsActive         bool   `json:"isActive"`
	IsAuth           bool   `json:"isAuth"`
	StripeCustomerID string `json:"stripeCustomerId"`
}

// Assignment links a customer to an employee with an hour balance.
type Assignment struct {
	ID             string  `json:"id"`
	DocID          string  `json:"docId"`
	CustomerID     string  `json:"customerId"`
	EmployeeID     string  `json:"employeeId"`
	AvailableHours float64 `json:"availableHours"`
	Rate           float64 `json:"rate"`
	Cost           float64 `json:"cost"`
	IsDeleted      bool    `json:"isDeleted"`
	IsActive       bool    `json:"isActive"`
	HasReload      bool    `json:"hasReload"`
	HasSub         bool    `json:"hasSub"`
}

// Reload is a threshold-triggered balance top-up tied to an assignment.
type Reload struct {
	ID              string  `json:"id"`
	DocID           string  `json:"docId"`
	AssignmentID    string  `json:"assignmentId"`
	MinHours        float64 `json:"minHours"`
	Hours           float64 `json:"hours"`
	PaymentMethodID string  `json:"paymentMethodId"`
	IsDeleted       bool    `json:"isDeleted"`
	IsActive        bool    `json:"isActive"`
}

// Subscription is a recurring monthly balance top-up tied to an assignment.
type Subscription struct {
	ID              string  `json:"id"`
	DocID           string  `json:"docId"`
	AssignmentID    string  `json:"assignmentId"`
	Hours           float64 `json:"hours"`
	PaymentMethodID string  `json:"paymentMethodId"`
	IsDeleted       bool    `json:"isDeleted"`
	IsActive        bool    `json:"isActive"`
}
