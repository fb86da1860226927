// Package domain defines the billing provider contract.
package domain

import (
	"context"
	"errors"
)

// PaymentMethod is the normalized snapshot of a stored card.
type PaymentMethod struct {
	ID       string
	Type     string
	Last4    string
	Brand    string
	ExpMonth int64
	ExpYear  int64
}

// CustomerService creates billing customers and reads their stored
// card payment methods. Any provider error is fatal to the run.
type CustomerService interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	ListCardPaymentMethods(ctx context.Context, customerID string) ([]PaymentMethod, error)
}

var (
	ErrMissingEmail      = errors.New("missing_billing_email")
	ErrMissingCustomerID = errors.New("missing_customer_id")
)
