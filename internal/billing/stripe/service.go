// Package stripe implements the billing provider against Stripe.
package stripe

import (
	"context"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v79"
	stripeclient "github.com/stripe/stripe-go/v79/client"

	"github.com/daasly/ivy-migration/internal/billing/domain"
	"go.uber.org/zap"
)

type Service struct {
	api *stripeclient.API
	log *zap.Logger
}

func New(api *stripeclient.API, log *zap.Logger) *Service {
	return &Service{
		api: api,
		log: log.Named("billing.stripe"),
	}
}

func (s *Service) CreateCustomer(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", domain.ErrMissingEmail
	}

	params := &stripego.CustomerParams{
		Email: stripego.String(email),
	}
	params.Context = ctx

	customer, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create customer: %w", err)
	}

	s.log.Debug("billing customer created", zap.String("customer_id", customer.ID))
	return customer.ID, nil
}

func (s *Service) ListCardPaymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, domain.ErrMissingCustomerID
	}

	params := &stripego.PaymentMethodListParams{
		Customer: stripego.String(customerID),
		Type:     stripego.String(string(stripego.PaymentMethodTypeCard)),
	}
	params.Context = ctx

	methods := make([]domain.PaymentMethod, 0)
	iter := s.api.PaymentMethods.List(params)
	for iter.Next() {
		pm := iter.PaymentMethod()
		method := domain.PaymentMethod{
			ID:   pm.ID,
			Type: string(pm.Type),
		}
		if pm.Card != nil {
			method.Last4 = pm.Card.Last4
			method.Brand = string(pm.Card.Brand)
			method.ExpMonth = pm.Card.ExpMonth
			method.ExpYear = pm.Card.ExpYear
		}
		methods = append(methods, method)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("billing: list payment methods for %s: %w", customerID, err)
	}

	return methods, nil
}
