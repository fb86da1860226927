package billing

import (
	stripeclient "github.com/stripe/stripe-go/v79/client"

	"github.com/daasly/ivy-migration/internal/billing/domain"
	"github.com/daasly/ivy-migration/internal/billing/stripe"
	"github.com/daasly/ivy-migration/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("billing",
	fx.Provide(func(cfg config.Config) *stripeclient.API {
		api := &stripeclient.API{}
		api.Init(cfg.StripeAPIKey, nil)
		return api
	}),
	fx.Provide(func(api *stripeclient.API, log *zap.Logger) domain.CustomerService {
		return stripe.New(api, log)
	}),
)
