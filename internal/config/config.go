// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
)

// Config carries everything the migration run needs to talk to the
// outside world. All values come from the environment; a .env file is
// honored when present.
type Config struct {
	// ProjectID is the target Google Cloud project hosting the identity
	// tenant and the destination document store.
	ProjectID string

	// CredentialsFile points at a service-account key. Empty means
	// application default credentials.
	CredentialsFile string

	// StripeAPIKey authenticates the billing provider client.
	StripeAPIKey string

	// DataDir holds the legacy collection exports (<collection>.json).
	DataDir string

	// AdminUserID is the user document every audit stamp references.
	AdminUserID string

	// RoleClaim is the custom claim assigned to every provisioned
	// identity. The differentiated role lives on the profile document.
	RoleClaim string

	// WritePacing is the delay inserted after each top-level write.
	WritePacing time.Duration
}

var (
	ErrMissingProjectID   = errors.New("missing_project_id")
	ErrMissingStripeKey   = errors.New("missing_stripe_key")
	ErrMissingAdminUserID = errors.New("missing_admin_user_id")
)

// Load reads configuration from the environment and validates the
// required entries.
func Load() (Config, error) {
	cfg := Config{
		ProjectID:       strings.TrimSpace(os.Getenv("GOOGLE_PROJECT_ID")),
		CredentialsFile: strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		StripeAPIKey:    strings.TrimSpace(os.Getenv("STRIPE_API_KEY")),
		DataDir:         envOrDefault("LEGACY_DATA_DIR", "from-data"),
		AdminUserID:     strings.TrimSpace(os.Getenv("ADMIN_USER_ID")),
		RoleClaim:       envOrDefault("ROLE_CLAIM", "CLIENT"),
		WritePacing:     10 * time.Millisecond,
	}

	if raw := strings.TrimSpace(os.Getenv("WRITE_PACING_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, err
		}
		cfg.WritePacing = time.Duration(ms) * time.Millisecond
	}

	if cfg.ProjectID == "" {
		return cfg, ErrMissingProjectID
	}
	if cfg.StripeAPIKey == "" {
		return cfg, ErrMissingStripeKey
	}
	if cfg.AdminUserID == "" {
		return cfg, ErrMissingAdminUserID
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
