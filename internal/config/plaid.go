package config

import (
	"os"

	"github.com/Veraticus/payfilter/internal/plaid"
	"github.com/spf13/viper"
)

// LoadPlaidConfig reads plaid.* settings, falling back to PLAID_* env vars.
func LoadPlaidConfig(v *viper.Viper) (*plaid.Config, error) {
	cfg := plaid.Config{
		ClientID:    firstNonEmpty(v.GetString("plaid.client_id"), os.Getenv("PLAID_CLIENT_ID")),
		Secret:      firstNonEmpty(v.GetString("plaid.secret"), os.Getenv("PLAID_SECRET")),
		Environment: firstNonEmpty(v.GetString("plaid.environment"), os.Getenv("PLAID_ENV"), "sandbox"),
		AccessToken: firstNonEmpty(v.GetString("plaid.access_token"), os.Getenv("PLAID_ACCESS_TOKEN")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, s := range values {
		if s != "" {
			return s
		}
	}
	return ""
}
