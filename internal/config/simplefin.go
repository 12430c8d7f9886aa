package config

import (
	"os"

	"github.com/Veraticus/payfilter/internal/simplefin"
	"github.com/spf13/viper"
)

// DefaultSimpleFINStateFile holds the claimed access URL when
// simplefin.state_file is unset.
const DefaultSimpleFINStateFile = "~/.local/share/payfilter/simplefin_auth.json"

// LoadSimpleFINConfig reads simplefin.* settings, falling back to the
// SIMPLEFIN_TOKEN env var for the setup token.
func LoadSimpleFINConfig(v *viper.Viper) (*simplefin.Config, error) {
	cfg := simplefin.Config{
		Token:     firstNonEmpty(v.GetString("simplefin.token"), os.Getenv("SIMPLEFIN_TOKEN")),
		AccessURL: v.GetString("simplefin.access_url"),
		StateFile: ExpandPath(firstNonEmpty(v.GetString("simplefin.state_file"), DefaultSimpleFINStateFile)),
		Timeout:   v.GetDuration("simplefin.timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
