package config

import (
	"github.com/Veraticus/payfilter/internal/sheets"
	"github.com/spf13/viper"
)

// LoadSheetsConfig builds the Sheets exporter configuration. Precedence:
// viper (config file or PAYFILTER_ env vars), then GOOGLE_SHEETS_* env
// vars, then defaults. The time zone falls back to display.timezone.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(v.GetString("sheets.service_account_path"))
	config.TokenFile = ExpandPath(v.GetString("sheets.token_file"))
	config.ClientID = v.GetString("sheets.client_id")
	config.ClientSecret = v.GetString("sheets.client_secret")
	config.RefreshToken = v.GetString("sheets.refresh_token")
	config.SpreadsheetID = v.GetString("sheets.spreadsheet_id")
	if name := v.GetString("sheets.spreadsheet_name"); name != "" {
		config.SpreadsheetName = name
	}

	switch {
	case v.GetString("sheets.timezone") != "":
		config.TimeZone = v.GetString("sheets.timezone")
	case v.GetString("display.timezone") != "":
		config.TimeZone = v.GetString("display.timezone")
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, err
	}
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)
	config.TokenFile = ExpandPath(config.TokenFile)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
