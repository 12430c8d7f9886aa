// Package sheets exports filtered payment tables to Google Sheets.
package sheets

import (
	"fmt"
	"os"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
)

// DefaultSpreadsheetName names spreadsheets created without an explicit ID.
const DefaultSpreadsheetName = "Payments"

// Config holds the configuration for the Google Sheets exporter.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TokenFile          string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		TimeZone:         "UTC",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// LoadFromEnv fills unset fields from GOOGLE_SHEETS_* environment variables.
func (c *Config) LoadFromEnv() error {
	setIfEmpty(&c.ClientID, "GOOGLE_SHEETS_CLIENT_ID")
	setIfEmpty(&c.ClientSecret, "GOOGLE_SHEETS_CLIENT_SECRET")
	setIfEmpty(&c.RefreshToken, "GOOGLE_SHEETS_REFRESH_TOKEN")
	setIfEmpty(&c.TokenFile, "GOOGLE_SHEETS_TOKEN_FILE")
	setIfEmpty(&c.ServiceAccountPath, "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	setIfEmpty(&c.SpreadsheetID, "GOOGLE_SHEETS_SPREADSHEET_ID")

	if v := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); v != "" && (c.SpreadsheetName == "" || c.SpreadsheetName == DefaultSpreadsheetName) {
		c.SpreadsheetName = v
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}

	if !c.hasOAuth() && !c.hasServiceAccount() {
		return fmt.Errorf("missing Google Sheets authentication: provide either service account path or OAuth2 credentials: %w",
			common.ErrMissingConfig)
	}
	return nil
}

func setIfEmpty(field *string, env string) {
	if *field == "" {
		*field = os.Getenv(env)
	}
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && (c.RefreshToken != "" || c.TokenFile != "")
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasOAuth := c.hasOAuth()
	hasServiceAccount := c.hasServiceAccount()

	if !hasOAuth && !hasServiceAccount {
		return fmt.Errorf("no authentication method configured: %w", common.ErrMissingConfig)
	}
	if hasOAuth && hasServiceAccount {
		return fmt.Errorf("multiple authentication methods configured; use either OAuth2 or service account: %w",
			common.ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive: %w", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("retry attempts cannot be negative: %w", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry delay cannot be negative: %w", common.ErrInvalidConfig)
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			return fmt.Errorf("invalid time zone %q: %w", c.TimeZone, common.ErrInvalidConfig)
		}
	}
	return nil
}

func (c *Config) location() *time.Location {
	if c.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
