package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		target  error
		name    string
		errMsg  string
		config  Config
		wantErr bool
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID:      "test-client",
				ClientSecret:  "test-secret",
				RefreshToken:  "test-token",
				BatchSize:     100,
				RetryAttempts: 3,
				RetryDelay:    time.Second,
			},
		},
		{
			name: "oauth with token file",
			config: Config{
				ClientID:     "test-client",
				ClientSecret: "test-secret",
				TokenFile:    "/tmp/token.json",
				BatchSize:    100,
			},
		},
		{
			name: "valid service account config",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      3,
				RetryDelay:         time.Second,
			},
		},
		{
			name: "zero retry delay is valid",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
		},
		{
			name:    "missing auth",
			config:  Config{BatchSize: 100},
			wantErr: true,
			errMsg:  "no authentication method configured",
			target:  common.ErrMissingConfig,
		},
		{
			name: "partial oauth credentials",
			config: Config{
				ClientID:     "test-client",
				RefreshToken: "test-token",
				BatchSize:    100,
			},
			wantErr: true,
			errMsg:  "no authentication method configured",
			target:  common.ErrMissingConfig,
		},
		{
			name: "multiple auth methods",
			config: Config{
				ClientID:           "test-client",
				ClientSecret:       "test-secret",
				RefreshToken:       "test-token",
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
			},
			wantErr: true,
			errMsg:  "multiple authentication methods configured",
			target:  common.ErrInvalidConfig,
		},
		{
			name: "invalid batch size",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
			},
			wantErr: true,
			errMsg:  "batch size must be positive",
			target:  common.ErrInvalidConfig,
		},
		{
			name: "negative retry attempts",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryAttempts:      -1,
			},
			wantErr: true,
			errMsg:  "retry attempts cannot be negative",
			target:  common.ErrInvalidConfig,
		},
		{
			name: "negative retry delay",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				RetryDelay:         -1 * time.Second,
			},
			wantErr: true,
			errMsg:  "retry delay cannot be negative",
			target:  common.ErrInvalidConfig,
		},
		{
			name: "unknown time zone",
			config: Config{
				ServiceAccountPath: "/path/to/key.json",
				BatchSize:          100,
				TimeZone:           "Mars/Olympus_Mons",
			},
			wantErr: true,
			errMsg:  "invalid time zone",
			target:  common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestConfig_LoadFromEnv(t *testing.T) {
	envKeys := []string{
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_TOKEN_FILE",
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
		"GOOGLE_SHEETS_SPREADSHEET_NAME",
	}

	tests := []struct {
		envVars map[string]string
		check   func(t *testing.T, c *Config)
		name    string
		wantErr bool
	}{
		{
			name: "oauth credentials",
			envVars: map[string]string{
				"GOOGLE_SHEETS_CLIENT_ID":        "test-client",
				"GOOGLE_SHEETS_CLIENT_SECRET":    "test-secret",
				"GOOGLE_SHEETS_REFRESH_TOKEN":    "test-token",
				"GOOGLE_SHEETS_SPREADSHEET_ID":   "test-id",
				"GOOGLE_SHEETS_SPREADSHEET_NAME": "Test Sheet",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "test-client", c.ClientID)
				assert.Equal(t, "test-secret", c.ClientSecret)
				assert.Equal(t, "test-token", c.RefreshToken)
				assert.Equal(t, "test-id", c.SpreadsheetID)
				assert.Equal(t, "Test Sheet", c.SpreadsheetName)
			},
		},
		{
			name: "service account path",
			envVars: map[string]string{
				"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": "/path/to/key.json",
			},
			check: func(t *testing.T, c *Config) {
				t.Helper()
				assert.Equal(t, "/path/to/key.json", c.ServiceAccountPath)
				assert.Equal(t, DefaultSpreadsheetName, c.SpreadsheetName)
			},
		},
		{
			name:    "missing credentials",
			envVars: map[string]string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envKeys {
				t.Setenv(key, "")
			}
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			config := DefaultConfig()
			err := config.LoadFromEnv()

			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrMissingConfig)
				return
			}
			require.NoError(t, err)
			tt.check(t, &config)
		})
	}
}

func TestConfig_LoadFromEnvKeepsExplicitValues(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/env/key.json")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-id")

	config := DefaultConfig()
	config.ServiceAccountPath = "/explicit/key.json"
	config.SpreadsheetID = "explicit-id"

	require.NoError(t, config.LoadFromEnv())
	assert.Equal(t, "/explicit/key.json", config.ServiceAccountPath)
	assert.Equal(t, "explicit-id", config.SpreadsheetID)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, config.EnableFormatting)
	assert.Equal(t, "UTC", config.TimeZone)
	assert.Equal(t, DefaultSpreadsheetName, config.SpreadsheetName)
	assert.Equal(t, 1000, config.BatchSize)
	assert.Equal(t, 3, config.RetryAttempts)
	assert.Equal(t, time.Second, config.RetryDelay)
}
