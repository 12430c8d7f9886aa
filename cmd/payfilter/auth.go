package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/Veraticus/payfilter/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with external services",
	}
	cmd.AddCommand(authSheetsCmd())
	return cmd
}

func authSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Authenticate with Google Sheets",
		Long: `Authenticate with Google Sheets using OAuth2.

This command opens your browser, waits for Google to redirect back to a
local callback, and saves the token to sheets.token_file (default:
$HOME/.config/payfilter/sheets-token.json). Run it once before using
'payfilter export sheets' without a service account.`,
		Args: cobra.NoArgs,
		RunE: runAuthSheets,
	}

	cmd.Flags().String("client-id", "", "OAuth2 Client ID (overrides config)")
	cmd.Flags().String("client-secret", "", "OAuth2 Client Secret (overrides config)")
	cmd.Flags().String("callback", sheets.DefaultCallbackAddr, "local address for the OAuth2 redirect")

	return cmd
}

func runAuthSheets(cmd *cobra.Command, _ []string) error {
	clientID := viper.GetString("sheets.client_id")
	clientSecret := viper.GetString("sheets.client_secret")

	if flagID, _ := cmd.Flags().GetString("client-id"); flagID != "" {
		clientID = flagID
	}
	if flagSecret, _ := cmd.Flags().GetString("client-secret"); flagSecret != "" {
		clientSecret = flagSecret
	}
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	}

	if clientID == "" || clientSecret == "" {
		return common.NewUserError(
			"OAuth2 credentials not found: set sheets.client_id and sheets.client_secret or use --client-id and --client-secret",
			common.ErrMissingConfig)
	}

	tokenFile, err := sheetsTokenFile()
	if err != nil {
		return err
	}
	callback, _ := cmd.Flags().GetString("callback")

	logger := common.Component("auth")
	logger.Info("Starting Google Sheets authentication", "token_file", tokenFile)

	_, err = sheets.Authorize(cmd.Context(), sheets.OAuth2Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    tokenFile,
		CallbackAddr: callback,
	}, func(url string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Opening your browser. If nothing happens, visit:\n\n  %s\n\n", url)
		openBrowser(url)
	}, logger)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n",
		cli.FormatSuccess("Authentication successful!"),
		cli.FormatInfo(fmt.Sprintf("Token saved to %s. Set sheets.token_file to this path if it differs from your config.", tokenFile)))
	return err
}

// sheetsTokenFile returns sheets.token_file, or the default under the
// user's config directory.
func sheetsTokenFile() (string, error) {
	if path := viper.GetString("sheets.token_file"); path != "" {
		return config.ExpandPath(path), nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "payfilter", "sheets-token.json"), nil
}

// openBrowser tries to open the URL in the default browser.
func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start() //nolint:gosec
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start() //nolint:gosec
	case "darwin":
		err = exec.Command("open", url).Start() //nolint:gosec
	}
	if err != nil {
		common.Component("auth").Debug("Failed to open browser", "error", err)
	}
}
