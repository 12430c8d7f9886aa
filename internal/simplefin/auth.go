package simplefin

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
)

// AuthState is the saved result of claiming a setup token.
type AuthState struct {
	ClaimedAt  time.Time `json:"claimed_at"`
	AccessURL  string    `json:"access_url"`
	ClaimToken string    `json:"claim_token_hint"`
}

// LoadOrClaimAuth returns the auth saved in stateFile, or claims token and
// saves the result there.
func LoadOrClaimAuth(ctx context.Context, client *http.Client, token, stateFile string) (*AuthState, error) {
	logger := common.Component("simplefin")

	if stateFile != "" {
		auth, err := loadAuthState(stateFile)
		if err == nil && auth.AccessURL != "" {
			logger.Debug("Using saved SimpleFIN access URL",
				"claimed_at", auth.ClaimedAt.Format(time.DateOnly),
				"state_file", stateFile)
			return auth, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Ignoring unreadable SimpleFIN state", "state_file", stateFile, "error", err)
		}
	}

	if token == "" {
		return nil, fmt.Errorf("no saved SimpleFIN access and no setup token: %w", common.ErrMissingConfig)
	}

	logger.Info("Claiming SimpleFIN setup token")
	accessURL, err := claimToken(ctx, client, token)
	if err != nil {
		return nil, err
	}

	auth := &AuthState{
		AccessURL:  accessURL,
		ClaimedAt:  time.Now(),
		ClaimToken: tokenHint(token),
	}
	if stateFile != "" {
		if err := saveAuthState(stateFile, auth); err != nil {
			return nil, fmt.Errorf("failed to save auth state: %w", err)
		}
		logger.Info("Saved SimpleFIN access URL", "state_file", stateFile)
	}
	return auth, nil
}

// claimToken exchanges a setup token (a base64-encoded claim URL) for an
// access URL.
func claimToken(ctx context.Context, client *http.Client, token string) (string, error) {
	token = strings.TrimSpace(token)
	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return "", fmt.Errorf("failed to decode SimpleFIN token: %w", err)
		}
	}

	claimURL := string(decoded)
	if !isHTTPURL(claimURL) {
		return "", fmt.Errorf("decoded token is not a URL: %w", common.ErrInvalidConfig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claimURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create claim request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to claim access URL: %w", ErrSimpleFINConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", fmt.Errorf("failed to read claim response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: claim failed with status %d: %s",
			ErrSimpleFINConnection, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	accessURL := strings.TrimSpace(string(body))
	if !isHTTPURL(accessURL) {
		return "", fmt.Errorf("%w: claim returned an invalid access URL", ErrSimpleFINConnection)
	}
	return accessURL, nil
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func loadAuthState(path string) (*AuthState, error) {
	data, err := os.ReadFile(path) //nolint:gosec // configured state path
	if err != nil {
		return nil, err
	}

	var auth AuthState
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

func saveAuthState(path string, auth *AuthState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return err
	}
	// The access URL embeds credentials.
	return os.WriteFile(path, data, 0o600)
}

// tokenHint keeps enough of a token to recognize it later.
func tokenHint(token string) string {
	if len(token) > 16 {
		return token[:8] + "..." + token[len(token)-8:]
	}
	return "short_token"
}
