package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where Authorize listens for the OAuth2 redirect.
const DefaultCallbackAddr = "localhost:8080"

// OAuth2Config holds the settings for the interactive OAuth2 flow.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CallbackAddr string
	Timeout      time.Duration
}

func oauthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// Authorize runs the browser OAuth2 flow. openURL receives the consent URL;
// the token is saved to cfg.TokenFile when one is set.
func Authorize(ctx context.Context, cfg OAuth2Config, openURL func(string), logger *slog.Logger) (*oauth2.Token, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("client ID and client secret are required")
	}
	if cfg.CallbackAddr == "" {
		cfg.CallbackAddr = DefaultCallbackAddr
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	listener, err := net.Listen("tcp", cfg.CallbackAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start callback server: %w", err)
	}

	conf := oauthConfig(cfg.ClientID, cfg.ClientSecret, "http://"+listener.Addr().String()+"/callback")
	state := fmt.Sprintf("payfilter-%d", time.Now().UnixNano())

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			select {
			case errCh <- errors.New("oauth2 state mismatch"):
			default:
			}
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "no authorization code received", http.StatusBadRequest)
			select {
			case errCh <- errors.New("no authorization code received"):
			default:
			}
			return
		}
		_, _ = fmt.Fprint(w, "Authentication successful. You can close this window.")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if serveErr := server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("callback server: %w", serveErr):
			default:
			}
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	openURL(conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))
	logger.Info("Waiting for Google authorization", "callback", listener.Addr().String())

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(cfg.Timeout):
		return nil, fmt.Errorf("no authorization received within %s", cfg.Timeout)
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if cfg.TokenFile != "" {
		if err := SaveToken(cfg.TokenFile, token); err != nil {
			return nil, err
		}
		logger.Info("Token saved", "file", cfg.TokenFile)
	}

	return token, nil
}

// LoadToken reads a token written by SaveToken.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	if tokenFile == "" {
		return nil, errors.New("no token file configured")
	}
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return token, nil
}

// SaveToken writes token as JSON with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}
