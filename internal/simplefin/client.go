// Package simplefin imports payment records from a SimpleFIN bridge.
package simplefin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/shopspring/decimal"
)

var (
	// ErrSimpleFINConnection is returned when the bridge cannot be reached or
	// answers with an unexpected status.
	ErrSimpleFINConnection = errors.New("simplefin connection error")

	errInvalidDateRange = errors.New("start date must be before end date")
)

// Config holds SimpleFIN settings. Token is the one-time setup token; once
// claimed, the access URL is kept in StateFile and the token is no longer
// needed.
type Config struct {
	Token     string
	AccessURL string
	StateFile string
	Timeout   time.Duration
}

// Validate checks that some form of credential is present.
func (c *Config) Validate() error {
	if c.AccessURL == "" && c.Token == "" && c.StateFile == "" {
		return fmt.Errorf("simplefin token or access URL is required: %w", common.ErrMissingConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("simplefin timeout cannot be negative: %w", common.ErrInvalidConfig)
	}
	return nil
}

// Client fetches payments from SimpleFIN.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	accessURL  string
	retryOpts  service.RetryOptions
}

type accountSet struct {
	Errors   []string  `json:"errors"`
	Accounts []account `json:"accounts"`
}

type account struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Transactions []transaction `json:"transactions"`
}

type transaction struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Payee       string `json:"payee"`
	Posted      int64  `json:"posted"`
	Pending     bool   `json:"pending"`
}

// NewClient creates a client. Without an explicit access URL the saved
// auth state is used, claiming cfg.Token first if nothing is saved.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	accessURL := cfg.AccessURL
	if accessURL == "" {
		auth, err := LoadOrClaimAuth(ctx, httpClient, cfg.Token, cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load or claim auth: %w", err)
		}
		accessURL = auth.AccessURL
	}

	return newClient(httpClient, accessURL), nil
}

func newClient(httpClient *http.Client, accessURL string) *Client {
	return &Client{
		httpClient: httpClient,
		accessURL:  strings.TrimSuffix(accessURL, "/"),
		logger:     common.Component("simplefin"),
		retryOpts:  common.DefaultRetryOptions,
	}
}

// GetPayments fetches the transactions posted in [start, end] across every
// account on the connection.
func (c *Client) GetPayments(ctx context.Context, start, end time.Time) ([]model.Payment, error) {
	if start.After(end) {
		return nil, errInvalidDateRange
	}

	u, err := url.Parse(c.accessURL + "/accounts")
	if err != nil {
		return nil, fmt.Errorf("failed to parse access URL: %w", err)
	}
	q := u.Query()
	q.Set("start-date", strconv.FormatInt(start.Unix(), 10))
	// end-date is exclusive
	q.Set("end-date", strconv.FormatInt(end.AddDate(0, 0, 1).Unix(), 10))
	q.Set("pending", "1")
	u.RawQuery = q.Encode()

	c.logger.Debug("Requesting SimpleFIN transactions",
		"start_date", start.Format(time.DateOnly),
		"end_date", end.Format(time.DateOnly))

	var set accountSet
	err = common.WithRetry(ctx, func() error {
		var fetchErr error
		set, fetchErr = c.fetch(ctx, u.String())
		return fetchErr
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	for _, msg := range set.Errors {
		c.logger.Warn("SimpleFIN reported a problem", "message", msg)
	}

	var payments []model.Payment
	for _, acct := range set.Accounts {
		for _, tx := range acct.Transactions {
			p, err := toPayment(acct, tx)
			if err != nil {
				c.logger.Warn("Skipping transaction", "account", acct.ID, "transaction", tx.ID, "error", err)
				continue
			}
			if p.Date.Before(start) || p.Date.After(end.AddDate(0, 0, 1)) {
				continue
			}
			payments = append(payments, p)
		}
	}

	c.logger.Info("Fetched payments from SimpleFIN",
		"accounts", len(set.Accounts),
		"payments", len(payments))
	return payments, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string) (accountSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return accountSet{}, common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return accountSet{}, fmt.Errorf("%w: %w", ErrSimpleFINConnection, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		statusErr := fmt.Errorf("%w: status %d: %s", ErrSimpleFINConnection, resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return accountSet{}, statusErr
		}
		return accountSet{}, common.Permanent(statusErr)
	}

	var set accountSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return accountSet{}, common.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return set, nil
}

// toPayment maps a SimpleFIN transaction. Amounts are signed decimal strings
// where money leaving the account is negative; credits become refunds.
func toPayment(acct account, tx transaction) (model.Payment, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(tx.Amount))
	if err != nil {
		return model.Payment{}, fmt.Errorf("invalid amount %q: %w", tx.Amount, err)
	}

	status := model.StatusSucceeded
	switch {
	case tx.Pending:
		status = model.StatusPending
	case amount.IsPositive():
		status = model.StatusRefunded
	}

	description := strings.TrimSpace(tx.Payee)
	if description == "" {
		description = strings.TrimSpace(tx.Description)
	}

	p := model.Payment{
		ID:            acct.ID + "_" + tx.ID,
		Date:          time.Unix(tx.Posted, 0).UTC(),
		Amount:        amount.Abs(),
		Currency:      currencyCode(acct.Currency),
		Status:        status,
		Description:   normalizeMerchant(description),
		PaymentMethod: model.MethodBankTransfer,
	}
	if err := p.Validate(); err != nil {
		return model.Payment{}, fmt.Errorf("%w: %w", common.ErrInvalidPayment, err)
	}
	return p, nil
}

// currencyCode returns an ISO 4217 code. Custom currencies are given as
// URLs and fall back to USD.
func currencyCode(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 3 {
		return "USD"
	}
	return c
}

func normalizeMerchant(raw string) string {
	merchant := strings.Join(strings.Fields(raw), " ")
	for _, suffix := range []string{" LLC", " INC", " CORP"} {
		if strings.HasSuffix(strings.ToUpper(merchant), suffix) {
			merchant = merchant[:len(merchant)-len(suffix)]
		}
	}
	return strings.TrimSpace(merchant)
}

var _ service.PaymentFetcher = (*Client)(nil)
