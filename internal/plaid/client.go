// Package plaid imports payment records from the Plaid transactions API.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	// Plaid's max page size.
	pageSize = int32(500)
)

var errInvalidDateRange = errors.New("start date must be before end date")

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("plaid client ID is required: %w", common.ErrMissingConfig)
	}
	if c.Secret == "" {
		return fmt.Errorf("plaid secret is required: %w", common.ErrMissingConfig)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("plaid access token is required: %w", common.ErrMissingConfig)
	}
	if c.Environment == "" {
		return fmt.Errorf("plaid environment is required: %w", common.ErrMissingConfig)
	}

	switch c.Environment {
	case "sandbox", "production":
		return nil
	default:
		return fmt.Errorf("invalid Plaid environment %q, must be sandbox or production: %w",
			c.Environment, common.ErrInvalidConfig)
	}
}

// Client fetches payments from Plaid.
type Client struct {
	client      *plaid.APIClient
	logger      *slog.Logger
	retryOpts   service.RetryOptions
	accessToken string
}

// NewClient creates a Plaid client with the given configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)

	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	return &Client{
		client:      plaid.NewAPIClient(configuration),
		accessToken: cfg.AccessToken,
		logger:      common.Component("plaid"),
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     30 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// GetPayments fetches every transaction in [startDate, endDate] and maps it
// to a payment. Records that fail validation are skipped with a warning.
func (c *Client) GetPayments(ctx context.Context, startDate, endDate time.Time) ([]model.Payment, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if startDate.After(endDate) {
		return nil, errInvalidDateRange
	}

	c.logger.Info("Fetching transactions from Plaid",
		"start_date", startDate.Format(dateLayout),
		"end_date", endDate.Format(dateLayout))

	var all []plaid.Transaction
	offset := int32(0)

	for {
		var page []plaid.Transaction

		retryErr := common.WithRetry(ctx, func() error {
			request := plaid.NewTransactionsGetRequest(
				c.accessToken,
				startDate.Format(dateLayout),
				endDate.Format(dateLayout),
			)
			request.SetOptions(plaid.TransactionsGetRequestOptions{
				Count:  plaid.PtrInt32(pageSize),
				Offset: plaid.PtrInt32(offset),
			})

			resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
			if err != nil {
				return classifyError(c.logger, err)
			}

			page = resp.GetTransactions()
			c.logger.Debug("Fetched transaction batch",
				"count", len(page),
				"offset", offset,
				"total", resp.GetTotalTransactions())
			return nil
		}, c.retryOpts)
		if retryErr != nil {
			return nil, retryErr
		}

		all = append(all, page...)
		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	payments := make([]model.Payment, 0, len(all))
	for _, pt := range all {
		p, err := toPayment(recordFromTransaction(pt))
		if err != nil {
			c.logger.Warn("Skipping Plaid transaction", "id", pt.GetTransactionId(), "error", err)
			continue
		}
		payments = append(payments, p)
	}

	c.logger.Info("Fetched payments from Plaid", "fetched", len(all), "kept", len(payments))
	return payments, nil
}

func classifyError(logger *slog.Logger, err error) error {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return fmt.Errorf("failed to fetch transactions: %w: %w", common.ErrPlaidConnection, err)
	}
	if plaidErr.ErrorCode == "RATE_LIMIT_EXCEEDED" {
		logger.Warn("Rate limit hit, will retry", "error", plaidErr.ErrorMessage)
		return &common.RetryableError{Err: fmt.Errorf("%w: %s", common.ErrPlaidRateLimit, plaidErr.ErrorMessage), Retryable: true}
	}
	return common.Permanent(fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage))
}

// record is the subset of a Plaid transaction a payment is built from.
type record struct {
	ID           string
	Date         string
	Name         string
	MerchantName string
	Currency     string
	Channel      string
	Amount       float64
	Pending      bool
}

func recordFromTransaction(pt plaid.Transaction) record {
	return record{
		ID:           pt.GetTransactionId(),
		Date:         pt.GetDate(),
		Name:         pt.GetName(),
		MerchantName: pt.GetMerchantName(),
		Currency:     pt.GetIsoCurrencyCode(),
		Channel:      string(pt.GetPaymentChannel()),
		Amount:       pt.GetAmount(),
		Pending:      pt.GetPending(),
	}
}

// toPayment maps a Plaid record to a payment. Plaid reports money leaving
// the account as a positive amount, so negative amounts are refunds.
func toPayment(r record) (model.Payment, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return model.Payment{}, fmt.Errorf("parse date %q: %w", r.Date, err)
	}

	description := r.MerchantName
	if description == "" {
		description = r.Name
	}

	currency := strings.ToUpper(r.Currency)
	if currency == "" {
		currency = "USD"
	}

	amount := decimal.NewFromFloat(r.Amount).Round(2)

	status := model.StatusSucceeded
	switch {
	case r.Pending:
		status = model.StatusPending
	case amount.IsNegative():
		status = model.StatusRefunded
	}

	p := model.Payment{
		ID:            r.ID,
		Date:          date,
		Amount:        amount.Abs(),
		Currency:      currency,
		Status:        status,
		Description:   cleanMerchantName(description),
		PaymentMethod: methodForChannel(r.Channel),
	}
	if err := p.Validate(); err != nil {
		return model.Payment{}, fmt.Errorf("%w: %w", common.ErrInvalidPayment, err)
	}
	return p, nil
}

func methodForChannel(channel string) string {
	switch channel {
	case "online", "in store", "in_store":
		return model.MethodCard
	default:
		return model.MethodBankTransfer
	}
}

// cleanMerchantName title-cases a merchant name and strips trailing
// transaction IDs and company suffixes.
func cleanMerchantName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, word := range words {
		runes := []rune(word)
		for j := range runes {
			if j == 0 || !isLetter(runes[j-1]) {
				runes[j] = toUpper(runes[j])
			}
		}
		words[i] = string(runes)
	}

	// "MERCHANT 123456789"
	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 5 && isAllDigits(last) {
			words = words[:len(words)-1]
		}
	}
	name = strings.Join(words, " ")

	suffixes := []string{" Llc", " Inc", " Corp", " Corporation", " Company", " Co", " Ltd", " Limited"}
	for changed := true; changed; {
		changed = false
		for _, suffix := range suffixes {
			if strings.HasSuffix(name, suffix) {
				name = strings.TrimSuffix(name, suffix)
				changed = true
			}
		}
	}

	return strings.TrimSpace(name)
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 32
	}
	return r
}

var _ service.PaymentFetcher = (*Client)(nil)
