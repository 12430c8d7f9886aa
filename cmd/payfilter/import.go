package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/ofx"
	"github.com/Veraticus/payfilter/internal/plaid"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/simplefin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

// ofxWorkers bounds how many files are parsed at once.
const ofxWorkers = 4

// newPaymentFetcher builds the Plaid client; tests replace it with a mock.
var newPaymentFetcher = func(cfg plaid.Config) (service.PaymentFetcher, error) {
	client, err := plaid.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newSimpleFINFetcher claims or loads SimpleFIN access; tests replace it.
var newSimpleFINFetcher = func(ctx context.Context, cfg simplefin.Config) (service.PaymentFetcher, error) {
	client, err := simplefin.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import payments into the local database",
	}
	cmd.AddCommand(importOFXCmd())
	cmd.AddCommand(importPlaidCmd())
	cmd.AddCommand(importSimpleFINCmd())
	return cmd
}

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ofx FILE...",
		Short: "Import payments from OFX/QFX files",
		Long: `Import payments from OFX or QFX (Quicken) files exported from your bank.

Payments already in the database (same ID) are skipped.

Examples:
  # Import a single file
  payfilter import ofx ~/Downloads/chase_jan_2024.qfx

  # Import every QFX file in a directory
  payfilter import ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}
	cmd.Flags().BoolP("dry-run", "d", false, "Parse files and report without saving")
	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	interruptHandler := cli.NewInterruptHandler(out, "Import", "Payments parsed so far were not saved.")
	ctx, stop := interruptHandler.HandleInterrupts(cmd.Context())
	defer stop()

	logger := common.Component("import")
	logger.Info("Importing OFX files", "file_count", len(files), "dry_run", dryRun)

	parser := ofx.NewParser()
	bar := cli.NewProgressBar(cmd.ErrOrStderr(), len(files), "Parsing")

	// Results are kept per file so duplicates resolve in argument order.
	results := make([][]model.Payment, len(files))
	failures := make([]error, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ofxWorkers)
	for i, path := range files {
		g.Go(func() error {
			defer func() { _ = bar.Add(1) }()
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed, err := parseOFXFile(gctx, parser, path)
			if errors.Is(err, context.Canceled) {
				return err
			}
			results[i], failures[i] = parsed, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var (
		payments []model.Payment
		seen     = make(map[string]bool)
		failed   int
	)
	for i, path := range files {
		if failures[i] != nil {
			logger.Error("Failed to parse OFX file", "file", path, "error", failures[i])
			failed++
			continue
		}
		added := 0
		for _, p := range results[i] {
			if !seen[p.ID] {
				seen[p.ID] = true
				payments = append(payments, p)
				added++
			}
		}
		logger.Debug("Parsed file",
			"file", filepath.Base(path),
			"payments", len(results[i]),
			"duplicates", len(results[i])-added)
	}

	if failed == len(files) {
		return fmt.Errorf("no file could be parsed (%d failed)", failed)
	}

	if dryRun {
		_, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf(
			"Dry run: %d payments found in %d files, nothing saved", len(payments), len(files)-failed)))
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	return savePayments(ctx, cmd, a, payments)
}

// expandFiles expands glob patterns. Patterns that match nothing are kept
// when they name an existing file.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		pattern = config.ExpandPath(pattern)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			common.Component("import").Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, common.NewUserError("no files found to import", os.ErrNotExist)
	}
	return files, nil
}

func parseOFXFile(ctx context.Context, parser *ofx.Parser, path string) ([]model.Payment, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(ctx, f)
}

func importPlaidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plaid",
		Short: "Import payments from Plaid",
		Long: `Fetch transactions from Plaid and store them as payments.

Credentials come from plaid.client_id, plaid.secret, plaid.environment and
plaid.access_token, or the PLAID_CLIENT_ID, PLAID_SECRET, PLAID_ENV and
PLAID_ACCESS_TOKEN environment variables.`,
		Args: cobra.NoArgs,
		RunE: runImportPlaid,
	}
	addDateRangeFlags(cmd)
	return cmd
}

func runImportPlaid(cmd *cobra.Command, _ []string) error {
	plaidConfig, err := config.LoadPlaidConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Plaid is not configured", err)
	}

	return importRemote(cmd, "Plaid", func(context.Context) (service.PaymentFetcher, error) {
		return newPaymentFetcher(*plaidConfig)
	})
}

func importSimpleFINCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplefin",
		Short: "Import payments from SimpleFIN",
		Long: `Fetch transactions from a SimpleFIN bridge and store them as payments.

The first run claims the setup token from simplefin.token or SIMPLEFIN_TOKEN
and saves the resulting access URL to simplefin.state_file. Later runs reuse
the saved access and need no token.`,
		Args: cobra.NoArgs,
		RunE: runImportSimpleFIN,
	}
	addDateRangeFlags(cmd)
	return cmd
}

func runImportSimpleFIN(cmd *cobra.Command, _ []string) error {
	sfConfig, err := config.LoadSimpleFINConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("SimpleFIN is not configured", err)
	}

	return importRemote(cmd, "SimpleFIN", func(ctx context.Context) (service.PaymentFetcher, error) {
		fetcher, err := newSimpleFINFetcher(ctx, *sfConfig)
		if errors.Is(err, common.ErrMissingConfig) {
			return nil, common.NewUserError("SimpleFIN is not configured (set SIMPLEFIN_TOKEN)", err)
		}
		return fetcher, err
	})
}

// importRemote fetches the requested date range from a remote source and
// stores the result.
func importRemote(cmd *cobra.Command, source string, connect func(context.Context) (service.PaymentFetcher, error)) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	start, end, err := importDateRange(cmd, time.Now().In(a.location))
	if err != nil {
		return err
	}

	fetcher, err := connect(ctx)
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			return err
		}
		return fmt.Errorf("failed to create %s client: %w", source, err)
	}

	common.Component("import").Info("Fetching payments",
		"source", source,
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly))

	payments, err := fetcher.GetPayments(ctx, start, end)
	if err != nil {
		return fmt.Errorf("failed to fetch payments: %w", err)
	}

	return savePayments(ctx, cmd, a, payments)
}

func addDateRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "first day to fetch, YYYY-MM-DD (default: 30 days ago)")
	cmd.Flags().String("end", "", "last day to fetch, YYYY-MM-DD (default: today)")
}

func importDateRange(cmd *cobra.Command, now time.Time) (time.Time, time.Time, error) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := end.AddDate(0, 0, -30)

	for _, bound := range []struct {
		target *time.Time
		flag   string
	}{
		{flag: "start", target: &start},
		{flag: "end", target: &end},
	} {
		text, _ := cmd.Flags().GetString(bound.flag)
		if text == "" {
			continue
		}
		t, err := time.ParseInLocation(time.DateOnly, text, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, common.NewUserError(
				fmt.Sprintf("--%s must be a date like 2024-03-21", bound.flag), errInvalidFlag)
		}
		*bound.target = t
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, common.NewUserError("--start is after --end", errInvalidFlag)
	}
	return start, end, nil
}

func savePayments(ctx context.Context, cmd *cobra.Command, a *app, payments []model.Payment) error {
	if len(payments) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("No payments found"))
		return err
	}

	inserted, err := a.store.SavePayments(ctx, payments)
	if err != nil {
		return fmt.Errorf("failed to save payments: %w", err)
	}

	a.logger.Info("Saved payments", "received", len(payments), "inserted", inserted)
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Imported %d new payments (%d already stored)", inserted, len(payments)-inserted)))
	return err
}
