package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/Veraticus/payfilter/internal/service"
	"github.com/Veraticus/payfilter/internal/session"
	"github.com/Veraticus/payfilter/internal/sheets"
	"github.com/Veraticus/payfilter/internal/viewmodel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newSheetsExporter builds the Google Sheets writer; tests replace it with a mock.
var newSheetsExporter = func(cmd *cobra.Command, cfg sheets.Config) (service.PaymentExporter, error) {
	writer, err := sheets.NewWriter(cmd.Context(), cfg, common.Component("sheets"))
	if err != nil {
		return nil, err
	}
	return writer, nil
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the payments matching a filter",
	}
	cmd.AddCommand(exportCSVCmd())
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Write matching payments as CSV",
		Args:  cobra.NoArgs,
		RunE:  runExportCSV,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringP("output", "o", "", "file to write (default: stdout)")
	return cmd
}

func runExportCSV(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s, matched, err := filteredPayments(cmd, a)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return cli.WritePaymentsCSV(cmd.OutOrStdout(), matched, a.location)
	}

	path := config.ExpandPath(output)
	if err := writeCSVFile(path, matched, a.location); err != nil {
		return err
	}

	a.logger.Info("Exported payments", "file", path, "results", len(matched), "active_filters", s.ActiveCount())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Wrote %s to %s", viewmodel.ResultCountLabel(len(matched)), path)))
	return err
}

func writeCSVFile(path string, payments []model.Payment, loc *time.Location) (err error) {
	f, err := os.Create(path) //nolint:gosec // user-supplied output path
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return cli.WritePaymentsCSV(f, payments, loc)
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write matching payments to a Google Sheet",
		Long: `Write the payments matching a filter to a Google Sheet.

The sheet is cleared and rewritten on every export. Configure access with
sheets.service_account_path, or run 'payfilter auth sheets' for OAuth2.
sheets.spreadsheet_id selects an existing spreadsheet; without it a new one
named after sheets.spreadsheet_name is created.`,
		Args: cobra.NoArgs,
		RunE: runExportSheets,
	}
	addFilterFlags(cmd)
	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	sheetsConfig, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError("Google Sheets is not configured (run 'payfilter auth sheets')", err)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s, matched, err := filteredPayments(cmd, a)
	if err != nil {
		return err
	}

	exporter, err := newSheetsExporter(cmd, *sheetsConfig)
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	summary := service.ExportSummary{
		GeneratedAt: time.Now(),
		FilterLabel: filterLabel(s.FilterBar()),
		ResultLabel: viewmodel.ResultCountLabel(len(matched)),
	}
	if err := exporter.Export(ctx, matched, summary); err != nil {
		return fmt.Errorf("failed to export to Google Sheets: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
		"Exported %s to Google Sheets", viewmodel.ResultCountLabel(len(matched)))))
	return err
}

// filteredPayments builds the session from the filter flags and applies it
// to the stored payments.
func filteredPayments(cmd *cobra.Command, a *app) (*session.Session, []model.Payment, error) {
	s, err := buildSession(cmd, a)
	if err != nil {
		return nil, nil, err
	}

	payments, err := a.loadPayments(cmd.Context(), s.State())
	if err != nil {
		return nil, nil, err
	}
	return s, s.Apply(payments), nil
}

// filterLabel joins the labels of the active controls, or returns "" when
// no filter is active.
func filterLabel(bar viewmodel.FilterBarView) string {
	var labels []string
	for _, c := range bar.Controls {
		if c.IsActive {
			labels = append(labels, c.Label)
		}
	}
	return strings.Join(labels, viewmodel.SummarySeparator)
}
