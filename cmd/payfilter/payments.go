package main

import (
	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/spf13/cobra"
)

func paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Browse imported payments",
	}
	cmd.AddCommand(paymentsListCmd())
	return cmd
}

func paymentsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments matching a filter",
		Long: `List stored payments that match every active filter dimension.

Examples:
  # Succeeded or refunded card payments of at least $10
  payfilter payments list --status succeeded --status refunded --method card --min 10

  # Last 30 days, starting from a saved filter
  payfilter payments list --saved 3f1c... --last 30`,
		Args: cobra.NoArgs,
		RunE: runPaymentsList,
	}
	addFilterFlags(cmd)
	return cmd
}

func runPaymentsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	s, err := buildSession(cmd, a)
	if err != nil {
		return err
	}

	payments, err := a.loadPayments(ctx, s.State())
	if err != nil {
		return err
	}

	return cli.WritePaymentTable(cmd.OutOrStdout(), s.FilterBar(), s.Table(payments))
}
