package main

import (
	"fmt"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/filter"
	"github.com/Veraticus/payfilter/internal/model"
	"github.com/spf13/cobra"
)

func optionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the values accepted by --status and --method",
	}
	cmd.AddCommand(optionsListCmd("status", "Status values", model.StatusOptions))
	cmd.AddCommand(optionsListCmd("method", "Payment methods", model.PaymentMethodOptions))
	return cmd
}

func optionsListCmd(name, title string, vocabulary []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: "List " + title,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			term, _ := cmd.Flags().GetString("search")
			return writeOptions(cmd, title, filter.SearchOptions(vocabulary, term))
		},
	}
	cmd.Flags().StringP("search", "s", "", "only show options containing this text")
	return cmd
}

func writeOptions(cmd *cobra.Command, title string, options []string) error {
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatTitle(title)); err != nil {
		return err
	}
	if len(options) == 0 {
		_, err := fmt.Fprintln(out, cli.SubtleStyle.Render("No matching options."))
		return err
	}
	for _, o := range options {
		if _, err := fmt.Fprintf(out, "  %s\n", o); err != nil {
			return err
		}
	}
	return nil
}
