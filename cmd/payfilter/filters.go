package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/savedfilter"
	"github.com/Veraticus/payfilter/internal/viewmodel"
	"github.com/spf13/cobra"
)

func filtersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage saved filters",
		Long: `Save the current filter under a name and reuse it later with --saved.

Saved filters are stored in the backend chosen by filters.backend:
sqlite (default), redis, or memory (lost when the command exits).`,
	}

	cmd.AddCommand(filtersSaveCmd())
	cmd.AddCommand(filtersListCmd())
	cmd.AddCommand(filtersShowCmd())
	cmd.AddCommand(filtersDeleteCmd())

	return cmd
}

func filtersSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save NAME",
		Short: "Save the filter built from the flags",
		Args:  cobra.ExactArgs(1),
		RunE:  runFiltersSave,
	}
	addFilterFlags(cmd)
	return cmd
}

func runFiltersSave(cmd *cobra.Command, args []string) error {
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

	saved, err := s.Save(ctx, args[0])
	if err != nil {
		return saveError(err)
	}

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Saved filter %q", saved.Name))); err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "  ID:      %s\n  Filters: %s\n", saved.ID, viewmodel.SavedFilterSummary(saved.Filters))
	return err
}

// saveError turns a rejected save into a message for the user.
func saveError(err error) error {
	switch {
	case errors.Is(err, savedfilter.ErrEmptyName):
		return common.NewUserError("a saved filter needs a name", err)
	case errors.Is(err, savedfilter.ErrNameTooLong):
		return common.NewUserError(savedfilter.ErrNameTooLong.Error(), err)
	case errors.Is(err, savedfilter.ErrNoActiveFilter):
		return common.NewUserError("nothing to save: set at least one filter flag", err)
	default:
		return fmt.Errorf("failed to save filter: %w", err)
	}
}

func filtersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved filters, oldest first",
		Args:  cobra.NoArgs,
		RunE:  runFiltersList,
	}
}

func runFiltersList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	items, err := a.newSession().SavedFilters(ctx)
	if err != nil {
		return fmt.Errorf("failed to list saved filters: %w", err)
	}
	return cli.WriteSavedFilters(cmd.OutOrStdout(), items)
}

func filtersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one saved filter",
		Args:  cobra.ExactArgs(1),
		RunE:  runFiltersShow,
	}
}

func runFiltersShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	saved, err := a.filters.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(fmt.Sprintf("no saved filter with ID %q", args[0]), err)
		}
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n  ID:      %s\n  Created: %s\n\n%s\n",
		cli.FormatTitle(viewmodel.SanitizeForDisplay(saved.Name)),
		saved.ID,
		viewmodel.FormatDate(saved.CreatedAt.In(a.location)),
		cli.RenderFilterBar(viewmodel.NewFilterBar(saved.Filters)))
	return err
}

func filtersDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a saved filter",
		Args:  cobra.ExactArgs(1),
		RunE:  runFiltersDelete,
	}
	cmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func runFiltersDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]
	yes, _ := cmd.Flags().GetBool("yes")
	out := cmd.OutOrStdout()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	saved, err := a.filters.Get(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		_, err = fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("No saved filter with ID %q", id)))
		return err
	}
	if err != nil {
		return err
	}

	if !yes {
		prompter := cli.NewPrompter(cmd.InOrStdin(), out)
		ok, err := prompter.Confirm(ctx, fmt.Sprintf("Delete saved filter %q?", saved.Name))
		if err != nil {
			return err
		}
		if !ok {
			_, err = fmt.Fprintln(out, cli.FormatInfo("Nothing deleted"))
			return err
		}
	}

	if err := a.filters.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}
	_, err = fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted saved filter %q", saved.Name)))
	return err
}
