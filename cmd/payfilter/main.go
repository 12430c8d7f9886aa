package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/Veraticus/payfilter/internal/cli"
	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "payfilter",
		Short: "Filter, save and export payment records",
		Long: `payfilter narrows a payment ledger by date, amount, status and payment
method, saves the filters you use often, and exports the results.

Payments are imported from OFX/QFX files or Plaid into a local SQLite
database. Saved filters live in the same database, in Redis, or in memory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(cfgFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/payfilter/config.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")
	flags.String("db", "", "SQLite database path (default: "+config.DefaultDatabasePath+")")
	flags.String("filters-backend", "", "saved filter storage (sqlite, redis, memory)")
	flags.String("timezone", "", "time zone for dates, e.g. America/New_York (default: system zone)")

	_ = viper.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("database.path", flags.Lookup("db"))
	_ = viper.BindPFlag("filters.backend", flags.Lookup("filters-backend"))
	_ = viper.BindPFlag("display.timezone", flags.Lookup("timezone"))

	rootCmd.AddCommand(authCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(filtersCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(optionsCmd())
	rootCmd.AddCommand(paymentsCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		if msg, ok := common.UserMessage(err); ok {
			fmt.Fprintln(os.Stderr, cli.FormatError(msg))
		} else {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

func initConfig(cfgFile string) error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(filepath.Join(home, ".config", "payfilter"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// PAYFILTER_DATABASE_PATH, PAYFILTER_REDIS_ADDR, ...
	viper.SetEnvPrefix("PAYFILTER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	level, err := common.ParseLevel(viper.GetString("logging.level"))
	if err != nil {
		return err
	}
	return common.SetupLogger(level, viper.GetString("logging.format"))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "payfilter %s\n", version)
			return err
		},
	}
}
