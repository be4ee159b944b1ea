package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"daily-check/internal/app"
	"daily-check/internal/config"
	"daily-check/internal/database"
	"daily-check/internal/services"
)

var (
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
	period  string
	asJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "daily-check",
	Short: "Record how a day was split between activities",
	Long: `daily-check keeps one record per day: up to three activities and the share
of the day each took, always adding up to 100%. Days are filled in through a
Telegram bot; the summary command reports where the time went.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		zapCfg := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)

		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the reminder schedule",
	RunE:  runServe,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the activity summary for a period",
	RunE:  runSummary,
}

var showCmd = &cobra.Command{
	Use:   "show [YYYY-MM-DD]",
	Short: "Print the record of one day",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [YYYY-MM-DD]",
	Short: "Remove the record of one day",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	summaryCmd.Flags().StringVarP(&period, "period", "p", "all", "all, week, month, 6months or year")
	summaryCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	showCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	rootCmd.AddCommand(serveCmd, summaryCmd, showCmd, deleteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	application, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	if err := application.Start(); err != nil {
		return err
	}
	defer application.Stop()

	waitForShutdown()
	logger.Info("👋 shutting down")
	return nil
}

func openServices() (*services.ServiceManager, func() error, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.New(cfg.Database.Path, logger)
	if err != nil {
		return nil, nil, err
	}
	return services.NewServiceManager(db, loc, logger), db.Close, nil
}

func runSummary(cmd *cobra.Command, args []string) error {
	p, err := services.ParsePeriod(period)
	if err != nil {
		return err
	}

	sm, closeDB, err := openServices()
	if err != nil {
		return err
	}
	defer closeDB()

	summary, err := sm.Analytics.Summary(p)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	fmt.Fprintf(out, "%s: %d days recorded\n", p.Label, summary.Records)
	for _, share := range summary.Shares {
		fmt.Fprintf(out, "%-14s %s %5.1f%%  (%d%%)\n",
			share.Activity, services.ProgressBar(share.Percentage, 20), share.Percentage, share.TimeSpent)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	sm, closeDB, err := openServices()
	if err != nil {
		return err
	}
	defer closeDB()

	rec, err := sm.Repository().GetRecord(args[0])
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("no activities recorded for %s", args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintln(out, rec.Date)
	for i, name := range rec.Activities {
		fmt.Fprintf(out, "  %d. %-14s %3d%%\n", i+1, name, rec.Proportions[i])
	}
	if rec.Note != "" {
		fmt.Fprintf(out, "  note: %s\n", rec.Note)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	sm, closeDB, err := openServices()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := sm.Repository().DeleteRecord(args[0]); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("no activities recorded for %s", args[0])
		}
		return err
	}

	logger.Info("🗑 record deleted", zap.String("date", args[0]))
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
}
