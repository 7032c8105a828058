package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/intelliplan-admin/internal/platform/config"
	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
)

var (
	envFile string
	logMode string

	cfg config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "intelliplan-admin",
	Short: "IntelliPlan admin dashboard backend",
	Long: `Serves the IntelliPlan admin dashboard API and runs one-shot
maintenance commands against the same database.

Configuration is read from the environment, optionally seeded from a
.env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		mode := cfg.LogMode
		if logMode != "" {
			mode = logMode
		}
		log, err = logger.New(mode)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", "", "override LOG_MODE (development, production, test)")

	rootCmd.AddCommand(serveCmd, snapshotCmd, exportCmd, grantAdminCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
