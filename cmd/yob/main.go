package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-yob/internal/bootstrap"

	"github.com/spf13/cobra"
)

var (
	configPath string
	envFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "yob",
	Short:         "Discord bot that mirrors edited and deleted messages into a log channel",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "config.json", "path to the JSON config file (optional)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to a .env file with DISCORD_TOKEN (optional)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

func run(ctx context.Context) error {
	b := bootstrap.New(bootstrap.Options{
		ConfigPath: configPath,
		EnvFile:    envFile,
		LogLevel:   logLevel,
	})

	if err := b.Initialize(); err != nil {
		return err
	}

	if err := b.Start(context.WithoutCancel(ctx)); err != nil {
		_ = b.Shutdown()
		return err
	}

	waitForShutdown(ctx)
	return b.Shutdown()
}

func waitForShutdown(ctx context.Context) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		fmt.Fprintln(os.Stderr, "\nShutdown signal received")
	case <-ctx.Done():
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "yob:", err)
		os.Exit(1)
	}
}
