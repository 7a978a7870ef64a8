package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/giygas/interactions-checker/client"
	"github.com/giygas/interactions-checker/config"
	"github.com/giygas/interactions-checker/data"
	"github.com/giygas/interactions-checker/health"
	"github.com/giygas/interactions-checker/logging"
	"github.com/giygas/interactions-checker/scheduler"
	"github.com/giygas/interactions-checker/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "interactions",
		Short:         "Check a prescribed drug against a condition and current medications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadDotEnv()
		},
	}
	rootCommand.PersistentFlags().String("api-url", "", "base URL of the interaction service (overrides INTERACTIONS_API_URL)")

	rootCommand.AddCommand(
		newServeCommand(),
		newCheckCommand(),
		newLookupCommand(),
		newTranslateCommand(),
	)
	return rootCommand
}

func newServeCommand() *cobra.Command {
	var logDir string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Run the web front end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logging.InitLoggerWithConfig(logging.Options{
				Dir:            logDir,
				Env:            cfg.Env,
				Level:          cfg.LogLevel,
				RetentionWeeks: cfg.LogRetentionWeeks,
				MaxFileSize:    cfg.MaxLogFileSize,
			})
			defer logging.Close()

			logging.Info("Configuration loaded",
				"env", cfg.Env,
				"service_url", cfg.ServiceURL,
				"probe_interval_minutes", cfg.ProbeIntervalMinutes,
				"env_overrides", envOverrides(),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
	command.Flags().StringVar(&logDir, "log-dir", "logs", "directory for rotated log files, empty to log to the console only")
	return command
}

// serve runs the server until ctx is cancelled or the listener fails
func serve(ctx context.Context, cfg *config.Config) error {
	service := client.NewClient(cfg.ServiceURL, cfg.ProbeTerm)
	defer func() {
		if err := service.Close(); err != nil {
			logging.Warn("Failed to close interaction client", "error", err)
		}
	}()

	store := data.NewStatusContainer()
	store.SetServerStartTime(time.Now())

	probes := scheduler.NewScheduler(store, service, cfg.ProbeIntervalMinutes)
	if err := probes.Start(); err != nil {
		return fmt.Errorf("start probe scheduler: %w", err)
	}
	defer probes.Stop()

	interval := time.Duration(cfg.ProbeIntervalMinutes) * time.Minute
	srv := server.NewServer(cfg, service, health.NewHealthChecker(store, interval))

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logging.Error("Server failed", "error", err)
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// envOverrides lists the expected variables that are set in the environment
func envOverrides() []string {
	var set []string
	for _, key := range config.GetEnvVars() {
		if _, ok := os.LookupEnv(key); ok {
			set = append(set, key)
		}
	}
	return set
}

// loadConfig reads the environment and applies the --api-url override
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if apiURL, _ := cmd.Flags().GetString("api-url"); apiURL != "" {
		cfg.ServiceURL = strings.TrimRight(apiURL, "/")
	}
	return cfg, nil
}
