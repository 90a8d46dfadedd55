package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/internal/adapters/export"
	"github.com/taskmaster/planner/internal/application/services"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/jobs"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/infrastructure/metrics"
	"github.com/taskmaster/planner/internal/infrastructure/server"
	"github.com/taskmaster/planner/internal/infrastructure/storage"
	"github.com/taskmaster/planner/internal/ports"
)

// Set at build time with -ldflags "-X .../commands.Version=...".
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "development"
)

// app is the wiring shared by every command.
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
	store     *storage.Storage
	schedules *services.ScheduleService
	templates *services.TemplateService
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New()
	return &app{
		cfg:       cfg,
		logger:    appLogger,
		metrics:   m,
		store:     store,
		schedules: services.NewScheduleService(store.Schedules, store.Templates, appLogger, m),
		templates: services.NewTemplateService(store.Templates, appLogger, m),
	}, nil
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Planner API server",
		Long:  "Start the Planner API server with all configured routes, middleware and the optional backup schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Close()
			return runServer(cmd.Context(), a)
		},
	}
}

func runServer(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var scheduler *jobs.BackupScheduler
	if a.cfg.Storage.BackupCron != "" {
		var err error
		scheduler, err = jobs.NewBackupScheduler(a.cfg.Storage.BackupCron, a.schedules.Backup, a.logger)
		if err != nil {
			return err
		}
		scheduler.Start()
	}

	srv := server.New(a.cfg, a.store, a.schedules, a.templates, a.metrics, a.logger)

	a.logger.Infow("Starting Planner API server",
		"address", a.cfg.Server.Address(),
		"environment", a.cfg.App.Environment,
		"data_dir", a.cfg.Storage.DataDir,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(a.cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if scheduler != nil {
		if err := scheduler.Stop(shutdownCtx); err != nil {
			a.logger.Warnw("Backup scheduler did not stop cleanly", "error", err)
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.logger.Infow("Server stopped")
	return nil
}

// NewBackupCommand creates the backup command
func NewBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Copy the data files next to the originals",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			paths, err := a.schedules.Backup(cmd.Context(), "manual")
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to back up")
				return nil
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Backup written: %s\n", p)
			}
			return nil
		},
	}
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every schedule as json, csv, yaml or ics",
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			snap, err := snapshot(cmd.Context(), a.schedules)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.Write(w, format, snap); err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d schedules to %s\n", len(snap.Schedules), output)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "json", "Export format (json, csv, yaml, ics)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	return cmd
}

func snapshot(ctx context.Context, schedules ports.ScheduleService) (export.Snapshot, error) {
	stats, err := schedules.DataStats(ctx)
	if err != nil {
		return export.Snapshot{}, err
	}
	return export.Snapshot{
		Schedules:  schedules.ListSchedules(ctx, ports.ScheduleQuery{}),
		Stats:      stats,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print data file statistics and the analytics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.logger.Close()

			stats, err := a.schedules.DataStats(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"data":    stats,
				"summary": a.schedules.Analytics(cmd.Context()).Summary,
			})
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Planner version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Planner %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
		},
	}
}

// NewRootCommand assembles the planner command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "planner",
		Short:         "Planner API Server",
		Long:          `Planner is a personal schedule manager with recurring events, reusable templates and completion analytics, stored as JSON files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewBackupCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewVersionCommand())
	return rootCmd
}
