package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/carewatch/internal/api"
	"github.com/terraincognita07/carewatch/internal/app"
	"github.com/terraincognita07/carewatch/internal/cli"
	"github.com/terraincognita07/carewatch/internal/config"
	"github.com/terraincognita07/carewatch/internal/db"
	"github.com/terraincognita07/carewatch/internal/logging"
	"github.com/terraincognita07/carewatch/internal/metrics"
	"github.com/terraincognita07/carewatch/internal/security"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "carewatch",
		Short:         "Elder-care monitoring dashboard and CSV importer",
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(devicesCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Seed baseline data and import the configured CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(func(env *environment) error {
				return cli.RunImportCommand(env.services.Orchestrator, cmd.OutOrStdout())
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sample patient, caregiver and demo devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(func(env *environment) error {
				return cli.RunSeedCommand(env.services.Seed, cmd.OutOrStdout())
			})
		},
	}
}

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Inspect and maintain monitored devices",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List device IDs that have health data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(func(env *environment) error {
				return cli.RunDevicesListCommand(env.services.Devices, cmd.OutOrStdout())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Print record totals and a first reading per device",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(func(env *environment) error {
				return cli.RunDevicesCheckCommand(env.services.Devices, cmd.OutOrStdout())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add-demo",
		Short: "Create the D2000 and D3000 demo devices where missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(func(env *environment) error {
				return cli.RunDevicesAddDemoCommand(env.services.Seed, env.services.Devices, cmd.OutOrStdout())
			})
		},
	})
	return cmd
}

type environment struct {
	cfg      *config.Config
	logger   zerolog.Logger
	location *time.Location
	database *gorm.DB
	metrics  *metrics.Metrics
	services *app.Services
}

func openEnvironment() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	location, err := cfg.Location()
	if err != nil {
		logger.Warn().Err(err).Str("tz", cfg.Timezone).Msg("invalid TZ, falling back to UTC")
	}
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	collector := metrics.New()
	return &environment{
		cfg:      cfg,
		logger:   logger,
		location: location,
		database: database,
		metrics:  collector,
		services: app.NewServices(database, logger, app.OptionsFromConfig(cfg, location, collector)),
	}, nil
}

func withEnvironment(run func(*environment) error) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(env.database); err != nil {
			env.logger.Warn().Err(err).Msg("close database")
		}
	}()
	return run(env)
}

func runServer() error {
	return withEnvironment(func(env *environment) error {
		secret, generated, err := security.ResolveSecret(env.cfg.SessionSecret)
		if err != nil {
			return fmt.Errorf("resolve session secret: %w", err)
		}
		if generated {
			env.logger.Warn().Msg("SESSION_SECRET is empty, using a random secret for this process")
		}

		if err := env.services.Seed.EnsureBaseline(); err != nil {
			env.logger.Error().Err(err).Msg("seed baseline data")
		}

		handler, err := api.NewHandler(api.Dependencies{
			Monitoring:    env.services.Monitoring,
			Agents:        env.services.Agents,
			Reminders:     env.services.Reminders,
			Importer:      env.services.Importer,
			Orchestrator:  env.services.Orchestrator,
			Metrics:       env.metrics,
			Logger:        env.logger,
			Location:      env.location,
			SessionSecret: secret,
			ImportWindow:  env.cfg.ImportRateLimit(),
		})
		if err != nil {
			return fmt.Errorf("handler init failed: %w", err)
		}

		server := newFiberApp(handler)

		sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stopSignals()

		go func() {
			<-sigCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.ShutdownWithContext(shutdownCtx); err != nil {
				env.logger.Error().Err(err).Msg("server shutdown failed")
			}
		}()

		env.logger.Info().
			Str("port", env.cfg.Port).
			Str("db", env.cfg.DBPath).
			Str("tz", env.location.String()).
			Msgf("CareWatch listening on http://0.0.0.0:%s", env.cfg.Port)
		if err := server.Listen(":" + env.cfg.Port); err != nil {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	})
}

func newFiberApp(handler *api.Handler) *fiber.App {
	server := fiber.New(fiber.Config{
		AppName:               "CareWatch",
		DisableStartupMessage: true,
	})

	server.Use(recover.New())
	server.Use(fiberlogger.New())
	server.Use(compress.New())

	api.RegisterRoutes(server, handler)
	server.Use(handler.NotFound)
	return server
}
