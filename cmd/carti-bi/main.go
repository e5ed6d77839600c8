package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayavvari/carti-bi-project/internal/config"
	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
	"github.com/ayavvari/carti-bi-project/internal/export"
	"github.com/ayavvari/carti-bi-project/internal/generator"
	"github.com/ayavvari/carti-bi-project/internal/pipeline"
	"github.com/ayavvari/carti-bi-project/internal/platform/db"
	"github.com/ayavvari/carti-bi-project/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "carti-bi",
		Short: "Healthcare BI pipeline: synthetic extracts, provider analytics, summary API",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic patient-flow, CRM and inventory extracts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ds, err := generator.New(generator.Config{
				Seed:         cfg.Seed,
				NumPatients:  cfg.NumPatients,
				NumProviders: cfg.NumProviders,
			}).Generate()
			if err != nil {
				return fmt.Errorf("generate datasets: %w", err)
			}

			if err := export.WritePatientFlowCSV(filepath.Join(cfg.DataDir, pipeline.PatientFlowFile), ds.PatientFlow); err != nil {
				return err
			}
			if err := export.WriteCRMCSV(filepath.Join(cfg.DataDir, pipeline.CRMFile), ds.CRM); err != nil {
				return err
			}
			if err := export.WriteInventoryCSV(filepath.Join(cfg.DataDir, pipeline.InventoryFile), ds.Inventory); err != nil {
				return err
			}

			logger.Info().
				Str("dir", cfg.DataDir).
				Int64("seed", cfg.Seed).
				Int("patients", len(ds.PatientFlow)).
				Int("providers", len(ds.CRM)).
				Int("claims", len(ds.Inventory)).
				Msg("extracts generated")
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the analysis pipeline over the extracts and write all artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			allowDegenerate, _ := cmd.Flags().GetBool("allow-degenerate")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := &pipeline.Pipeline{
				Log:             logger,
				DataDir:         cfg.DataDir,
				OutDir:          cfg.OutDir,
				Features:        cfg.ModelFeatures,
				FeaturesVersion: cfg.ModelFeaturesVersion,
				AllowDegenerate: allowDegenerate,
			}
			res, err := p.Run(ctx)
			if err != nil {
				return err
			}

			logger.Info().
				Str("run_id", res.RunID).
				Int("providers", len(res.Summaries)).
				Str("out_dir", cfg.OutDir).
				Msg("pipeline finished")
			return nil
		},
	}
	cmd.Flags().Bool("allow-degenerate", false, "export null predictions instead of failing when the regression is underdetermined")
	return cmd
}

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load the exported provider summary into the Postgres warehouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for load")
			}
			logger := newLogger(cfg)

			rows, err := readSummary(filepath.Join(cfg.OutDir, pipeline.SummaryFile))
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			repo := summary.NewPGRepo(pool)
			if err := repo.CreateSchema(ctx); err != nil {
				return err
			}
			if err := repo.ReplaceAll(ctx, rows); err != nil {
				return err
			}

			logger.Info().Int("rows", len(rows)).Msg("summary loaded into warehouse")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the provider summary over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	summaryPath := filepath.Join(cfg.OutDir, pipeline.SummaryFile)
	loader := summary.LoaderFunc(func(ctx context.Context) ([]*summary.ProviderSummary, error) {
		return readSummary(summaryPath)
	})

	ctx := context.Background()
	var repo summary.Repository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		repo = summary.NewPGRepo(pool)
		logger.Info().Msg("serving summaries from Postgres")
	} else {
		rows, err := readSummary(summaryPath)
		if err != nil {
			logger.Warn().Err(err).Msg("summary not loaded, starting empty; POST /refresh after a pipeline run")
			rows = nil
		}
		repo = summary.NewMemoryRepo(rows)
		logger.Info().Int("rows", len(rows)).Str("source", summaryPath).Msg("serving summaries from memory")
	}

	svc := summary.NewService(repo, loader)
	handler := summary.NewHandler(svc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	handler.RegisterRoutes(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func readSummary(path string) ([]*summary.ProviderSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open summary: %w", err)
	}
	defer f.Close()

	rows, err := summary.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}
