package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/biomax/biomax/internal/config"
	"github.com/biomax/biomax/internal/domain/assessment"
	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/internal/platform/auth"
	"github.com/biomax/biomax/internal/platform/db"
	"github.com/biomax/biomax/internal/platform/middleware"
	"github.com/biomax/biomax/internal/platform/telemetry"
	"github.com/biomax/biomax/pkg/optional"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "biomax",
		Short: "Clinical formula calculator and API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(formulasCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the formula API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	cmd.PersistentFlags().String("dir", "", "Migrations directory (default from MIGRATIONS_DIR)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator) error {
				count, err := m.Up(ctx)
				if err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", count)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(ctx context.Context, m *db.Migrator) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return fmt.Errorf("migration status: %w", err)
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tNAME\tSTATE\tAPPLIED AT")
				for _, s := range statuses {
					state, when := "pending", "-"
					if s.Applied {
						state = "applied"
						if s.AppliedAt != nil {
							when = s.AppliedAt.Format(time.DateTime)
						}
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Version, s.Name, state, when)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}

// withMigrator loads configuration, opens a short-lived pool and hands
// a migrator to fn.
func withMigrator(cmd *cobra.Command, fn func(context.Context, *db.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.MigrationsDir
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, db.Config{
		URL:      cfg.DatabaseURL,
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	return fn(ctx, db.NewMigrator(pool, dir))
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && lvl != zerolog.NoLevel {
		logger = logger.Level(lvl)
	}

	// Stores
	ctx := context.Background()
	var (
		pool           *pgxpool.Pool
		profileRepo    assessment.ProfileRepository
		assessmentRepo assessment.AssessmentRepository
	)
	if cfg.UseMemoryStore() {
		profileRepo = assessment.NewProfileRepoMemory()
		assessmentRepo = assessment.NewAssessmentRepoMemory()
		logger.Info().Msg("using in-memory store")
	} else {
		pool, err = db.NewPool(ctx, db.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()
		profileRepo = assessment.NewProfileRepoPG(pool)
		assessmentRepo = assessment.NewAssessmentRepoPG(pool)
		logger.Info().Msg("database pool ready")
	}

	// Telemetry
	telemetryCfg := telemetry.TelemetryConfig{
		ServiceName:     "biomax",
		ServiceVersion:  version,
		Environment:     cfg.Env,
		MetricsInterval: 15 * time.Second,
	}
	tp := telemetry.NewTelemetryProvider(telemetryCfg)
	defer tp.Shutdown(context.Background())

	// Domain
	evaluator := formula.NewEvaluator(formula.NewDefault())
	svc := assessment.NewService(profileRepo, assessmentRepo, evaluator)
	handler := assessment.NewHandler(svc, tp)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Process-wide middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(tp.TracingMiddleware())
	e.Use(tp.MetricsMiddleware())

	// Auth middleware. Health and metrics endpoints stay public.
	if cfg.ResolvedAuthMode() == "dev" {
		e.Use(auth.DevAuthMiddleware(auth.AuthSkipper))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.JWTIssuer,
			Audience:   cfg.JWTAudience,
			JWKSURL:    cfg.JWTJWKSURL,
			SigningKey: []byte(cfg.JWTSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(middleware.BodyLimit("1M"))
	apiV1.Use(middleware.RequestTimeout(30 * time.Second))
	apiV1.Use(middleware.SecurityHeaders())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	if pool != nil {
		e.GET("/health/db", db.HealthHandler(pool))
	}
	e.GET("/metrics", tp.PrometheusHandler())

	handler.RegisterRoutes(apiV1)

	// Periodic health gauges for /metrics.
	samplerCtx, stopSampler := context.WithCancel(ctx)
	defer stopSampler()
	go sampleHealthMetrics(samplerCtx, tp, pool, profileRepo, telemetryCfg.MetricsInterval)

	// Serve until signalled, then drain.
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("http server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server exited")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("graceful shutdown failed")
	}
	logger.Info().Msg("stopped")
	return nil
}

// sampleHealthMetrics refreshes the pool and profile gauges exposed on
// /metrics until ctx is cancelled.
func sampleHealthMetrics(ctx context.Context, tp *telemetry.TelemetryProvider, pool *pgxpool.Pool, profiles assessment.ProfileRepository, interval time.Duration) {
	hm := tp.HealthMetrics()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pool != nil {
				stat := pool.Stat()
				hm.SetDBPoolActive(int64(stat.AcquiredConns()))
				hm.SetDBPoolIdle(int64(stat.IdleConns()))
			}
			if _, total, err := profiles.List(ctx, 1, 0); err == nil {
				hm.SetProfilesTotal(int64(total))
			}
		}
	}
}

// activityLevels are the named activity factors the legacy calculators
// accepted alongside a bare number.
var activityLevels = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

func parseActivityFactor(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	if f, ok := activityLevels[strings.ToLower(s)]; ok {
		return f, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid activity factor %q: use a number or one of sedentary, light, moderate, active, very_active", s)
	}
	return f, nil
}

func recordFromFlags(cmd *cobra.Command) (*formula.Record, error) {
	rec := &formula.Record{}

	rec.Weight, _ = cmd.Flags().GetFloat64("weight")
	rec.Height, _ = cmd.Flags().GetFloat64("height")
	rec.Age, _ = cmd.Flags().GetFloat64("age")

	sexStr, _ := cmd.Flags().GetString("sex")
	sex, err := formula.ParseSex(sexStr)
	if err != nil {
		return nil, err
	}
	rec.Sex = sex

	afStr, _ := cmd.Flags().GetString("activity-factor")
	rec.ActivityFactor, err = parseActivityFactor(afStr)
	if err != nil {
		return nil, err
	}

	// Presence is decided by whether the flag was set, so 0 stays a usable
	// value for fields like ethanol.
	opts := []struct {
		name   string
		target *optional.Scalar
	}{
		{"waist", &rec.Waist},
		{"hip", &rec.Hip},
		{"heart-rate", &rec.HeartRate},
		{"systolic", &rec.Systolic},
		{"diastolic", &rec.Diastolic},
		{"cardiac-output", &rec.CardiacOutput},
		{"cvp", &rec.CVP},
		{"vo2", &rec.VO2},
		{"mean-airway-pressure", &rec.MeanAirwayPressure},
		{"fio2", &rec.FiO2},
		{"hemoglobin", &rec.Hemoglobin},
		{"spo2", &rec.SpO2},
		{"pao2", &rec.PaO2},
		{"svo2", &rec.SvO2},
		{"paco2", &rec.PaCO2},
		{"creatinine", &rec.Creatinine},
		{"glucose", &rec.Glucose},
		{"insulin", &rec.Insulin},
		{"triglycerides", &rec.Triglycerides},
		{"total-cholesterol", &rec.TotalCholesterol},
		{"hdl", &rec.HDL},
		{"albumin", &rec.Albumin},
		{"bun", &rec.BUN},
		{"ethanol", &rec.Ethanol},
		{"sodium", &rec.Sodium},
		{"potassium", &rec.Potassium},
		{"chloride", &rec.Chloride},
		{"bicarbonate", &rec.Bicarbonate},
		{"measured-osmolality", &rec.MeasuredOsmolality},
	}
	for _, o := range opts {
		if cmd.Flags().Changed(o.name) {
			v, err := cmd.Flags().GetFloat64(o.name)
			if err != nil {
				return nil, err
			}
			*o.target = optional.Of(v)
		}
	}

	return rec, nil
}

// runCalc evaluates one record through the same validation path the HTTP
// API uses, against throwaway in-memory stores.
func runCalc(rec *formula.Record, category string, jsonOut bool, out io.Writer) error {
	svc := assessment.NewService(
		assessment.NewProfileRepoMemory(),
		assessment.NewAssessmentRepoMemory(),
		formula.NewEvaluator(formula.NewDefault()),
	)

	resp, err := svc.Evaluate(context.Background(), &assessment.EvaluationRequest{
		Record:   *rec,
		Category: category,
	})
	if err != nil {
		return err
	}

	if jsonOut {
		b, err := json.MarshalIndent(resp.Results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}

	fmt.Fprintln(out, "--- Results ---")
	for _, r := range resp.Results {
		fmt.Fprintf(out, "%s: %s\n", r.Name, formula.FormatValue(r.Value))
	}
	return nil
}

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Evaluate formulas for one set of inputs",
		Long: `Evaluate the formula catalog (or one category) against inputs given as
flags. Runs entirely in memory: no database, no server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := recordFromFlags(cmd)
			if err != nil {
				return err
			}
			category, _ := cmd.Flags().GetString("category")
			jsonOut, _ := cmd.Flags().GetBool("json")
			return runCalc(rec, category, jsonOut, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64("weight", 0, "Body weight in kg (required)")
	cmd.Flags().Float64("height", 0, "Height in meters (required)")
	cmd.Flags().Float64("age", 0, "Age in years (required)")
	cmd.Flags().String("sex", "", "Sex: male or female (required)")
	cmd.MarkFlagRequired("weight")
	cmd.MarkFlagRequired("height")
	cmd.MarkFlagRequired("age")
	cmd.MarkFlagRequired("sex")

	cmd.Flags().String("category", formula.SelectorAll, "Category to evaluate, or \"all\"")
	cmd.Flags().String("activity-factor", "", "TDEE activity factor: a number or sedentary|light|moderate|active|very_active")
	cmd.Flags().Bool("json", false, "Emit results as JSON")

	cmd.Flags().Float64("waist", 0, "Waist circumference in cm")
	cmd.Flags().Float64("hip", 0, "Hip circumference in cm")
	cmd.Flags().Float64("heart-rate", 0, "Heart rate in bpm")
	cmd.Flags().Float64("systolic", 0, "Systolic blood pressure in mmHg")
	cmd.Flags().Float64("diastolic", 0, "Diastolic blood pressure in mmHg")
	cmd.Flags().Float64("cardiac-output", 0, "Cardiac output in L/min")
	cmd.Flags().Float64("cvp", 0, "Central venous pressure in mmHg")
	cmd.Flags().Float64("vo2", 0, "Oxygen consumption in mL/min")
	cmd.Flags().Float64("mean-airway-pressure", 0, "Mean airway pressure in cm H2O")
	cmd.Flags().Float64("fio2", 0, "Inspired oxygen fraction (0-1)")
	cmd.Flags().Float64("hemoglobin", 0, "Hemoglobin in g/dL")
	cmd.Flags().Float64("spo2", 0, "Oxygen saturation in %")
	cmd.Flags().Float64("pao2", 0, "Arterial oxygen partial pressure in mmHg")
	cmd.Flags().Float64("svo2", 0, "Mixed venous oxygen saturation in %")
	cmd.Flags().Float64("paco2", 0, "Arterial CO2 partial pressure in mmHg")
	cmd.Flags().Float64("creatinine", 0, "Serum creatinine in mg/dL")
	cmd.Flags().Float64("glucose", 0, "Fasting glucose in mg/dL")
	cmd.Flags().Float64("insulin", 0, "Fasting insulin in µU/mL")
	cmd.Flags().Float64("triglycerides", 0, "Triglycerides in mg/dL")
	cmd.Flags().Float64("total-cholesterol", 0, "Total cholesterol in mg/dL")
	cmd.Flags().Float64("hdl", 0, "HDL cholesterol in mg/dL")
	cmd.Flags().Float64("albumin", 0, "Serum albumin in g/dL")
	cmd.Flags().Float64("bun", 0, "Blood urea nitrogen in mg/dL")
	cmd.Flags().Float64("ethanol", 0, "Serum ethanol in mg/dL")
	cmd.Flags().Float64("sodium", 0, "Serum sodium in mmol/L")
	cmd.Flags().Float64("potassium", 0, "Serum potassium in mmol/L")
	cmd.Flags().Float64("chloride", 0, "Serum chloride in mmol/L")
	cmd.Flags().Float64("bicarbonate", 0, "Serum bicarbonate in mmol/L")
	cmd.Flags().Float64("measured-osmolality", 0, "Measured serum osmolality in mOsm/kg")

	return cmd
}

func printCatalog(out io.Writer) {
	reg := formula.NewDefault()
	for _, cat := range formula.Categories {
		fmt.Fprintf(out, "%s - %s\n", cat, cat.Description())
		for _, f := range reg.Category(cat) {
			unit := f.Unit
			if unit == "" {
				unit = "-"
			}
			fmt.Fprintf(out, "  %-22s %-34s %-10s %s\n", f.Key, f.Name, unit, strings.Join(f.Inputs, ", "))
		}
		fmt.Fprintln(out)
	}
}

func formulasCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formulas",
		Short: "List the formula catalog grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			printCatalog(cmd.OutOrStdout())
			return nil
		},
	}
}
