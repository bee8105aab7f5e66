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

	"chickstage-backend-go/internal/config"
	"chickstage-backend-go/internal/content"
	"chickstage-backend-go/internal/db"
	httpapi "chickstage-backend-go/internal/http"
	"chickstage-backend-go/internal/logging"
	"chickstage-backend-go/internal/migrations"
	"chickstage-backend-go/internal/records"
	"chickstage-backend-go/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var (
	logLevel    string
	seedOnStart bool
)

var rootCmd = &cobra.Command{
	Use:           "chickstage",
	Short:         "ChickStage360 site and admin dashboard",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply migrations and serve the site, admin and API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations and exit",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill empty collections with the demo catalogue",
	Long: `Inserts the demo interviews, courses, marketplace items, livestreams and
lifecycle batches into every collection that has no rows yet. Rows are owned by
the ADMIN_EMAIL account, which is created when missing.`,
	RunE: runSeed,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&seedOnStart, "seed", false, "seed empty collections before serving")
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "seed empty collections before serving")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every command needs: configuration, the logger and a migrated
// database.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	db       *sqlx.DB
	store    records.Store
	catalog  *content.Catalog
	closeLog func()
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if logLevel != "" {
		cfg.LogLevel = strings.ToLower(logLevel)
	}
	logger, closeLog, err := logging.Setup(logging.Options{
		Dir:           cfg.LogDir,
		RetentionDays: cfg.LogRetentionDays,
		Level:         cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	catalog, err := content.Default()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("catalog: %w", err)
	}

	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("db: %w", err)
	}
	applied, err := migrations.Apply(ctx, database, os.DirFS(cfg.MigrationsDir), logger)
	if err != nil {
		_ = database.Close()
		closeLog()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	logger.Info("migrations checked", zap.Int("applied", len(applied)), zap.String("dir", cfg.MigrationsDir))

	return &app{
		cfg:      cfg,
		log:      logger,
		db:       database,
		store:    records.NewSQLStore(database),
		catalog:  catalog,
		closeLog: closeLog,
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
	a.closeLog()
}

func (a *app) accounts() *services.Accounts {
	return services.NewAccounts(a.db, a.store, httpapi.NewTokenService(a.cfg), a.log)
}

// seed makes sure the admin account exists and fills empty collections with
// rows owned by it.
func (a *app) seed(ctx context.Context) error {
	if a.cfg.AdminEmail == "" {
		return errors.New("seed: ADMIN_EMAIL is required to own the demo rows")
	}
	accounts := a.accounts()
	if err := accounts.EnsureAdmin(ctx, a.cfg.AdminEmail, a.cfg.AdminPassword); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	owner, err := accounts.FindUserByEmail(ctx, a.cfg.AdminEmail)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	inserted, err := services.Seed(ctx, a.store, a.catalog, owner.ID, a.log)
	if err != nil {
		return err
	}
	total := 0
	for _, n := range inserted {
		total += n
	}
	a.log.Info("seed finished", zap.Int("rows", total), zap.String("owner", owner.ID))
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.close()
	return a.seed(cmd.Context())
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.accounts().EnsureAdmin(ctx, a.cfg.AdminEmail, a.cfg.AdminPassword); err != nil {
		return fmt.Errorf("admin account: %w", err)
	}
	if seedOnStart {
		if err := a.seed(ctx); err != nil {
			return err
		}
	}

	hub := services.NewMetricsHub(a.log)
	go hub.Run(ctx)
	capture := func(ctx context.Context) (services.MetricSample, error) {
		return services.CaptureMetrics(ctx, a.db, a.cfg.MetricsDiskPath)
	}
	go services.RunSampler(ctx, a.cfg.MetricsInterval(), capture, hub, a.log)

	server, err := httpapi.NewServer(a.db, a.store, a.cfg, a.catalog, hub, a.log)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}
	httpServer := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		a.log.Warn("shutdown incomplete", zap.Error(err))
	}
	a.log.Info("shutdown complete")
	return nil
}
