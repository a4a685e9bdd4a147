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

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/payments"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/settings"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
	ucSettlement "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/worker"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-scheduler",
		Short: "Dental clinic scheduling and settlement API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	gin.SetMode(gin.ReleaseMode)
}

// ======================================================
// SERVE
// ======================================================

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the background workers",
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
	setupLogger(cfg)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		return err
	}
	log.Info().Msg("connected to database")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := audit.NewDispatcher(audit.New(db))
	defer dispatcher.Close()

	store := settings.NewStore(db)

	deps := routes.Deps{
		DB:       db,
		Config:   cfg,
		Audit:    dispatcher,
		Settings: store,
	}

	// --------------------------------------------------
	// Optional integrations
	// --------------------------------------------------

	var archive storage.Archive
	if cfg.ArchiveEnabled() {
		s3Archive, err := storage.NewS3Archive(cfg)
		if err != nil {
			return err
		}
		archive = s3Archive
		log.Info().Str("bucket", cfg.S3Bucket).Msg("statement archive enabled")
	}
	deps.Statements = ucSettlement.NewStatements(
		infraRepo.NewSettlementGormRepository(db),
		store,
		archive,
	)

	if cfg.MPAccessToken != "" {
		mp, err := payments.NewMercadoPago(cfg.MPAccessToken)
		if err != nil {
			return err
		}
		deps.Verifier = mp
		log.Info().Msg("mercado pago verification enabled")
	}

	var mailer worker.BookingSender
	if cfg.SMTPEnabled() {
		mailer = notify.NewMailer(cfg)
	}

	var pool *worker.Pool
	if cfg.RedisURL != "" {
		rdb, err := worker.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()

		queue := worker.NewQueue(rdb)
		deps.Notifier = queue
		deps.Queue = queue

		pool = worker.NewPool(rdb, mailer, deps.Statements, store)
		pool.Start(ctx, cfg.WorkerPoolSize)
	} else {
		log.Warn().Msg("REDIS_URL not set, booking emails and statement archiving disabled")
	}

	// --------------------------------------------------
	// HTTP
	// --------------------------------------------------

	r := gin.New()
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if pool != nil {
		pool.Wait()
	}

	log.Info().Msg("server exited")
	return nil
}

// ======================================================
// MIGRATE
// ======================================================

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema and optionally seed an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			adminEmail, _ := cmd.Flags().GetString("admin-email")
			adminPassword, _ := cmd.Flags().GetString("admin-password")
			clinicName, _ := cmd.Flags().GetString("clinic-name")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			setupLogger(cfg)

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			log.Info().Msg("schema up to date")

			ctx := cmd.Context()
			if clinicName != "" {
				if err := settings.NewStore(db).Set(ctx, settings.KeyClinicName, clinicName, models.SettingString); err != nil {
					return fmt.Errorf("set clinic name: %w", err)
				}
			}

			if adminEmail != "" {
				if err := seedAdmin(ctx, db, adminEmail, adminPassword); err != nil {
					return err
				}
				log.Info().Str("email", adminEmail).Msg("admin user ready")
			}
			return nil
		},
	}

	cmd.Flags().String("admin-email", "", "Create or reset an admin user with this email")
	cmd.Flags().String("admin-password", "", "Password for --admin-email")
	cmd.Flags().String("clinic-name", "", "Clinic name shown in emails and statements")
	return cmd
}

func seedAdmin(ctx context.Context, db *gorm.DB, email, password string) error {
	if len(password) < 8 {
		return errors.New("--admin-password must have at least 8 characters")
	}

	hash, err := handlers.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user := models.User{
		Name:         "Administrador",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	return db.WithContext(ctx).
		Where(models.User{Email: email}).
		Assign(models.User{PasswordHash: hash, Role: models.RoleAdmin}).
		FirstOrCreate(&user).Error
}
