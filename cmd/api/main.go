package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/handlers"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock, err := timezone.NewClock(cfg.BusinessTimezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	// ======================================================
	// STORAGE + AUDIT
	// ======================================================
	var (
		repo       domain.Repository
		auditStore audit.Store
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		mem := infraRepo.NewMemoryRepository()
		repo = mem
		auditStore = audit.NewMemoryStore()
		if err := seedDemo(ctx, mem); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
		logger.Warn().Msg("memory storage: data is lost on restart")
	default:
		db, err := dbpkg.NewDB(cfg, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open database")
		}
		repo = infraRepo.NewAppointmentGormRepository(db)
		auditStore = audit.NewGormStore(db)
	}

	auditLogger := audit.New(auditStore)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)
	defer auditDispatcher.Close()

	if cfg.AdminEmail != "" {
		if _, err := handlers.EnsureAdmin(ctx, repo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap admin")
		}
	}

	// ======================================================
	// COMMIT LOCK
	// ======================================================
	var locker lock.Locker = lock.NewLocalLocker()
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal().Err(err).Msg("redis unreachable")
		}
		locker = lock.NewRedisLocker(rdb, 0)
		logger.Info().Msg("using redis booking lock")
	}

	// ======================================================
	// HTTP
	// ======================================================
	metrics.Register()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger),
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)

	routes.RegisterRoutes(r, routes.Deps{
		Repo:   repo,
		Locker: locker,
		Clock:  clock,
		Policy: ucAppointment.Policy{
			BufferMinutes:      cfg.BufferMinutes,
			MaxDurationMinutes: cfg.MaxBookingMinutes,
			LockTimeout:        cfg.LockTimeout,
		},
		Audit:       auditDispatcher,
		AuditLogger: auditLogger,
		JWTSecret:   cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("storage", cfg.StorageDriver).
			Str("timezone", cfg.BusinessTimezone).
			Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.LogFormat == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		logger = zerolog.New(output)
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Str("service", "barber-booking").Logger()
}

// seedDemo gives memory mode one barber working 09:00-17:00 Monday to
// Saturday, so availability has something to show.
func seedDemo(ctx context.Context, repo domain.Repository) error {
	var hours []ucAppointment.WorkingHoursInput
	for wd := 1; wd <= 6; wd++ {
		hours = append(hours, ucAppointment.WorkingHoursInput{
			Weekday: wd,
			Start:   "09:00",
			End:     "17:00",
		})
	}
	_, err := ucAppointment.SeedBarber(ctx, repo, "Demo Barber", hours)
	return err
}
