package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printcost/internal/cache"
	"printcost/internal/config"
	"printcost/internal/httpapi"
	"printcost/internal/logger"
	"printcost/internal/notify"
	"printcost/internal/service"
	"printcost/internal/session"
	"printcost/internal/store"
	"printcost/internal/store/memory"
	pgstore "printcost/internal/store/postgres"
	"printcost/internal/store/seed"
)

const redisKeyPrefix = "printcost:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	lg, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		lg.Fatal("invalid security configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout+10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL, pgstore.Options{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: cfg.DBConnMaxLifetime,
			ConnectTimeout:  cfg.DBConnectTimeout,
		}, lg)
		if err != nil {
			lg.Fatal("postgres unavailable and DATABASE_URL is set; refusing to start with in-memory fallback", zap.Error(err))
		}
		closers = append(closers, pg.Close)
		if cfg.RunMigrations {
			if err := pg.Migrate(ctx); err != nil {
				lg.Fatal("migrations failed", zap.Error(err))
			}
		}
		users, err := seed.Users(lg)
		if err != nil {
			lg.Fatal("build seed users", zap.Error(err))
		}
		seeded, err := pg.Seed(ctx, seed.Default(), users)
		if err != nil {
			lg.Fatal("seed database", zap.Error(err))
		}
		repo = pg
		lg.Info("repository: postgres", zap.Bool("seeded", seeded))
	} else {
		repo = memory.NewSeeded(lg)
		lg.Info("repository: in-memory")
	}

	var pricingCache cache.Cache = cache.NoopCache{}
	var snapshots cache.SnapshotStore = cache.NewMemorySnapshotStore()
	if cfg.RedisAddr != "" {
		client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		redisCache := cache.NewRedisCache(client, redisKeyPrefix)
		if err := redisCache.Ping(ctx); err != nil {
			lg.Warn("redis unavailable, using noop cache and in-memory sessions", zap.Error(err))
			_ = client.Close()
		} else {
			pricingCache = redisCache
			snapshots = cache.NewRedisSnapshotStore(client, redisKeyPrefix, cfg.SessionTTL)
			closers = append(closers, client.Close)
			lg.Info("cache: redis", zap.String("addr", cfg.RedisAddr))
		}
	} else {
		lg.Info("cache: noop, sessions: in-memory")
	}

	sessions := session.New(session.Persistence{
		Load:   snapshots.Load,
		Save:   snapshots.Save,
		Delete: snapshots.Delete,
	})

	svc := service.New(repo, service.Options{
		Cache:         pricingCache,
		CacheTTL:      cfg.PricingCacheTTL,
		Sessions:      sessions,
		Notifier:      buildNotifier(cfg, lg),
		NotifyTimeout: cfg.NotifyTimeout,
		Logger:        lg,
	})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, cfg.AccessTokenTTL, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, lg)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		lg.Info("print estimator listening", zap.String("addr", cfg.Address()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			lg.Error("close error", zap.Error(err))
		}
	}

	lg.Info("server stopped")
}

// buildNotifier wires every configured quote channel. A channel that fails
// to initialise is logged and skipped.
func buildNotifier(cfg config.Config, lg *zap.Logger) notify.Notifier {
	channels := make([]notify.Notifier, 0, 2)

	if cfg.SendGridAPIKey != "" {
		mailer, err := notify.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName, lg)
		if err != nil {
			lg.Warn("quote mail disabled", zap.Error(err))
		} else {
			channels = append(channels, mailer)
		}
	}

	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			lg.Warn("telegram notifications disabled", zap.Error(err))
		} else {
			channels = append(channels, tg)
		}
	}

	if len(channels) == 0 {
		lg.Info("quote notifications: none configured")
		return notify.Noop{}
	}
	return notify.NewMulti(channels...)
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.SendGridAPIKey != "" && cfg.MailFrom == "" {
		return fmt.Errorf("MAIL_FROM must be set when SENDGRID_API_KEY is configured")
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_ID must be set when TELEGRAM_TOKEN is configured")
	}
	if cfg.Production() && cfg.AllowedOrigin == "*" {
		return fmt.Errorf("ALLOWED_ORIGIN must not be * in production")
	}
	return nil
}
