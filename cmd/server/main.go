// TourDesk - municipal tourism dashboard API
// Entry point for the web server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/findosh/tourdesk/internal/config"
	"github.com/findosh/tourdesk/internal/handlers"
	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/logger"
	"github.com/findosh/tourdesk/internal/middleware"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/findosh/tourdesk/internal/services/analytics"
	"github.com/findosh/tourdesk/internal/services/auth"
	"github.com/findosh/tourdesk/internal/session"
	"github.com/findosh/tourdesk/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Initialize repositories
	userRepo := storage.NewUserRepository(db)
	newsRepo := storage.NewNewsRepository(db)
	noticeRepo := storage.NewNoticeRepository(db)
	placeRepo := storage.NewPlaceRepository(db)
	eventRepo := storage.NewEventRepository(db)
	notificationRepo := storage.NewNotificationRepository(db)
	settingsRepo := storage.NewSettingsRepository(db)

	// Session storage
	sessionStorage, closeStorage, err := openSessionStorage(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.SessionBackend).Msg("failed to open session storage")
	}
	defer closeStorage()

	lang := models.Language(cfg.DefaultLanguage)
	if !lang.Valid() {
		log.Warn().Str("language", cfg.DefaultLanguage).Msg("unknown default language, using es")
		lang = models.DefaultLanguage
	}

	registry := session.NewRegistry(session.RegistryConfig{
		Storage:         sessionStorage,
		TTL:             cfg.SessionTTL,
		Logger:          log.With().Str("component", "session").Logger(),
		DefaultLanguage: lang,
		Shared:          cfg.SessionBackend != config.BackendMemory,
	})

	// Initialize services
	tr := i18n.Default(lang)
	if settings, err := settingsRepo.Get(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to load settings, using built-in labels")
	} else {
		tr.SetOverrides(settings.Translations)
	}
	authService := auth.NewService(cfg, userRepo)
	analyticsService := analytics.NewService(tr, analytics.DashboardMetrics(userRepo, newsRepo, noticeRepo, registry)...)

	if admin, err := authService.EnsureAdmin(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to create bootstrap admin")
	} else if admin != nil {
		log.Info().Str("email", admin.Email).Msg("bootstrap admin created")
	}

	// Initialize handlers
	guard := middleware.NewGuard(tr)
	h := handlers.New(cfg, log, handlers.Deps{
		Translator:    tr,
		Guard:         guard,
		AuthService:   authService,
		Users:         userRepo,
		News:          newsRepo,
		Notices:       noticeRepo,
		Places:        placeRepo,
		Events:        eventRepo,
		Notifications: notificationRepo,
		Settings:      settingsRepo,
		Analytics:     analyticsService,
	})
	clients := middleware.NewClients(registry, authService, cfg.IsProduction(), log)

	go pruneClients(ctx, registry, cfg.ClientIdleTimeout, log)
	go dispatchNotifications(ctx, notificationRepo, time.Minute, log)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.NewRouter(clients),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	log.Info().
		Str("addr", server.Addr).
		Str("environment", cfg.Environment).
		Str("session_backend", cfg.SessionBackend).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("TourDesk server started")

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return
	}
	log.Info().Msg("server stopped")
}

// openSessionStorage selects the durable substrate for session records
func openSessionStorage(ctx context.Context, cfg *config.Config, db *storage.DB) (session.Storage, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		client, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStorage(client, "tourdesk:"), func() { client.Close() }, nil
	case config.BackendMemory:
		return session.NewMemoryStorage(), func() {}, nil
	case config.BackendSQLite, "":
		return storage.NewKVRepository(db), func() {}, nil
	}
	return nil, nil, errors.New("unknown session backend " + cfg.SessionBackend)
}

// pruneClients drops idle client stores until ctx is done
func pruneClients(ctx context.Context, registry *session.Registry, idle time.Duration, log zerolog.Logger) {
	interval := idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := registry.Prune(idle); n > 0 {
				log.Debug().Int("dropped", n).Int("remaining", registry.Len()).Msg("idle clients pruned")
			}
		}
	}
}

// dispatchNotifications marks scheduled notifications as sent once they
// are due, until ctx is done
func dispatchNotifications(ctx context.Context, repo *storage.NotificationRepository, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := repo.MarkDueSent(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("failed to send due notifications")
				continue
			}
			if n > 0 {
				log.Info().Int64("sent", n).Msg("scheduled notifications sent")
			}
		}
	}
}
