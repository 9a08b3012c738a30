package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-bff/internal/backend"
	"github.com/mateusmacedo/go-bff/internal/busticket"
	"github.com/mateusmacedo/go-bff/internal/busticket/domain"
	"github.com/mateusmacedo/go-bff/internal/busticket/infrastructure"
	"github.com/mateusmacedo/go-bff/internal/clock"
	"github.com/mateusmacedo/go-bff/internal/config"
	"github.com/mateusmacedo/go-bff/internal/metrics"
	"github.com/mateusmacedo/go-bff/internal/session"
	pkgApp "github.com/mateusmacedo/go-bff/pkg/application"
	pkgInfra "github.com/mateusmacedo/go-bff/pkg/infrastructure"
	redisAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/redis/adapter"
	zapAdapter "github.com/mateusmacedo/go-bff/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	appLogger, err := zapAdapter.NewZapAppLogger(cfg.AppName, cfg.Debug)
	if err != nil {
		panic(err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	var redisClient redis.UniversalClient
	if cfg.UsesRedis() {
		redisClient, err = redisAdapter.NewRedisClient(ctx, redisAdapter.ClientConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			fatal(ctx, appLogger, "Erro ao conectar no Redis", err)
		}
		defer redisClient.Close()
	}

	var sessionStore session.Store = session.NewMemoryStore(cfg.SessionTTL, clock.RealClock{})
	if cfg.SessionStore == "redis" {
		sessionStore = session.NewRedisStore(redisClient, cfg.SessionTTL)
	}

	var journal domain.CheckoutJournal = infrastructure.NewInMemoryCheckoutJournal(appLogger)
	if cfg.JournalDSN != "" {
		db, err := infrastructure.OpenJournalDB(cfg.JournalDSN)
		if err != nil {
			fatal(ctx, appLogger, "Erro ao inicializar o diário de compras", err)
		}
		journal = infrastructure.NewGormCheckoutJournal(db, appLogger)
	}

	buses, closeBus, err := newEventBus(ctx, cfg, redisClient, appLogger)
	if err != nil {
		fatal(ctx, appLogger, "Erro ao inicializar o barramento de eventos", err)
	}
	defer closeBus()

	gateway := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout, appLogger, backend.WithMetrics(m))

	busTicketSlice := busticket.NewBusTicketSlice(busticket.Deps{
		Gateway:      gateway,
		SessionStore: sessionStore,
		Journal:      journal,
		Projection:   infrastructure.NewInMemoryBookingProjection(),
		EventBus:     buses.Shared,
		LocalEvents:  buses.Local,
		Clock:        clock.RealClock{},
		IDGenerator:  pkgInfra.GenerateUUID,
		Mode:         cfg.CheckoutMode,
		Metrics:      m,
		Logger:       appLogger,
		Timeout:      cfg.BackendTimeout + 5*time.Second,
		SecureCookie: cfg.SecureCookies,
	})

	router := chi.NewRouter()
	router.Use(infrastructure.RequestID)
	router.Use(infrastructure.RequestLogging(appLogger))
	if m != nil {
		router.Use(metrics.Middleware(m))
		router.Method(http.MethodGet, "/metrics", m.Handler())
	}
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	busTicketSlice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "Sinal capturado", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info(ctx, "Servidor iniciando", map[string]interface{}{
			"addr":          cfg.Addr,
			"checkout_mode": cfg.CheckoutMode,
			"transport":     cfg.EventTransport,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkgApp.LogError(ctx, appLogger, "Erro ao iniciar o servidor", err, nil)
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info(context.Background(), "Encerrando servidor...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		pkgApp.LogError(context.Background(), appLogger, "Erro ao encerrar servidor", err, nil)
	}

	appLogger.Info(context.Background(), "Servidor encerrado", nil)
}

func fatal(ctx context.Context, logger pkgApp.AppLogger, msg string, err error) {
	pkgApp.LogError(ctx, logger, msg, err, nil)
	os.Exit(1)
}
