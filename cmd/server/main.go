package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"barberbook/internal/api"
	"barberbook/internal/availability"
	"barberbook/internal/booking"
	"barberbook/internal/config"
	"barberbook/internal/handoff"
	"barberbook/internal/metrics"
	"barberbook/internal/notify"
	"barberbook/internal/schedule"
	"barberbook/internal/storeapi"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("BARBERBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		logger = logger.Level(lvl)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var policy atomic.Pointer[schedule.Policy]
	if err := config.WatchSchedule(ctx, cfg.Business.SchedulePath, 30*time.Second, &logger, func(p *schedule.Policy) {
		policy.Store(p)
	}); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Business.SchedulePath).Msg("load schedule")
	}

	client := storeapi.NewClient(cfg.Store.Endpoint, cfg.StoreTimeout(), &logger)
	var rdb *redis.Client
	if cfg.Redis.Address != "" && cfg.CacheTTL() > 0 {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		client.UseRedisCache(rdb, cfg.CacheTTL())
	}

	loader := availability.NewLoader(client, availability.Options{
		Heuristics: cfg.Heuristics(),
		Location:   loc,
	}, &logger)

	var notifier booking.Notifier
	if cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.APIEndpoint, cfg.Telegram.OwnerChatID, &http.Client{Timeout: 10 * time.Second}, &logger)
		if err != nil {
			// The shop can live without the notification.
			logger.Error().Err(err).Msg("telegram notifier disabled")
		} else {
			notifier = tg
		}
	}

	submitter := booking.NewSubmitter(client, loader, notifier, handoff.NewBuilder(cfg.Business.WhatsAppPhone), booking.Options{
		BusinessName:   cfg.Business.Name,
		RequireContact: cfg.ContactRequired(),
		PhoneRegion:    cfg.Booking.PhoneRegion,
		Services:       cfg.Booking.Services,
	}, &logger)

	sessions := booking.NewSessionStore(cfg.SessionTTL())
	go startSessionCleanup(ctx, sessions, cfg.SessionTTL(), &logger)

	var limiter *api.ClientLimiter
	if cfg.Booking.RateLimitPerMinute > 0 {
		limiter = api.NewClientLimiter(time.Minute/time.Duration(cfg.Booking.RateLimitPerMinute), cfg.Booking.RateLimitBurst)
		go startLimiterCleanup(ctx, limiter, cfg.SessionTTL())
	}

	server := api.NewHTTPServer(fmt.Sprintf(":%d", cfg.HTTP.Port), cfg.HTTPTimeout(), api.Deps{
		Loader:    loader,
		Submitter: submitter,
		Sessions:  sessions,
		Policy:    policy.Load,
		Location:  loc,
		Limiter:   limiter,
	}, &logger)

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	logger.Info().Str("business", cfg.Business.Name).Str("timezone", loc.String()).Msg("barberbook started")
	if err := server.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("api server error")
	}
	submitter.Wait()
}

func startLimiterCleanup(ctx context.Context, limiter *api.ClientLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(idle)
		}
	}
}

func startSessionCleanup(ctx context.Context, sessions *booking.SessionStore, ttl time.Duration, logger *zerolog.Logger) {
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Cleanup(); n > 0 {
				logger.Debug().Int("removed", n).Msg("expired sessions removed")
			}
		}
	}
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
