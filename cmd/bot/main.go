package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"dinebook/internal/auth"
	"dinebook/internal/bot"
	"dinebook/internal/cms"
	"dinebook/internal/config"
	"dinebook/internal/directory"
	"dinebook/internal/events"
	"dinebook/internal/logging"
	"dinebook/internal/metrics"
	"dinebook/internal/models"
	"dinebook/internal/payment"
	"dinebook/internal/repository"
	"dinebook/internal/service"
	"dinebook/internal/storage"
	"dinebook/internal/worker"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}

	if err := prepareDirectories(cfg, &logger); err != nil {
		return err
	}

	db, err := storage.New(cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("Ошибка инициализации базы данных")
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, stateService := initStateService(ctx, cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Клиент CMS и auth store ссылаются друг на друга: токен берётся
	// из auth store, auth store ходит через клиент.
	var authStore *auth.Store
	clientLogger := logger.With().Str("component", "cms-client").Logger()
	cmsClient := cms.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout(), cms.TokenSourceFunc(func() string {
		if authStore == nil {
			return ""
		}
		return authStore.Token()
	}), &clientLogger)

	authStore = auth.NewStore(cmsClient, db, &logger)
	if err := authStore.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("Не удалось восстановить сессию")
	}

	directoryStore := directory.NewStore(cmsClient, db, time.Duration(models.DirectoryCacheTTL)*time.Second, &logger)

	eventBus := events.NewEventBus()
	orchestrator := payment.NewOrchestrator(cmsClient, eventBus, cfg.Payment.Currency, &logger)

	tgService, err := initTelegram(cfg, &logger)
	if err != nil {
		return err
	}

	retryPolicy := worker.RetryPolicy{MaxRetries: 5, InitialDelay: 2 * time.Second, MaxDelay: time.Minute, BackoffFactor: 2}
	reminderWorker := worker.NewReminderWorker(redisClient, tgService, retryPolicy, reminderHour(cfg.Bot.ReminderTime), &logger)
	go reminderWorker.Start(ctx)

	subscribePaymentEvents(eventBus, &logger)

	startMetrics(ctx, cfg, &logger)
	startHealthCheck(ctx, cfg, redisClient, &logger)

	telegramBot := bot.NewBot(bot.Deps{
		Telegram:     tgService,
		Config:       cfg,
		States:       stateService,
		Auth:         authStore,
		Directory:    directoryStore,
		Orchestrator: orchestrator,
		Reservations: cmsClient,
		Profile:      cmsClient,
		Feedback:     cmsClient,
		Storage:      db,
		Reminders:    reminderWorker,
		EventBus:     eventBus,
		Logger:       &logger,
	})

	logger.Info().Msg("Бот запущен...")
	telegramBot.Start(ctx)

	logger.Info().Msg("Shutdown complete.")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "bot-main").Logger()

	return cfg, logger, closer, nil
}

func prepareDirectories(cfg *config.Config, logger *zerolog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для базы данных")
		return err
	}
	if err := os.MkdirAll(cfg.Exports.Path, 0o755); err != nil {
		logger.Error().Err(err).Msg("Ошибка создания директории для экспорта")
		return err
	}
	return nil
}

func initStateService(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*redis.Client, *service.StateService) {
	var redisClient *redis.Client
	if cfg.Redis.Address != "" {
		redisClient = repository.NewRedisClient(cfg.Redis)
		if errPing := repository.Ping(ctx, redisClient); errPing != nil {
			logger.Warn().Err(errPing).Msg("Redis unavailable")
		}
	}

	ttl := time.Duration(models.DefaultStateTTL) * time.Second
	primaryRepo := repository.NewRedisStateRepository(redisClient, ttl)
	fallbackRepo := repository.NewMemoryStateRepository(ttl)
	stateRepo := repository.NewFailoverStateRepository(primaryRepo, fallbackRepo, logger)
	return redisClient, service.NewStateService(stateRepo, logger)
}

func initTelegram(cfg *config.Config, logger *zerolog.Logger) (*service.TelegramService, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error().Err(err).Msg("Ошибка создания BotAPI")
		return nil, err
	}
	botAPI.Debug = cfg.Telegram.Debug

	return service.NewTelegramService(bot.NewBotWrapper(botAPI)), nil
}

// reminderHour parses "HH:MM" from config, falling back to the default.
func reminderHour(reminderTime string) int {
	parts := strings.SplitN(reminderTime, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return models.ReminderHour
	}
	return hour
}

func subscribePaymentEvents(bus *events.EventBus, logger *zerolog.Logger) {
	decode := func(ev *events.Event) (events.PaymentEventPayload, error) {
		var payload events.PaymentEventPayload
		if err := json.Unmarshal(ev.Payload, &payload); err != nil {
			return payload, err
		}
		return payload, nil
	}

	bus.Subscribe(events.EventPaymentSucceeded, func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Info().
			Str("reservation_id", payload.ReservationID).
			Str("reference", payload.Reference).
			Msg("payment succeeded")
		return nil
	})

	bus.Subscribe(events.EventPaymentFailed, func(ev *events.Event) error {
		payload, err := decode(ev)
		if err != nil {
			logger.Error().Err(err).Str("event", ev.Type).Msg("event bus: decode payload")
			return nil
		}
		logger.Warn().
			Str("reservation_id", payload.ReservationID).
			Str("error", payload.Error).
			Msg("payment failed")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
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

func startHealthCheck(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zerolog.Logger) {
	if cfg.Monitoring.HealthCheckPort == 0 {
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if redisClient != nil {
			if err := repository.Ping(r.Context(), redisClient); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "ok"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Monitoring.HealthCheckPort), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("health server error")
		}
	}()
}
