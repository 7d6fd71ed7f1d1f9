package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/fmtbroker-consumer/config"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/cache/memory"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/kafka"
	"github.com/Gunvolt24/fmtbroker-consumer/internal/ports"
	rest "github.com/Gunvolt24/fmtbroker-consumer/internal/transport/http"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/logger"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/metrics"
	"github.com/Gunvolt24/fmtbroker-consumer/pkg/telemetry"
	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

// App — собранное приложение: консьюмер и (опционально) ops HTTP-сервер.
type App struct {
	Logger          ports.Logger          // логгер
	Consumer        ports.MessageConsumer // сессия консьюмера
	Recent          ports.RecentMessages  // кэш последних сообщений; nil, если выключен
	HTTPServer      *http.Server          // ops-сервер; nil, если выключен
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// Option — настройка Bootstrap (тесты подменяют драйвер брокера).
type Option func(*options)

type options struct {
	sessionOpts []kafka.Option
}

// WithSessionOptions — дополнительные опции сессии.
func WithSessionOptions(opts ...kafka.Option) Option {
	return func(o *options) { o.sessionOpts = append(o.sessionOpts, opts...) }
}

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости, подписывается на топик (с повторами) и возвращает приложение.
// Ошибка конфигурации или недоступный брокер — ошибка Bootstrap (фатально на старте).
func Bootstrap(ctx context.Context, cfg config.Config, consumerCfg config.Consumer, opts ...Option) (*App, Cleanup, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}
	return bootstrapWith(ctx, cfg, consumerCfg, logg, func() error { return cleanupLogger() }, o)
}

func bootstrapWith(ctx context.Context, cfg config.Config, consumerCfg config.Consumer, logg ports.Logger, cleanupLogger func() error, o options) (*App, Cleanup, error) {
	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	release := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	// Кэш последних сообщений: sink сессии и источник для /messages.
	var recent *memory.RecentCache
	sessionOpts := []kafka.Option{kafka.WithTracerProvider(otel.GetTracerProvider())}
	if cfg.Recent.Capacity > 0 {
		recent = memory.NewRecentCache(cfg.Recent.Capacity, cfg.Recent.TTL)
		sessionOpts = append(sessionOpts, kafka.WithSink(recent))
	}

	// Сессия консьюмера.
	sessionOpts = append(sessionOpts, o.sessionOpts...)
	session := kafka.NewSession(logg, sessionOpts...)
	if err := session.Configure(consumerCfg); err != nil {
		release()
		return nil, func() {}, err
	}

	if err := initWithRetry(ctx, session, cfg.Startup, logg); err != nil {
		release()
		return nil, func() {}, err
	}

	app := &App{
		Logger:          logg,
		Consumer:        session,
		gracefulTimeout: cfg.Ops.GracefulTimeout,
	}
	if recent != nil {
		app.Recent = recent
	}

	// Ops HTTP-сервер (health/status/metrics).
	if cfg.Ops.Enabled {
		applyGinMode(ctx, cfg.Ops.GinMode, logg)

		otelServiceName := ""
		if cfg.Tracing.Enabled {
			otelServiceName = cfg.Tracing.ServiceName
		}
		router := rest.NewRouter(rest.NewHandler(session, app.Recent, logg), otelServiceName)
		app.HTTPServer = &http.Server{
			Addr:              cfg.Ops.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if err := session.Close(); err != nil {
			logg.Warnf(ctx, "kafka consumer close error: %v", err)
		}
		release()
	}

	return app, cleanup, nil
}

// initWithRetry — Init с постоянной паузой; повторяется только ErrConnection.
func initWithRetry(ctx context.Context, s *kafka.Session, st config.Startup, log ports.Logger) error {
	op := func() error {
		err := s.Init(ctx)
		if err != nil && !errors.Is(err, kafka.ErrConnection) {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(st.InitBackoff), st.InitRetries), ctx)
	return backoff.RetryNotify(op, b, func(err error, next time.Duration) {
		log.Warnf(ctx, "kafka init failed, retry in %s: %v", next, err)
	})
}

// Run — запускает консьюмера и ops-сервер; ждёт завершения цикла или отмены контекста
// и останавливает оба. Возвращает ошибку консьюмера, если она была.
func (a *App) Run(ctx context.Context) error {
	consumerDone := make(chan error, 1)
	httpErr := make(chan error, 1)

	// Запуск консьюмера.
	go func() {
		a.Logger.Infof(ctx, "kafka consumer starting")
		consumerDone <- a.Consumer.Run(ctx)
	}()

	// Запуск HTTP-сервера.
	if a.HTTPServer != nil {
		go func() {
			a.Logger.Infof(ctx, "ops http server starting (addr=%s)", a.HTTPServer.Addr)
			if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				httpErr <- err
			}
		}()
	}

	var runErr error
	select {
	case runErr = <-consumerDone:
		a.Logger.Infof(ctx, "kafka consumer finished")
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, stopping consumer")
		a.Consumer.Stop()
		runErr = <-consumerDone
	case err := <-httpErr:
		// без ops-сервера консьюмер продолжает работать, но это повод остановиться
		a.Logger.Warnf(ctx, "ops http server error: %v", err)
		a.Consumer.Stop()
		runErr = <-consumerDone
	}

	if a.HTTPServer != nil {
		gt := a.gracefulTimeout
		if gt <= 0 {
			gt = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
		defer cancel()

		if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
		} else {
			a.Logger.Infof(ctx, "http server stopped gracefully")
		}
	}

	if err := a.Consumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}

	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
