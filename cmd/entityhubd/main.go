package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dmitrymomot/entityhub/internal/orders"
	"github.com/dmitrymomot/entityhub/pkg/broadcast"
	"github.com/dmitrymomot/entityhub/pkg/httpserver"
	"github.com/dmitrymomot/entityhub/pkg/hubhttp"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
	"github.com/dmitrymomot/entityhub/pkg/notify"
	"github.com/dmitrymomot/entityhub/pkg/pg"
	"github.com/dmitrymomot/entityhub/pkg/redis"
	"github.com/dmitrymomot/entityhub/pkg/requestid"
	"github.com/dmitrymomot/entityhub/pkg/tenant"
	"github.com/dmitrymomot/entityhub/pkg/transaction"
	"github.com/dmitrymomot/entityhub/pkg/webhook"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	envFile := flag.String("env", "", "dotenv file loaded before the environment is read")
	flag.Parse()

	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}

	if err := run(context.Background(), files); err != nil {
		slog.Error("entityhubd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, envFiles []string) error {
	cfg, err := loadConfig(envFiles...)
	if err != nil {
		return err
	}

	log, err := logger.NewFromConfig(cfg.Log,
		logger.WithContextExtractors(requestid.LoggerExtractor(), tenant.LoggerExtractor(), transaction.LoggerExtractor()),
	)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.Tracing.SampleRatio))),
	)
	otel.SetTracerProvider(tp)
	defer shutdown(log, "tracer provider", tp.Shutdown)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := notify.NewMetrics(reg)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations, "migrations", cfg.PG, log); err != nil {
		return err
	}

	hub := broadcast.NewHub(
		broadcast.WithBufferSize(cfg.Notify.HubBuffer),
		broadcast.WithLogger(log.With(logger.Component("hub"))),
	)

	checks := []httpserver.Check{{Name: "postgres", Probe: pg.Healthcheck(pool)}}

	senders := []messaging.Sender{hub}
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("failed to close redis client", logger.Error(err))
			}
		}()

		publisher, relay := fanout(client, hub, cfg.Redis, log)
		senders = append(senders, publisher)
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redis.Healthcheck(client)})

		relayCtx, stopRelay := context.WithCancel(ctx)
		defer stopRelay()
		go func() {
			if err := relay.Run(relayCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("redis relay stopped", logger.Error(err))
			}
		}()
	}

	if hook := webhook.NewFromConfig(cfg.Webhook, webhook.WithLogger(log.With(logger.Component("webhook")))); hook != nil {
		senders = append(senders, hook)
	}

	var transformer notify.GroupTransformer
	if cfg.Tenant.Scoped {
		transformer = tenant.GroupTransformer()
	}

	notifier, err := orders.NewNotifier(
		messaging.NewTransactionalSender(messaging.NewMultiSender(senders...), messaging.WithLogger(log)),
		transformer,
		notify.WithConfig(cfg.Notify),
		notify.WithLogger(log.With(logger.Component("notify"))),
		notify.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}
	svc := orders.NewService(pool, orders.NewRepository(), notifier, orders.WithLogger(log))

	router := chi.NewRouter()
	router.Use(
		middleware.RealIP,
		requestid.Middleware,
		tenant.Middleware(cfg.Tenant.Header),
		middleware.Recoverer,
		transaction.Middleware(transaction.WithLogger(log)),
	)
	router.Get("/health/live", httpserver.HealthHandler(log))
	router.Get("/health/ready", httpserver.HealthHandler(log, checks...))
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.Mount("/orders", orders.NewHandler(svc, log).Routes())
	hubOpts := []hubhttp.Option{hubhttp.WithLogger(log)}
	if transformer != nil {
		hubOpts = append(hubOpts, hubhttp.WithGroupTransformer(transformer))
	}
	router.Mount("/hub", hubhttp.NewHandler(hub, hubOpts...).Routes())

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithDrainHook(func(context.Context) {
			if err := hub.Close(); err != nil {
				log.Warn("failed to close hub", logger.Error(err))
			}
		}),
	)
	return srv.Run(ctx, router)
}

func fanout(client *goredis.Client, hub *broadcast.Hub, cfg redis.Config, log *slog.Logger) (*redis.Publisher, *redis.Relay) {
	opts := []redis.Option{
		redis.WithPrefix(cfg.ChannelPrefix),
		redis.WithLogger(log.With(logger.Component("redis"))),
	}
	// Publisher and relay must share the instance ID so the relay can skip
	// messages this process already delivered locally.
	publisher := redis.NewPublisher(client, opts...)
	relay := redis.NewRelay(client, hub, append(opts, redis.WithInstanceID(publisher.InstanceID()))...)
	return publisher, relay
}

func shutdown(log *slog.Logger, name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn("shutdown failed", slog.String("resource", name), logger.Error(err))
	}
}
