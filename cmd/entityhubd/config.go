package main

import (
	"errors"

	"github.com/dmitrymomot/entityhub/pkg/config"
	"github.com/dmitrymomot/entityhub/pkg/httpserver"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/notify"
	"github.com/dmitrymomot/entityhub/pkg/pg"
	"github.com/dmitrymomot/entityhub/pkg/redis"
	"github.com/dmitrymomot/entityhub/pkg/webhook"
)

type tracingConfig struct {
	// SampleRatio is the share of root dispatches that are traced.
	SampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"0.1"`
}

type tenantConfig struct {
	// Header names the request header carrying the tenant identifier.
	// Leave TENANT_SCOPED off for a single-tenant deployment.
	Header string `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`
	Scoped bool   `env:"TENANT_SCOPED" envDefault:"false"`
}

type appConfig struct {
	Log     logger.Config
	HTTP    httpserver.Config
	PG      pg.Config
	Redis   redis.Config
	Notify  notify.Config
	Webhook webhook.Config
	Tenant  tenantConfig
	Tracing tracingConfig
}

// loadConfig reads the process environment. envFiles, when given, are
// loaded first and override variables already set.
func loadConfig(envFiles ...string) (appConfig, error) {
	var cfg appConfig
	if err := config.LoadEnv(envFiles...); err != nil {
		return cfg, err
	}
	err := errors.Join(
		config.Load(&cfg.Log),
		config.Load(&cfg.HTTP),
		config.Load(&cfg.PG),
		config.Load(&cfg.Redis),
		config.Load(&cfg.Notify),
		config.Load(&cfg.Webhook),
		config.Load(&cfg.Tenant),
		config.Load(&cfg.Tracing),
	)
	return cfg, err
}
