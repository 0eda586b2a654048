package main

import (
	"context"

	"github.com/fretelab/mlfrete/internal/config"
	"github.com/fretelab/mlfrete/internal/telemetry"
	"github.com/fretelab/mlfrete/pkg/quote"
	"github.com/fretelab/mlfrete/pkg/quote/meli"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initCLILogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level, "stderr")
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initFetcher(cfg *config.Config, logger *otelzap.Logger) quote.Fetcher {
	var tracer trace.Tracer
	if cfg.OTELEnabled {
		tracer = otel.Tracer(cfg.ServiceName)
	}

	return meli.New(meli.Config{
		BaseURL: cfg.MeliBaseURL,
		Timeout: cfg.MeliTimeout,
		UseMock: cfg.MeliUseMock,
	}, logger, tracer)
}
