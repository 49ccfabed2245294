// Package telemetry wires OpenTelemetry metrics and traces into the
// mod pipeline.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.lodestone.dev/lodestone/pkg/lodestone/config"
	"go.lodestone.dev/lodestone/pkg/version"
)

const instrumentationName = "lodestone"

// Telemetry holds the tracer and instruments of the mod pipeline.
type Telemetry struct {
	tracer trace.Tracer
	meter  metric.Meter

	modsAttached    metric.Int64UpDownCounter
	modsRegistered  metric.Int64Counter
	scanDuration    metric.Float64Histogram
	resolveRequests metric.Int64Counter
}

// New configures the global OpenTelemetry providers from cfg and
// returns the pipeline instruments. The returned func flushes and
// shuts the providers down. With both signals disabled the global
// no-op providers stay in place and the instruments cost nothing.
func New(ctx context.Context, cfg config.Telemetry) (*Telemetry, func(), error) {
	log := logr.FromContextOrDiscard(ctx).WithName("telemetry")

	shutdown := func() {}
	if cfg.Metrics.Enabled || cfg.Tracing.Enabled {
		var err error
		shutdown, err = otelconfig.ConfigureOpenTelemetry(options(cfg, log)...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to configure opentelemetry: %w", err)
		}
		log.Info("opentelemetry configured",
			"metrics", cfg.Metrics.Enabled, "tracing", cfg.Tracing.Enabled)
	}

	t := &Telemetry{
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}

	var err1, err2, err3, err4 error
	t.modsAttached, err1 = t.meter.Int64UpDownCounter(
		"lodestone.mods.attached",
		metric.WithDescription("Number of mods attached to the host"),
	)
	t.modsRegistered, err2 = t.meter.Int64Counter(
		"lodestone.mods.registered",
		metric.WithDescription("Total number of mods registered by scans"),
	)
	t.scanDuration, err3 = t.meter.Float64Histogram(
		"lodestone.scan.duration",
		metric.WithDescription("Directory scan duration in seconds"),
	)
	t.resolveRequests, err4 = t.meter.Int64Counter(
		"lodestone.resolve.requests",
		metric.WithDescription("Total number of dependency resolve requests"),
	)
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			shutdown()
			return nil, nil, fmt.Errorf("failed to create metrics: %w", err)
		}
	}

	return t, shutdown, nil
}

func options(cfg config.Telemetry, log logr.Logger) []otelconfig.Option {
	opts := []otelconfig.Option{
		otelconfig.WithServiceName(instrumentationName),
		otelconfig.WithServiceVersion(version.String()),
		otelconfig.WithMetricsEnabled(cfg.Metrics.Enabled),
		otelconfig.WithTracesEnabled(cfg.Tracing.Enabled),
		otelconfig.WithLogger(&configLogger{log: log}),
	}
	if cfg.Metrics.Enabled {
		endpoint, insecure := splitEndpoint(cfg.Metrics.Endpoint)
		opts = append(opts, otelconfig.WithMetricsExporterEndpoint(endpoint))
		if insecure {
			opts = append(opts, otelconfig.WithMetricsExporterInsecure(true))
		}
	}
	if cfg.Tracing.Enabled {
		endpoint, insecure := splitEndpoint(cfg.Tracing.Endpoint)
		opts = append(opts, otelconfig.WithTracesExporterEndpoint(endpoint))
		if insecure {
			opts = append(opts, otelconfig.WithTracesExporterInsecure(true))
		}
	}
	return opts
}

// splitEndpoint strips the scheme from an OTLP endpoint, reporting
// whether the transport is insecure. A plain host:port stays secure.
func splitEndpoint(endpoint string) (string, bool) {
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(endpoint, "https://"); ok {
		return rest, false
	}
	return endpoint, false
}

// configLogger adapts logr to the otelconfig logging interface.
type configLogger struct{ log logr.Logger }

func (l *configLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Errorf(format, v...), "opentelemetry configuration error")
}

func (l *configLogger) Debugf(format string, v ...any) {
	l.log.V(1).Info(fmt.Sprintf(format, v...))
}
