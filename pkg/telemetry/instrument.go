package telemetry

import (
	"context"

	"github.com/robinbraemer/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"go.lodestone.dev/lodestone/pkg/loader"
)

// Host is the part of the mod pipeline telemetry hooks into.
type Host interface {
	Event() event.Manager
}

// observerPriority runs instrumentation after resolvers so the
// recorded outcome is the settled one.
const observerPriority = -10

// InstrumentLoader adds OpenTelemetry instrumentation to the mod
// pipeline events of h.
func (t *Telemetry) InstrumentLoader(h Host) {
	if h == nil {
		return
	}
	t.subscribeEvents(h)
}

func (t *Telemetry) subscribeEvents(h Host) {
	mgr := h.Event()
	if mgr == nil {
		return
	}

	event.Subscribe(mgr, 0, func(e *loader.ScanCompletedEvent) {
		ctx := context.Background()
		_, span := t.tracer.Start(ctx, "mods.Scan",
			trace.WithAttributes(
				attribute.String("section", e.Section),
				attribute.String("base_dir", e.BaseDir),
				attribute.Int("registered", e.Registered),
			))
		defer span.End()

		t.scanDuration.Record(ctx, e.Duration.Seconds(),
			metric.WithAttributes(attribute.String("section", e.Section)))
		t.modsRegistered.Add(ctx, int64(e.Registered))
	})

	event.Subscribe(mgr, 0, func(e *loader.ModsAttachedEvent) {
		if e.Registry == nil {
			return
		}
		t.modsAttached.Add(context.Background(), int64(e.Registry.Len()))
	})

	event.Subscribe(mgr, observerPriority, func(e *loader.ResolveRequestEvent) {
		ctx := context.Background()
		resolved := e.Resolved()
		_, span := t.tracer.Start(ctx, "dependency.Resolve",
			trace.WithAttributes(
				attribute.String("name", e.Name),
				attribute.Bool("resolved", resolved),
			))
		defer span.End()

		t.resolveRequests.Add(ctx, 1,
			metric.WithAttributes(attribute.Bool("resolved", resolved)))
	})
}
