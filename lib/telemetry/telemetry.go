package telemetry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

var (
	providerLock   sync.Mutex
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
)

// InitSlog installs a text handler on stderr as the default slog logger.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// Setup creates and registers the global otel trace and metric providers.
func Setup(ctx context.Context, serviceName string, cfg config) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return err
	}

	tp, err := newTraceProvider(ctx, r, cfg)
	if err != nil {
		return err
	}
	mp, err := newMetricProvider(ctx, r, cfg)
	if err != nil {
		return errors.Join(err, tp.Shutdown(ctx))
	}

	providerLock.Lock()
	defer providerLock.Unlock()
	tracerProvider = tp
	meterProvider = mp
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	return nil
}

// Shutdown flushes and stops the providers registered with Setup, it is a
// no-op if Setup was never called.
func Shutdown(ctx context.Context) error {
	providerLock.Lock()
	defer providerLock.Unlock()

	var errlist []error
	if tracerProvider != nil {
		errlist = append(errlist, tracerProvider.Shutdown(ctx))
		tracerProvider = nil
	}
	if meterProvider != nil {
		errlist = append(errlist, meterProvider.Shutdown(ctx))
		meterProvider = nil
	}
	return errors.Join(errlist...)
}
