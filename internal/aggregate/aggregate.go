package aggregate

import (
	"context"
	"fmt"
	"sync"
	"time"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("internal/aggregate")

const (
	report_aggregator_provider = "aggregator.provider"
	report_aggregator_records  = "aggregator.records"
)

const DefaultProviderTimeout = 2 * time.Minute

type Options struct {
	// ProviderTimeout bounds each provider on its own, 0 means DefaultProviderTimeout
	// and a negative value disables the timeout.
	ProviderTimeout time.Duration
}

// Aggregator runs every provider concurrently and concatenates whatever they return,
// a failing provider only costs its own batch.
type Aggregator struct {
	providers []actor.Provider
	timeout   time.Duration
	tel       telemetry.API
}

func New(providers []actor.Provider, opts Options, tel telemetry.API) *Aggregator {
	assert.NotNil(tel, "tel")
	for _, p := range providers {
		assert.NotNil(p, "provider")
		assert.NotEmptyStr(p.Name(), "provider name")
	}

	timeout := opts.ProviderTimeout
	if timeout == 0 {
		timeout = DefaultProviderTimeout
	}
	return &Aggregator{
		providers: providers,
		timeout:   timeout,
		tel:       telemetry.NewScopedAPI("aggregate", tel),
	}
}

func (a *Aggregator) fetch(ctx context.Context, provider actor.Provider) (records []actor.Record, err error) {
	ctx, span := tracer.Start(ctx, "aggregator:provider")
	defer span.End()
	span.SetAttributes(attribute.String("provider", provider.Name()))

	defer func() {
		if err != nil {
			span.RecordError(err)
		}
	}()

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	type result struct {
		records []actor.Record
		err     error
	}
	// the provider may not honor its context, so the deadline is enforced here as well
	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		records, err := provider.Fetch(ctx)
		done <- result{records: records, err: err}
	}()

	select {
	case res := <-done:
		return res.records, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("provider did not finish: %w", ctx.Err())
	}
}

// Aggregate returns the records of every successful provider, batches are kept in
// the order the providers were registered in. It never fails.
func (a *Aggregator) Aggregate(ctx context.Context) []actor.Record {
	ctx, span := tracer.Start(ctx, "aggregator:aggregate")
	defer span.End()

	batches := make([][]actor.Record, len(a.providers))
	wg := sync.WaitGroup{}
	for i, provider := range a.providers {
		wg.Add(1)
		go func(i int, provider actor.Provider) {
			defer wg.Done()

			records, err := a.fetch(ctx, provider)
			if err != nil {
				a.tel.ReportWarning(report_aggregator_provider, provider.Name(), err)
				return
			}
			a.tel.ReportCount(fmt.Sprintf("%s.%s", report_aggregator_records, provider.Name()), int64(len(records)))
			batches[i] = records
		}(i, provider)
	}
	wg.Wait()

	var out []actor.Record
	for _, batch := range batches {
		out = append(out, batch...)
	}
	span.SetAttributes(attribute.Int("records", len(out)))
	a.tel.ReportCount(report_aggregator_records, int64(len(out)))
	return out
}
