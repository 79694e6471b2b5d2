package enrich

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/telemetry"
	"topactors-backend/lib/htmlutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("internal/enrich")
var meter = otel.Meter("internal/enrich")
var fetchCounter, _ = meter.Int64Counter(
	"enricher.fetches",
	metric.WithDescription("Detail pages fetched, labeled by outcome."),
)

const (
	report_enricher_lookup = "enricher.lookup"
	report_enricher_fetch  = "enricher.fetch"
)

// FetchFunc resolves the details of a single external id, an empty string with a nil error
// means the page was found but had nothing in it.
type FetchFunc func(ctx context.Context, externalId string) (string, error)

// WaitFunc blocks until the next fetch is allowed to start.
type WaitFunc func(ctx context.Context) error

// FailurePolicy decides what is remembered when a fetch fails.
type FailurePolicy int

const (
	// FAILURE_CACHE_EMPTY caches an empty result for the rest of the process lifetime, a transient
	// failure will never be retried.
	FAILURE_CACHE_EMPTY FailurePolicy = iota
	// FAILURE_RETRY returns an empty result but leaves the cache untouched so the next lookup of
	// the same id fetches again.
	FAILURE_RETRY
)

func ParseFailurePolicy(value string) (FailurePolicy, error) {
	switch value {
	case "", "cache":
		return FAILURE_CACHE_EMPTY, nil
	case "retry":
		return FAILURE_RETRY, nil
	}
	return 0, fmt.Errorf("unknown failure policy '%s' (expected 'cache' or 'retry')", value)
}

const (
	DefaultPermits = 10
	DefaultTimeout = 6 * time.Second
)

type Options struct {
	// Permits is the max amount of fetches in flight at once.
	Permits int64
	// Timeout bounds every fetch on its own, it is applied on top of the caller's context.
	Timeout       time.Duration
	FailurePolicy FailurePolicy
	// Wait is called with the caller's context before the timeout of a fetch starts, a
	// failed wait is not cached.
	Wait WaitFunc
}

func (o Options) withDefaults() Options {
	if o.Permits <= 0 {
		o.Permits = DefaultPermits
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Enricher fills in missing details of records from a secondary source. Results are
// cached by external id for the lifetime of the Enricher, including empty results.
type Enricher struct {
	fetch    FetchFunc
	opts     Options
	tel      telemetry.API
	permits  *semaphore.Weighted
	inflight singleflight.Group

	mutex sync.RWMutex
	cache map[string]string

	fetches atomic.Int64
}

func New(fetch FetchFunc, opts Options, tel telemetry.API) *Enricher {
	assert.NotNil(fetch, "fetch")
	assert.NotNil(tel, "tel")

	opts = opts.withDefaults()
	assert.Positive(opts.Permits, "permits")
	return &Enricher{
		fetch:   fetch,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("enrich", tel),
		permits: semaphore.NewWeighted(opts.Permits),
		cache:   map[string]string{},
	}
}

func (e *Enricher) cached(id string) (string, bool) {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	value, ok := e.cache[id]
	return value, ok
}

func (e *Enricher) store(id, value string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.cache[id] = value
}

// Fetches is the amount of times the underlying FetchFunc was called.
func (e *Enricher) Fetches() int64 {
	return e.fetches.Load()
}

// CacheSize is the amount of distinct external ids that have been resolved.
func (e *Enricher) CacheSize() int {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	return len(e.cache)
}

// Lookup returns the details for an external id, it never fails, any failure
// results in an empty string.
func (e *Enricher) Lookup(ctx context.Context, externalId string) string {
	if value, ok := e.cached(externalId); ok {
		return value
	}

	// concurrent lookups of the same id share one resolution
	value, _, _ := e.inflight.Do(externalId, func() (any, error) {
		return e.resolve(ctx, externalId), nil
	})
	return value.(string)
}

func (e *Enricher) resolve(ctx context.Context, externalId string) string {
	err := e.permits.Acquire(ctx, 1)
	if err != nil {
		// nothing was fetched so there is nothing to remember
		e.tel.ReportDebug(report_enricher_lookup, externalId, err)
		return ""
	}
	defer e.permits.Release(1)

	// a previous resolution may have finished while this one was waiting for a permit
	if value, ok := e.cached(externalId); ok {
		return value
	}

	if e.opts.Wait != nil {
		err = e.opts.Wait(ctx)
		if err != nil {
			e.tel.ReportDebug(report_enricher_lookup, externalId, err)
			return ""
		}
	}

	ctx, span := tracer.Start(ctx, "enricher:fetch")
	defer span.End()
	span.SetAttributes(attribute.String("external_id", externalId))

	fetchCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	e.fetches.Add(1)
	value, err := e.fetch(fetchCtx, externalId)
	fetchCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("failed", err != nil)))
	if err != nil {
		span.RecordError(err)
		e.tel.ReportWarning(report_enricher_fetch, err, externalId)
		if e.opts.FailurePolicy == FAILURE_CACHE_EMPTY {
			e.store(externalId, "")
		}
		return ""
	}

	value = htmlutil.CleanText(value)
	e.store(externalId, value)
	return value
}

// Enrich fills in the details of a record if it does not have any already.
func (e *Enricher) Enrich(ctx context.Context, record *actor.Record) {
	if record.Details != "" || record.ExternalID == "" {
		return
	}
	record.Details = e.Lookup(ctx, record.ExternalID)
}

// EnrichAll enriches every record concurrently, records are only modified in place
// so their order is untouched.
func (e *Enricher) EnrichAll(ctx context.Context, records []actor.Record) {
	ctx, span := tracer.Start(ctx, "enricher:enrich-all")
	defer span.End()

	group := errgroup.Group{}
	for i := range records {
		if records[i].Details != "" || records[i].ExternalID == "" {
			continue
		}
		idx := i
		group.Go(func() error {
			e.Enrich(ctx, &records[idx])
			return nil
		})
	}
	group.Wait()

	e.tel.ReportCount("enricher.cache-size", int64(e.CacheSize()))
}
