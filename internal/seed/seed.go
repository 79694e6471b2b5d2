package seed

import (
	"context"
	"fmt"
	"sync"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/rank"
	"topactors-backend/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("internal/seed")

const (
	report_orchestrator_seed = "orchestrator.seed"
)

// Store is where seeded records end up.
type Store interface {
	AnyActors(ctx context.Context) (bool, error)
	AddActor(ctx context.Context, record actor.Record) (actor.Record, error)
}

// Source produces the combined records of every provider, it never fails.
type Source interface {
	Aggregate(ctx context.Context) []actor.Record
}

type State int

const (
	STATE_NOT_SEEDED State = iota
	// STATE_SEEDED is terminal, nothing will be ingested again by the same orchestrator.
	STATE_SEEDED
)

func (s State) String() string {
	if s == STATE_SEEDED {
		return "seeded"
	}
	return "not-seeded"
}

type Result struct {
	// Skipped is true if the store already had actors or this orchestrator already seeded.
	Skipped  bool
	Inserted int
}

// Orchestrator fills an empty store exactly once.
type Orchestrator struct {
	store  Store
	source Source
	tel    telemetry.API

	mutex sync.Mutex
	state State
}

func New(store Store, source Source, tel telemetry.API) *Orchestrator {
	assert.NotNil(store, "store")
	assert.NotNil(source, "source")
	assert.NotNil(tel, "tel")

	return &Orchestrator{
		store:  store,
		source: source,
		tel:    telemetry.NewScopedAPI("seed", tel),
	}
}

func (o *Orchestrator) State() State {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return o.state
}

// Seed ingests and stores every record if the store is empty. A failure to persist
// a record is returned and leaves the orchestrator unseeded, records stored before the
// failure are not rolled back.
func (o *Orchestrator) Seed(ctx context.Context) (Result, error) {
	// concurrent calls must not both see an empty store
	o.mutex.Lock()
	defer o.mutex.Unlock()

	ctx, span := tracer.Start(ctx, "orchestrator:seed")
	defer span.End()

	if o.state == STATE_SEEDED {
		return Result{Skipped: true}, nil
	}

	exists, err := o.store.AnyActors(ctx)
	if err != nil {
		span.RecordError(err)
		o.tel.ReportBroken(report_orchestrator_seed, err)
		return Result{}, fmt.Errorf("seed: %w", err)
	}
	if exists {
		o.tel.ReportDebug("store already has actors, skipping ingestion")
		o.state = STATE_SEEDED
		return Result{Skipped: true}, nil
	}

	records := rank.Normalize(o.source.Aggregate(ctx))
	span.SetAttributes(attribute.Int("records", len(records)))

	for i, record := range records {
		_, err := o.store.AddActor(ctx, record)
		if err != nil {
			span.RecordError(err)
			o.tel.ReportBroken(report_orchestrator_seed, err, record.Name)
			return Result{Inserted: i}, fmt.Errorf("seed: persist record %d of %d: %w", i+1, len(records), err)
		}
	}

	o.tel.ReportCount("orchestrator.inserted", int64(len(records)))
	o.state = STATE_SEEDED
	return Result{Inserted: len(records)}, nil
}
