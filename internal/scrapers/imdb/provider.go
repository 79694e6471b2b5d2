package imdb

import (
	"bytes"
	"context"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/assert"
	"topactors-backend/internal/enrich"
	"topactors-backend/internal/telemetry"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("internal/scrapers/imdb")

const (
	report_provider_fetch = "provider.fetch"
	report_provider_items = "provider.items"
)

// Provider is the actor.Provider that scrapes the top actors list page.
type Provider struct {
	client   *Client
	enricher *enrich.Enricher
	tel      telemetry.API
}

// NewProvider creates a provider, `enricher` may be nil in which case only the
// inline summaries of the list page are used as details.
func NewProvider(client *Client, enricher *enrich.Enricher, tel telemetry.API) Provider {
	assert.NotNil(client, "client")
	assert.NotNil(tel, "tel")

	return Provider{
		client:   client,
		enricher: enricher,
		tel:      telemetry.NewScopedAPI("imdb_provider", tel),
	}
}

func (p Provider) Name() string {
	return "imdb"
}

// Dedupe drops every item whose external id was already seen, the first one wins.
// Items without an external id are always kept.
func Dedupe(items []RawItem) []RawItem {
	seen := map[string]struct{}{}
	out := make([]RawItem, 0, len(items))
	for _, item := range items {
		if item.ExternalID != "" {
			if _, ok := seen[item.ExternalID]; ok {
				continue
			}
			seen[item.ExternalID] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

// Records turns raw items into actor records, the inline summary becomes the details.
func Records(items []RawItem) []actor.Record {
	records := make([]actor.Record, len(items))
	for i, item := range items {
		record := actor.NewRecord(actor.SOURCE_IMDB, item.Name, item.Rank)
		record.Details = item.Summary
		record.ExternalID = item.ExternalID
		record.ImageURL = item.ImageURL
		records[i] = record
	}
	return records
}

func (p Provider) Fetch(ctx context.Context) ([]actor.Record, error) {
	ctx, span := tracer.Start(ctx, "provider:fetch")
	defer span.End()

	body, err := p.client.ListPage(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	extraction, err := Extract(bytes.NewBuffer(body), p.client.ListUrl())
	if err != nil {
		span.RecordError(err)
		p.tel.ReportBroken(report_provider_fetch, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("shape", extraction.Shape.String()),
		attribute.Int("items", len(extraction.Items)),
	)
	if extraction.Shape == SHAPE_NONE {
		p.tel.ReportWarning(report_provider_fetch, "no recognizable items on the list page")
		return nil, nil
	}
	p.tel.ReportDebug("extracted list page", extraction.Shape.String(), len(extraction.Items))

	items := Dedupe(extraction.Items)
	if dropped := len(extraction.Items) - len(items); dropped > 0 {
		p.tel.ReportDebug("dropped duplicate items", dropped)
	}
	p.tel.ReportCount(report_provider_items, int64(len(items)))

	records := Records(items)
	if p.enricher != nil {
		p.enricher.EnrichAll(ctx, records)
	}
	return records, nil
}
