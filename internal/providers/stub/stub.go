// Package stub is a stand-in for a structured ratings provider, it serves a fixed
// set of records without doing any I/O.
package stub

import (
	"context"
	"topactors-backend/internal/actor"
)

type sample struct {
	name       string
	rank       int
	knownFor   string
	externalId string
}

var samples = []sample{
	{name: "Sample Actor A", rank: 1001, knownFor: "Sample Film A", externalId: "rt-sample-a"},
	{name: "Sample Actor B", rank: 1002, knownFor: "Sample Film B", externalId: "rt-sample-b"},
}

type Provider struct{}

func NewProvider() Provider {
	return Provider{}
}

func (Provider) Name() string {
	return "rotten_tomatoes_stub"
}

func (Provider) Fetch(ctx context.Context) ([]actor.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]actor.Record, len(samples))
	for i, s := range samples {
		record := actor.NewRecord(actor.SOURCE_ROTTEN_TOMATOES, s.name, s.rank)
		record.Details = "Known for: " + s.knownFor
		record.ExternalID = s.externalId
		records[i] = record
	}
	return records, nil
}
