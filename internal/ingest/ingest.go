// Package ingest wires the configured providers into an aggregator.
package ingest

import (
	"time"
	"topactors-backend/internal/actor"
	"topactors-backend/internal/aggregate"
	"topactors-backend/internal/enrich"
	"topactors-backend/internal/providers/stub"
	"topactors-backend/internal/scrapers/imdb"
	"topactors-backend/internal/telemetry"
	"topactors-backend/lib/util/restyutil"
)

type Options struct {
	// DumpOutput receives every http message of the imdb client, it may be nil.
	DumpOutput restyutil.Output
}

type Pipeline struct {
	Aggregator *aggregate.Aggregator
	// Enricher is nil if the imdb provider is disabled.
	Enricher *enrich.Enricher
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

func NewPipeline(cfg Config, tel telemetry.API, opts Options) (Pipeline, error) {
	err := cfg.Validate()
	if err != nil {
		return Pipeline{}, err
	}

	var pipeline Pipeline
	var providers []actor.Provider

	if !cfg.Imdb.Disabled {
		client, err := imdb.NewClient(imdb.ClientOptions{
			ListUrl:                 cfg.Imdb.ListUrl,
			BaseUrl:                 cfg.Imdb.BaseUrl,
			UserAgent:               cfg.Imdb.UserAgent,
			Timeout:                 seconds(cfg.Imdb.ListTimeoutSeconds),
			DetailRequestsPerSecond: cfg.Imdb.DetailRequestsPerSecond,
			CloudflareBypass:        cfg.Imdb.CloudflareBypass,
		}, tel)
		if err != nil {
			return Pipeline{}, err
		}
		if opts.DumpOutput != nil {
			restyutil.DumpResponses(client.Http, opts.DumpOutput)
		}

		policy, _ := enrich.ParseFailurePolicy(cfg.Imdb.BioFailurePolicy)
		pipeline.Enricher = enrich.New(client.Bio, enrich.Options{
			Permits:       cfg.Imdb.DetailPermits,
			Timeout:       seconds(cfg.Imdb.DetailTimeoutSeconds),
			FailurePolicy: policy,
			Wait:          client.WaitDetail,
		}, tel)
		providers = append(providers, imdb.NewProvider(client, pipeline.Enricher, tel))
	}
	if !cfg.Stub.Disabled {
		providers = append(providers, stub.NewProvider())
	}

	pipeline.Aggregator = aggregate.New(providers, aggregate.Options{
		ProviderTimeout: seconds(cfg.Aggregate.ProviderTimeoutSeconds),
	}, tel)
	return pipeline, nil
}
