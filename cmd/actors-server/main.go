package main

import (
	"context"
	"flag"
	"log/slog"
	"time"
	"topactors-backend/internal/actorstore"
	"topactors-backend/internal/db"
	"topactors-backend/internal/ingest"
	"topactors-backend/internal/seed"
	"topactors-backend/internal/telemetry"
	libtelemetry "topactors-backend/lib/telemetry"
	"topactors-backend/lib/util/restyutil"
	"topactors-backend/lib/util/serviceutil"
)

func InitTelemetry(ctx context.Context, verbose bool) {
	libtelemetry.InitSlog(verbose)

	if verbose {
		slog.DebugContext(ctx, "verbose logging enabled")
	}

	err := libtelemetry.SetupFromEnv(ctx, "actors-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	go func() {
		<-ctx.Done()
		libtelemetry.Shutdown(context.Background())
	}()
	libtelemetry.InstrumentPerfStats(ctx, 30*time.Second)
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "Path to the config file.")
	dumpDir := flag.String("dump", "", "Write every IMDb http message into this directory.")
	flag.Parse()

	ctx := serviceutil.SignalContext()
	InitTelemetry(ctx, *verbose)

	cfg, err := ingest.LoadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	database, err := cfg.Database.OpenAndApply(ctx, db.Schema)
	if err != nil {
		serviceutil.Fatal("open database", err)
	}
	defer database.Close()

	tel := telemetry.SlogAPI{}

	var opts ingest.Options
	if *dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(*dumpDir)
		if err != nil {
			serviceutil.Fatal("create dump directory", err)
		}
		opts.DumpOutput = output
	}
	pipeline, err := ingest.NewPipeline(cfg, tel, opts)
	if err != nil {
		serviceutil.Fatal("init pipeline", err)
	}

	store := actorstore.New(database)
	result, err := seed.New(store, pipeline.Aggregator, tel).Seed(ctx)
	if err != nil {
		serviceutil.Fatal("seed actors", err)
	}
	slog.InfoContext(ctx, "seeding finished", "skipped", result.Skipped, "inserted", result.Inserted)

	err = serviceutil.StartHttpServer(ctx, cfg.Server.Port, NewMux(store))
	if err != nil {
		serviceutil.Fatal("serve http", err)
	}
}
