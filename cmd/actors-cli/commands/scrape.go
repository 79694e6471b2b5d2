package commands

import (
	"log/slog"
	"os"
	"time"
	"topactors-backend/internal/ingest"
	"topactors-backend/internal/rank"
	"topactors-backend/internal/telemetry"
	"topactors-backend/lib/util/restyutil"
	"topactors-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var scrapeDump string

func init() {
	scrapeCmd.Flags().StringVar(&scrapeDump, "dump", "", "Write every IMDb http message into this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--dump <dir>]",
	Short: "Runs every provider and prints the normalized ranking without storing it.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		var opts ingest.Options
		if scrapeDump != "" {
			output, err := restyutil.NewFilesystemOutput(scrapeDump)
			if err != nil {
				serviceutil.Fatal("create dump directory", err)
			}
			opts.DumpOutput = output
		}
		pipeline, err := ingest.NewPipeline(cfg, telemetry.SlogAPI{}, opts)
		if err != nil {
			serviceutil.Fatal("init pipeline", err)
		}

		t1 := time.Now()
		records := rank.Normalize(pipeline.Aggregator.Aggregate(cmd.Context()))
		t2 := time.Now()
		slog.Info("scraping time", "seconds", t2.Sub(t1).Seconds())

		renderRecords(os.Stdout, records)
	},
}
