package commands

import (
	"fmt"
	"topactors-backend/internal/actorstore"
	"topactors-backend/internal/db"
	"topactors-backend/internal/ingest"
	"topactors-backend/internal/seed"
	"topactors-backend/internal/telemetry"
	"topactors-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seeds the configured database if it does not have any actors yet.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database, err := cfg.Database.OpenAndApply(cmd.Context(), db.Schema)
		if err != nil {
			serviceutil.Fatal("open database", err)
		}
		defer database.Close()

		tel := telemetry.SlogAPI{}
		pipeline, err := ingest.NewPipeline(cfg, tel, ingest.Options{})
		if err != nil {
			serviceutil.Fatal("init pipeline", err)
		}

		result, err := seed.New(actorstore.New(database), pipeline.Aggregator, tel).Seed(cmd.Context())
		if err != nil {
			serviceutil.Fatal("seed actors", err)
		}
		if result.Skipped {
			fmt.Println("database already has actors, nothing was ingested")
			return
		}
		fmt.Printf("inserted %d actors\n", result.Inserted)
	},
}
