package commands

import (
	"os"
	"topactors-backend/internal/actorstore"
	"topactors-backend/internal/db"
	"topactors-backend/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Prints the actors stored in the configured database in rank order.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		database, err := cfg.Database.OpenAndApply(cmd.Context(), db.Schema)
		if err != nil {
			serviceutil.Fatal("open database", err)
		}
		defer database.Close()

		records, err := actorstore.New(database).List(cmd.Context())
		if err != nil {
			serviceutil.Fatal("list actors", err)
		}
		renderRecords(os.Stdout, records)
	},
}
