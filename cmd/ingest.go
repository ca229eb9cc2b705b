/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/recipe-assistant/config"
	"github.com/tieubaoca/recipe-assistant/database"
	"github.com/tieubaoca/recipe-assistant/service"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index a recipe collection file",
	Long: `Loads recipes from a JSON or CSV file and writes them into the search
index in batches. Re-running on the same file is safe: existing recipes
are overwritten, not duplicated.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		reinit, _ := cmd.Flags().GetBool("reinit")

		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if reinit {
			if err := weaviateDb.ReInit(); err != nil {
				log.Fatalf("Failed to reinitialize recipe index: %v", err)
			}
			log.Println("Recipe index reinitialized")
		}

		records, err := service.LoadRecipeRecords(file)
		if err != nil {
			log.Fatalf("Failed to load recipes: %v", err)
		}
		log.Printf("Loaded %d records from %s", len(records), file)

		indexer := service.NewIndexerService(weaviateDb, cfg.Indexer)
		summary, err := indexer.Index(context.Background(), records)
		if err != nil {
			log.Fatalf("Ingestion aborted: %v (inserted %d, updated %d, failed %d)",
				err, summary.Inserted, summary.Updated, summary.Failed)
		}
		log.Printf("Ingestion complete: inserted %d, updated %d, failed %d",
			summary.Inserted, summary.Updated, summary.Failed)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringP("file", "f", "", "recipe file to index (.json or .csv)")
	ingestCmd.MarkFlagRequired("file")
	ingestCmd.Flags().Bool("reinit", false, "drop and recreate the recipe index first")
}
