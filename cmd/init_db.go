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
	"github.com/tieubaoca/recipe-assistant/repository"
)

// initDbCmd represents the init-db command
var initDbCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Initialize the search index and database indexes",
	Long: `Drops and recreates the recipe search index, then ensures the MongoDB
indexes used by exchange and feedback queries exist. Destructive to
indexed recipes; exchanges are untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		if err := weaviateDb.ReInit(); err != nil {
			log.Fatalf("Failed to reinitialize recipe index: %v", err)
		}
		log.Println("Recipe index reinitialized")

		mongoClient, err := repository.NewMongoClient(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := repository.EnsureIndexes(context.Background(), mongoClient.Database(cfg.MongoDatabase)); err != nil {
			log.Fatalf("Failed to create MongoDB indexes: %v", err)
		}
		log.Println("MongoDB indexes ensured")
	},
}

func init() {
	rootCmd.AddCommand(initDbCmd)
}
