package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"courier-tracking-service/internal/adapters/repositories"
	"courier-tracking-service/internal/config"
	"courier-tracking-service/internal/platform/db"
	"courier-tracking-service/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	zlog, err := logger.New(config.Get("APP_ENV", "development"), config.Get("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zlog.Sync() }()

	rootCmd := &cobra.Command{
		Use:   "dbtool",
		Short: "Courier tracking database maintenance",
	}
	rootCmd.PersistentFlags().String("database-url", "", "Postgres URL (defaults to DATABASE_URL)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the schema.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sqlDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			zlog.Info("initializing database schema")
			if err := repositories.InitSchema(sqlDB); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}
			zlog.Info("schema ready")
			return nil
		},
	}

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load demo orders.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			seedPath, _ := cmd.Flags().GetString("file")

			sqlDB, err := openDB(cmd)
			if err != nil {
				return err
			}
			defer sqlDB.Close()

			if err := repositories.InitSchema(sqlDB); err != nil {
				return fmt.Errorf("schema initialization failed: %w", err)
			}

			zlog.Info("seeding database", zap.String("file", seedPath))
			if err := repositories.SeedFromJSON(sqlDB, seedPath); err != nil {
				return fmt.Errorf("seeding failed: %w", err)
			}
			zlog.Info("seeding complete")
			return nil
		},
	}
	seedCmd.Flags().String("file", config.Get("SEED_PATH", "data/seeds/orders.json"), "JSON file with orders")

	rootCmd.AddCommand(initCmd, seedCmd)

	if err := rootCmd.Execute(); err != nil {
		zlog.Error("dbtool failed", zap.Error(err))
		os.Exit(1)
	}
}

func openDB(cmd *cobra.Command) (*sql.DB, error) {
	databaseURL, _ := cmd.Flags().GetString("database-url")
	if strings.TrimSpace(databaseURL) == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return db.Open(databaseURL)
}
