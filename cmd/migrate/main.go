package main

import (
	"fmt"
	"os"

	"github.com/sanctuary/backend/config"
	"github.com/sanctuary/backend/internal/database"
	applog "github.com/sanctuary/backend/internal/platform/log"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/migrate/main.go [up|status]")
		os.Exit(1)
	}

	command := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := applog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}
	applog.Init(applog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "sanctuary-migrate"})
	logger := applog.L()

	if cfg.Database.Driver != "postgres" {
		logger.Fatal().Str("driver", cfg.Database.Driver).Msg("migrations only apply to postgres")
	}

	// Connect to database
	db, err := database.NewPostgresDB(cfg.GetDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	switch command {
	case "up":
		logger.Info().Msg("running migrations")
		if err := database.RunMigrations(db.DB); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		logger.Info().Msg("migrations completed successfully")

	case "status":
		showMigrationStatus(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: up, status")
		os.Exit(1)
	}
}

func showMigrationStatus(db *database.DB) {
	logger := applog.L()

	applied := make(map[int]string)
	rows, err := db.Query("SELECT version, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		logger.Warn().Err(err).Msg("no migrations found or table doesn't exist")
	} else {
		defer rows.Close()
		for rows.Next() {
			var version int
			var appliedAt string
			if err := rows.Scan(&version, &appliedAt); err != nil {
				logger.Error().Err(err).Msg("error scanning row")
				continue
			}
			applied[version] = appliedAt
		}
	}

	fmt.Println("\nMigrations:")
	fmt.Println("-----------")
	for _, m := range database.Sorted() {
		if at, ok := applied[m.Version]; ok {
			fmt.Printf("Version %d - applied at %s\n", m.Version, at)
		} else {
			fmt.Printf("Version %d - pending\n", m.Version)
		}
	}
}
