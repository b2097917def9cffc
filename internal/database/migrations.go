package database

import (
	"database/sql"
	"fmt"
	"log"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Up      string
	Down    string
}

// Migrations contains all database migrations
var Migrations = []Migration{
	{
		Version: 1,
		Up: `
			CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				email VARCHAR(255) UNIQUE NOT NULL,
				display_name VARCHAR(255) NOT NULL,
				avatar_url TEXT,
				password_hash VARCHAR(255) NOT NULL,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		`,
		Down: `
			DROP TABLE IF EXISTS users;
		`,
	},
	{
		Version: 2,
		Up: `
			ALTER TABLE users ADD COLUMN IF NOT EXISTS role VARCHAR(50) NOT NULL DEFAULT 'member';
		`,
		Down: `
			ALTER TABLE users DROP COLUMN IF EXISTS role;
		`,
	},
	{
		Version: 3,
		Up: `
			CREATE TABLE IF NOT EXISTS events (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				title VARCHAR(255) NOT NULL,
				description TEXT,
				location VARCHAR(255),
				starts_at TIMESTAMP NOT NULL,
				ends_at TIMESTAMP,
				image_url TEXT,
				published BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_events_starts_at ON events(starts_at);
		`,
		Down: `
			DROP TABLE IF EXISTS events;
		`,
	},
	{
		Version: 4,
		Up: `
			CREATE TABLE IF NOT EXISTS donations (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				donor_name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
				currency CHAR(3) NOT NULL DEFAULT 'USD',
				fund VARCHAR(50) NOT NULL DEFAULT 'general',
				message TEXT,
				status VARCHAR(50) NOT NULL DEFAULT 'pledged',
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_donations_created_at ON donations(created_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS donations;
		`,
	},
	{
		Version: 5,
		Up: `
			CREATE TABLE IF NOT EXISTS gallery_items (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				title VARCHAR(255) NOT NULL,
				caption TEXT,
				storage_key TEXT UNIQUE NOT NULL,
				url TEXT NOT NULL,
				content_type VARCHAR(100) NOT NULL,
				size_bytes BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);
		`,
		Down: `
			DROP TABLE IF EXISTS gallery_items;
		`,
	},
	{
		Version: 6,
		Up: `
			CREATE TABLE IF NOT EXISTS videos (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				title VARCHAR(255) NOT NULL,
				description TEXT,
				source_url TEXT NOT NULL,
				youtube_id VARCHAR(64) NOT NULL,
				published_at TIMESTAMP NOT NULL DEFAULT NOW(),
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_videos_published_at ON videos(published_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS videos;
		`,
	},
	{
		Version: 7,
		Up: `
			CREATE TABLE IF NOT EXISTS live_videos (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				title VARCHAR(255) NOT NULL,
				source_url TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_live_videos_created_at ON live_videos(created_at, id);
		`,
		Down: `
			DROP TABLE IF EXISTS live_videos;
		`,
	},
	{
		Version: 8,
		Up: `
			CREATE TABLE IF NOT EXISTS contact_messages (
				id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL,
				subject VARCHAR(255) NOT NULL,
				body TEXT NOT NULL,
				handled BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_contact_messages_handled ON contact_messages(handled, created_at DESC);
		`,
		Down: `
			DROP TABLE IF EXISTS contact_messages;
		`,
	},
}

// RunMigrations runs all pending migrations
func RunMigrations(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range Sorted() {
		if migration.Version <= currentVersion {
			continue
		}

		log.Printf("Running migration %d...", migration.Version)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}

		if _, err := tx.Exec(migration.Up); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to run migration %d: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		log.Printf("Migration %d completed", migration.Version)
	}

	return nil
}

// Sorted returns the migrations in ascending version order
func Sorted() []Migration {
	sorted := make([]Migration, len(Migrations))
	copy(sorted, Migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Version < sorted[j].Version })
	return sorted
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}
