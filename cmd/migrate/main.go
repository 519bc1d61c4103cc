package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gradeflow/gradeflow/internal/config"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	dir := flag.String("dir", "migrations", "Directory containing migration SQL files")
	flag.Parse()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatalw("Failed to list migration files", "error", err)
	}
	sort.Strings(files)

	if len(files) == 0 {
		logger.Fatalw("No migration files found", "dir", *dir)
	}

	if *dryRun {
		logger.Info("Dry run mode - printing migration SQL without executing")
		for _, file := range files {
			sqlBytes, err := os.ReadFile(file)
			if err != nil {
				logger.Fatalw("Failed to read migration file", "file", file, "error", err)
			}
			fmt.Printf("-- %s\n%s\n", filepath.Base(file), sqlBytes)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)

	db, err := sqlx.Connect("postgres", cfg.Postgres.DSN())
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		logger.Fatalw("Failed to create schema_migrations table", "error", err)
	}

	applied := make(map[string]bool)
	var versions []string
	if err := db.Select(&versions, "SELECT version FROM schema_migrations"); err != nil {
		logger.Fatalw("Failed to read applied migrations", "error", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	logger.Info("Running database migrations...")

	for _, file := range files {
		version := strings.TrimSuffix(filepath.Base(file), ".sql")
		if applied[version] {
			logger.Debugw("Skipping applied migration", "version", version)
			continue
		}

		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			logger.Fatalw("Failed to read migration file", "file", file, "error", err)
		}

		tx, err := db.Begin()
		if err != nil {
			logger.Fatalw("Failed to begin transaction", "error", err)
		}

		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			logger.Fatalw("Migration failed", "version", version, "error", err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			_ = tx.Rollback()
			logger.Fatalw("Failed to record migration", "version", version, "error", err)
		}
		if err := tx.Commit(); err != nil {
			logger.Fatalw("Failed to commit migration", "version", version, "error", err)
		}

		logger.Infow("Applied migration", "version", version)
	}

	fmt.Println("Migration process completed")
}
