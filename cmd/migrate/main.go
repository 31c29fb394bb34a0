package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -dialect sqlite -sqlite ./data/resume.db

import (
	"context"
	"flag"
	"log"
	"os"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	defaultDialect := string(db.DialectSQLite)
	if cfg.RecordStore == "postgres" {
		defaultDialect = string(db.DialectPostgres)
	}
	dialect := flag.String("dialect", defaultDialect, "postgres or sqlite")
	sqlitePath := flag.String("sqlite", cfg.SQLitePath, "sqlite database file")
	flag.Parse()

	ctx := context.Background()

	var dsn string
	switch db.Dialect(*dialect) {
	case db.DialectPostgres:
		dsn = cfg.DatabaseURL
	case db.DialectSQLite:
		dsn = *sqlitePath
	default:
		log.Printf("unknown dialect %q", *dialect)
		os.Exit(2)
	}
	sqlDB, err := db.Open(ctx, db.Dialect(*dialect), dsn, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		log.Printf("failed to connect database: %v", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, db.Dialect(*dialect)); err != nil {
		log.Printf("failed to run migrations: %v", err)
		os.Exit(1)
	}
	log.Printf("migrations applied (%s)", *dialect)
}
