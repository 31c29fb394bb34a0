package bootstrap

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
)

func TestBuildClosesDatabaseOnLaterFailure(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "object store", mutate: func(c *config.Config) { c.ObjectStoreType = "s3" }},
		{name: "queue", mutate: func(c *config.Config) { c.QueueBackend = "kafka" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opened *sql.DB
			orig := openDB
			openDB = func(ctx context.Context, dialect db.Dialect, dsn string, opts db.Options) (*sql.DB, error) {
				sqlDB, err := orig(ctx, dialect, dsn, opts)
				opened = sqlDB
				return sqlDB, err
			}
			t.Cleanup(func() { openDB = orig })

			dir := t.TempDir()
			cfg := config.Config{
				Env:             "dev",
				RecordStore:     "sqlite",
				SQLitePath:      filepath.Join(dir, "resume.db"),
				ObjectStoreType: "local",
				LocalStoreDir:   filepath.Join(dir, "objects"),
			}
			tt.mutate(&cfg)

			if _, err := Build(cfg); err == nil {
				t.Fatalf("expected Build to fail")
			}
			if opened == nil {
				t.Fatalf("expected the database to be opened")
			}
			if err := opened.Ping(); err == nil {
				t.Fatalf("expected the database to be closed after a failed Build")
			}
		})
	}
}
