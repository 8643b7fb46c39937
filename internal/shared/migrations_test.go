package shared

import (
	"errors"
	"slices"
	"testing"
)

func TestMigrationRunner(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("failed to load migrations: %v", err)
		}

		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}

		for i := 1; i < len(migrations); i++ {
			if migrations[i].Version <= migrations[i-1].Version {
				t.Errorf("migrations not sorted: version %d comes after %d", migrations[i].Version, migrations[i-1].Version)
			}
		}

		for _, m := range migrations {
			if m.Up == "" {
				t.Errorf("migration version %d missing up SQL", m.Version)
			}
			if m.Down == "" {
				t.Errorf("migration version %d missing down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations And Rollback", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}
		if count == 0 {
			t.Error("expected at least one migration to be applied")
		}

		_, err = db.Exec("SELECT 1 FROM requests LIMIT 1")
		if err != nil {
			t.Errorf("requests table should exist after migrations: %v", err)
		}

		var seq int
		if err := db.QueryRow("SELECT value FROM requests_sequence WHERE id = 1").Scan(&seq); err != nil {
			t.Fatalf("requests_sequence should be seeded: %v", err)
		}
		if seq != 0 {
			t.Errorf("expected sequence to start at 0, got %d", seq)
		}

		reverted, err := RollbackMigration(db)
		if err != nil {
			t.Fatalf("failed to rollback migration: %v", err)
		}
		if reverted.String() != "0001_index_requests" {
			t.Errorf("expected the newest migration to be reverted, got %s", reverted)
		}

		var newCount int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&newCount)
		if err != nil {
			t.Fatalf("failed to query schema_migrations after rollback: %v", err)
		}
		if newCount >= count {
			t.Errorf("expected migration count to decrease after rollback, got %d (was %d)", newCount, count)
		}

		var indexes int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_requests_status'").Scan(&indexes)
		if err != nil {
			t.Fatalf("failed to query sqlite_master: %v", err)
		}
		if indexes != 0 {
			t.Error("expected status index to be dropped by rollback")
		}
	})

	t.Run("parseMigrationFile", func(t *testing.T) {
		tt := []struct {
			file      string
			version   int
			name      string
			direction string
			ok        bool
		}{
			{"0000_create_requests_up.sql", 0, "create_requests", "up", true},
			{"0001_index_requests_down.sql", 1, "index_requests", "down", true},
			{"0001_index_requests.sql", 0, "", "", false},
			{"readme_up.sql", 0, "", "", false},
			{"0002_x_up.txt", 0, "", "", false},
		}

		for _, tc := range tt {
			version, name, direction, ok := parseMigrationFile(tc.file)
			if ok != tc.ok || version != tc.version || name != tc.name || direction != tc.direction {
				t.Errorf("%s: got (%d, %q, %q, %v)", tc.file, version, name, direction, ok)
			}
		}
	})

	t.Run("splitStatements", func(t *testing.T) {
		got := splitStatements("-- leading\nCREATE TABLE t (id INTEGER); -- trailing\n\nINSERT INTO t VALUES (1);\n")
		want := []string{"CREATE TABLE t (id INTEGER)", "INSERT INTO t VALUES (1)"}
		if !slices.Equal(got, want) {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("Rollback on fresh database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if _, err := RollbackMigration(db); !errors.Is(err, ErrNoMigrationApplied) {
			t.Errorf("expected ErrNoMigrationApplied, got %v", err)
		}
	})

	t.Run("Idempotent Migrations", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations first time: %v", err)
		}

		again, err := MigrateUp(db)
		if err != nil {
			t.Fatalf("failed to run migrations second time: %v", err)
		}
		if len(again) != 0 {
			t.Errorf("expected nothing pending, applied %v", again)
		}

		var count int
		err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
		if err != nil {
			t.Fatalf("failed to query schema_migrations: %v", err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("expected %d migrations to be applied, got %d", len(migrations), count)
		}
	})
}
