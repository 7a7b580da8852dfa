package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Migrate runs all .sql files in migrationsDir in lexical order, skipping
// versions already recorded in schema_migrations.
func (s *SQL) Migrate(migrationsDir string) error {
	createTable := `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := s.DB.Exec(createTable); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrationFiles []string
	for _, f := range files {
		if !f.IsDir() && strings.HasSuffix(f.Name(), ".sql") {
			migrationFiles = append(migrationFiles, f.Name())
		}
	}
	sort.Strings(migrationFiles)

	for _, file := range migrationFiles {
		applied, err := s.isApplied(file)
		if err != nil {
			return err
		}
		if applied {
			slog.Debug("Skipping already applied migration", "file", file)
			continue
		}

		slog.Info("Applying migration", "file", file, "driver", s.driver)
		content, err := os.ReadFile(filepath.Join(migrationsDir, file))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		tx, err := s.DB.Beginx()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			if !isDuplicateColumn(err) {
				return fmt.Errorf("failed to execute migration %s: %w", file, err)
			}
			slog.Warn("Column likely already exists, marking as applied", "file", file)
		} else if err := tx.Commit(); err != nil {
			return err
		}

		if _, err := s.DB.Exec(s.DB.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), file); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}
	}
	return nil
}

func (s *SQL) isApplied(version string) (bool, error) {
	var n int
	err := s.DB.Get(&n, s.DB.Rebind(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`), version)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return n > 0, nil
}

func isDuplicateColumn(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}
