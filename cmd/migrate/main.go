package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory with .sql migration files")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		log.Fatalf("failed to ensure schema_migrations: %v", err)
	}

	if *rollback {
		rollbackLast(db, *dir)
		return
	}
	applyPending(db, *dir)
}

// migration files are NNNN_name.sql with an optional NNNN_name.down.sql
// counterpart for rollbacks.
func migrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if filepath.Ext(name) == ".sql" && !strings.HasSuffix(name, ".down.sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files
}

func splitVersion(file string) (version, name string) {
	base := strings.TrimSuffix(file, ".sql")
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		log.Fatalf("migration file %q is not named NNNN_name.sql", file)
	}
	return parts[0], parts[1]
}

func applyPending(db *sql.DB, dir string) {
	applied := map[string]bool{}
	rows, err := db.Query(`SELECT version FROM schema_migrations`)
	if err != nil {
		log.Fatalf("failed to query applied migrations: %v", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			log.Fatalf("failed to scan migration row: %v", err)
		}
		applied[v] = true
	}
	rows.Close()

	for _, file := range migrationFiles(dir) {
		version, name := splitVersion(file)
		if applied[version] {
			continue
		}

		contents, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("failed to begin transaction: %v", err)
		}
		if _, err := tx.Exec(string(contents)); err != nil {
			tx.Rollback()
			log.Fatalf("migration %s failed: %v", file, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, version, name); err != nil {
			tx.Rollback()
			log.Fatalf("failed to record migration %s: %v", file, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("failed to commit migration %s: %v", file, err)
		}
		fmt.Printf("applied %s\n", file)
	}
}

func rollbackLast(db *sql.DB, dir string) {
	var version, name string
	err := db.QueryRow(`
		SELECT version, name
		FROM schema_migrations
		ORDER BY applied_at DESC
		LIMIT 1
	`).Scan(&version, &name)
	if err == sql.ErrNoRows {
		log.Println("nothing to roll back")
		return
	}
	if err != nil {
		log.Fatalf("failed to find last migration: %v", err)
	}

	downFile := filepath.Join(dir, fmt.Sprintf("%s_%s.down.sql", version, name))
	contents, err := os.ReadFile(downFile)
	if err != nil {
		log.Fatalf("no down migration for %s_%s: %v", version, name, err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("failed to begin transaction: %v", err)
	}
	if _, err := tx.Exec(string(contents)); err != nil {
		tx.Rollback()
		log.Fatalf("rollback of %s failed: %v", version, err)
	}
	if _, err := tx.Exec(`DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
		tx.Rollback()
		log.Fatalf("failed to unrecord migration %s: %v", version, err)
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("failed to commit rollback of %s: %v", version, err)
	}
	fmt.Printf("rolled back %s_%s\n", version, name)
}
