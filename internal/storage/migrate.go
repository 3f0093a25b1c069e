package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var schemaFS embed.FS

// MigrateUp applies every *.up.sql script in lexical order. The scripts
// are idempotent (IF NOT EXISTS guards) so running them on every
// startup is safe.
func MigrateUp(db *sql.DB) error {
	return runScripts(db, ".up.sql")
}

// MigrateDown applies the *.down.sql scripts, dropping the schema.
func MigrateDown(db *sql.DB) error {
	return runScripts(db, ".down.sql")
}

func runScripts(db *sql.DB, suffix string) error {
	names, err := fs.Glob(schemaFS, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("storage: list %s scripts: %w", suffix, err)
	}
	sort.Strings(names)
	for _, name := range names {
		script, err := schemaFS.ReadFile(name)
		if err != nil {
			return fmt.Errorf("storage: read %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("storage: exec %s: %w", name, err)
		}
	}
	return nil
}
