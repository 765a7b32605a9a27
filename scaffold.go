package sqlmigrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Scaffold creates the next numbered pair of migration artifacts.
//
//	cmd:     engine.Scaffold("create_user_table", "sql")
//	created: migrations/up/4.sql, migrations/down/4.sql
//
// The direction directories are created if they don't exist. The next
// version is one above the highest available up version, starting at 1;
// version 0 (initial schema) is always authored by hand. Generated files
// carry the ledger statement matching their direction, keeping the
// convention that a unit's own SQL maintains the version table.
//
// Only "sql" units can be scaffolded. Script units are Go values compiled
// into the embedding program, so requesting "script" (or anything else)
// fails with UnsupportedTypeError.
func (e *Engine) Scaffold(name, unitType string) (files []string, err error) {
	if unitType != extSQL {
		return nil, &UnsupportedTypeError{unitType}
	}

	upDir := filepath.Join(e.path, string(Up))
	downDir := filepath.Join(e.path, string(Down))
	for _, dir := range []string{upDir, downDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create migrations directory %q: %v", dir, err)
		}
	}

	available, err := e.store.Available(Up)
	if err != nil {
		return nil, err
	}
	version := 1
	if len(available) > 0 {
		version = available[len(available)-1] + 1
	}

	file := strconv.Itoa(version) + "." + extSQL
	header := fmt.Sprintf("-- Name: %s\n-- Date: %s\n\n", name, time.Now().Format(time.RFC3339))
	pairs := []struct {
		path string
		body string
	}{
		{filepath.Join(upDir, file), header + fmt.Sprintf("INSERT INTO %s (version) VALUES (%d);\n", e.table, version)},
		{filepath.Join(downDir, file), header + fmt.Sprintf("DELETE FROM %s WHERE version = %d;\n", e.table, version)},
	}

	for _, pair := range pairs {
		if err := os.WriteFile(pair.path, []byte(pair.body), 0644); err != nil {
			return files, fmt.Errorf("failed to create migration at %q: %v", pair.path, err)
		}
		files = append(files, pair.path)
	}

	return files, nil
}
