package sqlmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// executor applies migration units one at a time. Each SQL unit runs in
// its own transaction; DDL statements frequently cannot share an ambient
// transaction, so there is no atomicity across units. The unit's own SQL
// (or script) maintains the version ledger; the executor never touches it.
type executor struct {
	db     *sql.DB
	store  *Store
	logger Logger
}

// apply resolves and executes a single unit. A failed unit is rolled back
// and reported; the caller must not continue with the remaining plan.
func (e *executor) apply(ctx context.Context, direction Direction, version int, verbose bool) error {
	unit, err := e.store.Resolve(direction, version)
	if err != nil {
		return err
	}

	switch unit.Type {
	case TypeSQL:
		buf, err := os.ReadFile(unit.Path)
		if err != nil {
			return &UnitExecutionError{unit, fmt.Errorf("failed to read file contents of %q: %v", unit.Path, err)}
		}
		if verbose {
			e.logger(string(buf))
		}
		err = transaction(ctx, e.db, e.logger, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
				return &DriverError{"failed to execute SQL script " + unit.Path, err}
			}
			return nil
		})
		if err != nil {
			return &UnitExecutionError{unit, err}
		}
	case TypeScript:
		script, ok := e.store.scripts.lookup(direction, version)
		if !ok {
			return &VersionNotFoundError{Direction: direction, Version: version}
		}
		if err := script.Run(ctx, e.db); err != nil {
			return &UnitExecutionError{unit, err}
		}
	}

	e.logger("applied " + unit.Name())
	return nil
}
