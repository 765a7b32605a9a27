package sqlmigrate

import (
	"context"
	"database/sql"
	"fmt"
)

const defaultLedgerTable = "db_version"

// ledger reads and writes the applied-version bookkeeping table: one
// integer version column, one row per applied migration. The current
// version is the maximum recorded value. The database owns this state;
// nothing is cached between calls.
//
// Version values are embedded into the statements as literals instead of
// bind parameters, keeping the ledger independent of any driver's
// placeholder syntax.
type ledger struct {
	db     *sql.DB
	table  string
	logger Logger
}

// currentVersion returns the highest version recorded in the ledger. ok is
// false when no version is recorded. A failing query is not fatal: on a
// brand-new database the ledger table does not exist yet, so the failure
// is rolled back, logged and the database treated as unversioned.
func (l *ledger) currentVersion(ctx context.Context) (version int, ok bool) {
	cmd := fmt.Sprintf("SELECT MAX(version) FROM %s;", l.table)

	err := transaction(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		var max sql.NullInt64
		if err := tx.QueryRowContext(ctx, cmd).Scan(&max); err != nil {
			return &DriverError{"failed to query current version", err}
		}
		if max.Valid {
			version = int(max.Int64)
			ok = true
		}
		return nil
	})
	if err != nil {
		l.logger("no version ledger found, treating database as unversioned: " + err.Error())
		return 0, false
	}

	return version, ok
}

// insertVersion records a version as applied. Each insert runs in its own
// transaction.
func (l *ledger) insertVersion(ctx context.Context, version int) error {
	cmd := fmt.Sprintf("INSERT INTO %s (version) VALUES (%d);", l.table, version)

	return transaction(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, cmd); err != nil {
			return &DriverError{fmt.Sprintf("failed to record version %d", version), err}
		}
		return nil
	})
}

// deleteVersion removes all ledger rows for a version. Each delete runs in
// its own transaction.
func (l *ledger) deleteVersion(ctx context.Context, version int) error {
	cmd := fmt.Sprintf("DELETE FROM %s WHERE version = %d;", l.table, version)

	return transaction(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, cmd); err != nil {
			return &DriverError{fmt.Sprintf("failed to delete version %d", version), err}
		}
		return nil
	})
}

// transaction is a utility function to execute SQL inside a transaction.
// The transaction commits when txFunc returns nil and rolls back when it
// returns an error or panics; a panic is re-thrown after the rollback.
func transaction(ctx context.Context, db *sql.DB, logger Logger, txFunc func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &DriverError{"failed to begin db transaction", err}
	}

	defer func() {
		if p := recover(); p != nil {
			if err := tx.Rollback(); err != nil {
				logger(err)
			}
			panic(p)
		} else if err != nil {
			// err is non-nil; don't change it
			if err := tx.Rollback(); err != nil {
				logger(err)
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()

	err = txFunc(tx)

	return err
}
