package sqlmigrate

import (
	"context"
	"database/sql"
	"fmt"
)

// reconcile purges ledger rows recorded above the highest available
// migration version. Artifacts can disappear from a working tree (squashed
// or rebased history) while a database still records them as applied;
// without this purge the planner would never revisit those versions.
//
// Nothing happens when no version is recorded or no artifacts are
// available. Running reconcile again with unchanged inputs deletes
// nothing further.
func (l *ledger) reconcile(ctx context.Context, available []int, recorded int) error {
	if recorded == 0 || len(available) == 0 {
		return nil
	}
	max := available[len(available)-1]
	if recorded <= max {
		return nil
	}

	cmd := fmt.Sprintf("DELETE FROM %s WHERE version > %d AND version <= %d;", l.table, max, recorded)
	err := transaction(ctx, l.db, l.logger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, cmd); err != nil {
			return &DriverError{fmt.Sprintf("failed to purge stale versions %d..%d", max+1, recorded), err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.logger(fmt.Sprintf("purged stale versions %d..%d from ledger", max+1, recorded))
	return nil
}
