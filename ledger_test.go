package sqlmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"testing"

	_ "modernc.org/sqlite"
)

var nullLogger = log.New(io.Discard, "", 0).Print

// openTestDB returns an in-memory SQLite database. The pool is pinned to a
// single connection: every new connection would otherwise get its own
// empty :memory: database.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func createLedgerTable(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.Exec("CREATE TABLE db_version (version INTEGER NOT NULL);"); err != nil {
		t.Fatalf("failed to create ledger table: %v", err)
	}
}

func testLedger(db *sql.DB) *ledger {
	return &ledger{db: db, table: defaultLedgerTable, logger: nullLogger}
}

func Test_ledger_currentVersion(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createLedgerTable(t, db)
	l := testLedger(db)

	if _, ok := l.currentVersion(ctx); ok {
		t.Fatal("empty ledger should report no version")
	}

	for _, v := range []int{1, 2, 5} {
		if err := l.insertVersion(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	version, ok := l.currentVersion(ctx)
	if !ok {
		t.Fatal("ledger should report a version")
	}
	if version != 5 {
		t.Errorf("currentVersion() got %d, want 5", version)
	}
}

func Test_ledger_currentVersionNoTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	l := testLedger(db)

	// A brand-new database has no ledger table yet. That must not be
	// fatal: the database is simply treated as unversioned.
	version, ok := l.currentVersion(ctx)
	if ok {
		t.Fatal("missing ledger table should report no version")
	}
	if version != 0 {
		t.Errorf("currentVersion() got %d, want 0", version)
	}
}

func Test_ledger_insertDeleteVersion(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createLedgerTable(t, db)
	l := testLedger(db)

	if err := l.insertVersion(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if version, _ := l.currentVersion(ctx); version != 7 {
		t.Errorf("currentVersion() after insert got %d, want 7", version)
	}

	if err := l.deleteVersion(ctx, 7); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.currentVersion(ctx); ok {
		t.Error("currentVersion() after delete should report no version")
	}
}

func Test_ledger_insertVersionNoTable(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	l := testLedger(db)

	// only reads are lenient; writes surface their failure
	if err := l.insertVersion(ctx, 1); err == nil {
		t.Fatal("insertVersion should fail without a ledger table")
	}
}

func Test_ledger_reconcile(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createLedgerTable(t, db)
	l := testLedger(db)

	// the database claims versions 1..10 were applied
	for v := 1; v <= 10; v++ {
		if err := l.insertVersion(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	// only artifacts 1..3 remain on disk
	available := []int{1, 2, 3}
	recorded, _ := l.currentVersion(ctx)
	if err := l.reconcile(ctx, available, recorded); err != nil {
		t.Fatal(err)
	}

	version, ok := l.currentVersion(ctx)
	if !ok || version != 3 {
		t.Fatalf("currentVersion() after reconcile got %d (ok=%v), want 3", version, ok)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM db_version;").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("ledger rows after reconcile got %d, want 3", count)
	}

	// reconciliation is idempotent
	recorded, _ = l.currentVersion(ctx)
	if err := l.reconcile(ctx, available, recorded); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM db_version;").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("ledger rows after second reconcile got %d, want 3", count)
	}
}

func Test_ledger_reconcileNoops(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createLedgerTable(t, db)
	l := testLedger(db)

	// no recorded version
	if err := l.reconcile(ctx, []int{1, 2}, 0); err != nil {
		t.Fatal(err)
	}
	// no available artifacts
	if err := l.reconcile(ctx, []int{}, 5); err != nil {
		t.Fatal(err)
	}
	// recorded within the available range
	if err := l.insertVersion(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := l.reconcile(ctx, []int{1, 2, 3}, 2); err != nil {
		t.Fatal(err)
	}
	if version, _ := l.currentVersion(ctx); version != 2 {
		t.Errorf("currentVersion() got %d, want 2", version)
	}
}

func Test_transaction(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := transaction(ctx, db, nullLogger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "CREATE TABLEups data();"); err != nil {
			return &DriverError{"wrong syntax", err}
		}
		return nil
	})
	if err == nil {
		t.Fatal("err is nil, should not")
	}
}

func Test_transactionRollback(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	createLedgerTable(t, db)

	boom := fmt.Errorf("boom")
	err := transaction(ctx, db, nullLogger, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "INSERT INTO db_version (version) VALUES (1);"); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("transaction() returned %v, want %v", err, boom)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM db_version;").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("rolled back insert left %d rows, want 0", count)
	}
}

func Test_transactionPanic(t *testing.T) {
	db := openTestDB(t)

	defer func() {
		if p := recover(); p == nil {
			t.Fatal("should have panicked, did not")
		}
	}()

	transaction(context.Background(), db, nullLogger, func(tx *sql.Tx) error {
		panic("random access memory")
	})
}
