package sqlmigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
)

// Latest selects the highest available version as the target of Up or Stamp.
const Latest = -1

// Logger is a generic logging func.
type Logger func(...interface{})

// engineState tracks the lifecycle of a single Engine instance.
type engineState int

const (
	stateIdle engineState = iota
	stateRunning
	stateCompleted
	stateFailed
)

// An Engine coordinates migration discovery, reconciliation, planning and
// execution against a single database.
//
// An Engine runs at most one Up or Down in its lifetime; a later call is a
// no-op. This guards embedding code against accidental re-entry. It does
// not serialize separate processes running against the same database;
// operators must do that externally. Construct a fresh Engine for each
// operation.
//
// An empty Engine path is treated as ".".
type Engine struct {
	db      *sql.DB
	path    string
	table   string
	logger  Logger
	scripts *Scripts

	store  *Store
	ledger *ledger
	state  engineState
}

// New returns an Engine reading migration artifacts below path and
// tracking applied versions in the database behind db.
func New(db *sql.DB, path string, options ...Option) *Engine {
	e := &Engine{db: db, path: path}

	for _, option := range options {
		option(e)
	}

	if e.table == "" {
		e.table = defaultLedgerTable
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard, "", 0).Print
	}
	if e.scripts == nil {
		e.scripts = NewScripts()
	}

	e.store = newStore(e.path, e.scripts)
	e.ledger = &ledger{db: db, table: e.table, logger: e.logger}

	return e
}

// Up migrates forward to target, or with target Latest to the highest
// available version. Target 0 applies only the initial schema unit. The
// first failing unit aborts the remaining plan; units committed before the
// failure stay committed and the ledger reflects exactly how far the run
// got.
func (e *Engine) Up(ctx context.Context, target int, verbose bool) error {
	if e.state != stateIdle {
		e.logger("migrations already ran on this engine, ignoring up")
		return nil
	}
	e.state = stateRunning

	err := e.up(ctx, target, verbose)
	if err != nil {
		e.state = stateFailed
		return err
	}
	e.state = stateCompleted
	return nil
}

func (e *Engine) up(ctx context.Context, target int, verbose bool) error {
	available, err := e.store.Available(Up)
	if err != nil {
		return err
	}

	recorded, ok := e.ledger.currentVersion(ctx)
	if ok {
		if err := e.ledger.reconcile(ctx, available, recorded); err != nil {
			return err
		}
		// purged rows may have lowered the recorded version
		recorded, _ = e.ledger.currentVersion(ctx)
	}

	if target < 0 {
		if len(available) == 0 {
			return nil // nothing to do here
		}
		target = available[len(available)-1]
	} else if !contains(available, target) {
		return &VersionNotFoundError{Direction: Up, Version: target}
	}

	exec := &executor{db: e.db, store: e.store, logger: e.logger}
	for _, v := range planUp(available, recorded, target) {
		if err := exec.apply(ctx, Up, v, verbose); err != nil {
			return err
		}
	}

	return nil
}

// Down reverts applied migrations in descending order down to target,
// which itself stays applied. Target 0 reverts everything with a down
// unit. A target is mandatory. The first failing unit aborts the remaining
// plan.
func (e *Engine) Down(ctx context.Context, target int, verbose bool) error {
	if e.state != stateIdle {
		e.logger("migrations already ran on this engine, ignoring down")
		return nil
	}
	e.state = stateRunning

	err := e.down(ctx, target, verbose)
	if err != nil {
		e.state = stateFailed
		return err
	}
	e.state = stateCompleted
	return nil
}

func (e *Engine) down(ctx context.Context, target int, verbose bool) error {
	if target < 0 {
		return fmt.Errorf("a target version is required to migrate down")
	}

	available, err := e.store.Available(Down)
	if err != nil {
		return err
	}

	recorded, ok := e.ledger.currentVersion(ctx)
	if !ok {
		return nil // nothing applied, nothing to revert
	}
	if err := e.ledger.reconcile(ctx, available, recorded); err != nil {
		return err
	}
	recorded, _ = e.ledger.currentVersion(ctx)

	exec := &executor{db: e.db, store: e.store, logger: e.logger}
	for _, v := range planDown(available, recorded, target) {
		if err := exec.apply(ctx, Down, v, verbose); err != nil {
			return err
		}
	}

	return nil
}

// Stamp records a version as applied without executing its unit, e.g. when
// the target schema was produced out-of-band. Version Latest stamps the
// highest available up version.
func (e *Engine) Stamp(ctx context.Context, version int) error {
	if version < 0 {
		available, err := e.store.Available(Up)
		if err != nil {
			return err
		}
		if len(available) == 0 {
			return fmt.Errorf("no migrations available to stamp")
		}
		version = available[len(available)-1]
	}

	if err := e.ledger.insertVersion(ctx, version); err != nil {
		return err
	}
	e.logger(fmt.Sprintf("stamped version %d", version))
	return nil
}

// Remove deletes a version from the ledger, so its unit can be applied
// again by a later Up. Only the currently highest applied version should
// be removed; removing an intermediate one leaves the ledger inconsistent
// with the ascending order the planner assumes.
func (e *Engine) Remove(ctx context.Context, version int) error {
	if err := e.ledger.deleteVersion(ctx, version); err != nil {
		return err
	}
	e.logger(fmt.Sprintf("removed version %d", version))
	return nil
}

// CurrentVersion reports the highest applied version. ok is false when the
// ledger table is absent or holds no rows.
func (e *Engine) CurrentVersion(ctx context.Context) (version int, ok bool) {
	return e.ledger.currentVersion(ctx)
}

// Option controls some aspects of engine behavior.
type Option func(*Engine)

// WithLedgerTable tells New to use the provided name for the version
// ledger table instead of "db_version".
func WithLedgerTable(name string) Option {
	return func(e *Engine) {
		e.table = name
	}
}

// WithLogger tells New to use the provided logger for internal logging.
func WithLogger(logger Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScripts tells New to consider the registered Go migration units
// during discovery and execution.
func WithScripts(scripts *Scripts) Option {
	return func(e *Engine) {
		e.scripts = scripts
	}
}
