package sqlmigrate

import (
	"context"
	"database/sql"
	"sort"
)

// A Script is a migration unit implemented in Go instead of raw SQL.
//
// A Script owns its transaction handling and its ledger bookkeeping: an up
// script must insert its version into the version table and a down script
// must delete it, committing or rolling back on its own. This mirrors the
// convention for SQL artifacts, whose statements maintain the version
// table themselves.
type Script interface {
	Run(ctx context.Context, db *sql.DB) error
}

// ScriptFunc adapts a plain func to the Script interface.
type ScriptFunc func(ctx context.Context, db *sql.DB) error

// Run calls f.
func (f ScriptFunc) Run(ctx context.Context, db *sql.DB) error { return f(ctx, db) }

// Scripts is a registry of migration units implemented in Go, keyed by
// direction and version. Registered versions take part in discovery next
// to .sql artifacts; a .sql artifact with the same version wins.
type Scripts struct {
	units map[Direction]map[int]Script
}

// NewScripts returns an empty script registry.
func NewScripts() *Scripts {
	return &Scripts{units: make(map[Direction]map[int]Script)}
}

// Register adds a script for one direction and version. Registering the
// same version twice replaces the earlier script.
func (s *Scripts) Register(direction Direction, version int, script Script) {
	if s.units[direction] == nil {
		s.units[direction] = make(map[int]Script)
	}
	s.units[direction][version] = script
}

func (s *Scripts) lookup(direction Direction, version int) (Script, bool) {
	script, ok := s.units[direction][version]
	return script, ok
}

// versions returns the sorted registered versions for a direction.
func (s *Scripts) versions(direction Direction) []int {
	versions := make([]int, 0, len(s.units[direction]))
	for v := range s.units[direction] {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	return versions
}
