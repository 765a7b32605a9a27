package sqlmigrate

import (
	"strconv"
	"strings"
)

// Direction selects whether migrations are applied or reverted.
type Direction string

const (
	// Up applies migrations forward, in ascending version order.
	Up Direction = "up"
	// Down reverts applied migrations, in descending version order.
	Down Direction = "down"
)

// UnitType discriminates between raw SQL artifacts and registered Go scripts.
type UnitType int

const (
	// TypeSQL marks a unit backed by a .sql artifact on disk.
	TypeSQL UnitType = iota
	// TypeScript marks a unit backed by a Script registered in code.
	TypeScript
)

const (
	extSQL    = "sql"
	extScript = "script"
)

// A Unit is one versioned migration step in one direction.
type Unit struct {
	Direction Direction
	Version   int
	Type      UnitType

	// Path is the artifact location for SQL units; empty for script units.
	Path string
}

// Name returns the artifact-style name of the unit, e.g. "up/42.sql".
func (u Unit) Name() string {
	ext := extSQL
	if u.Type == TypeScript {
		ext = extScript
	}
	return string(u.Direction) + "/" + strconv.Itoa(u.Version) + "." + ext
}

// parseVersion extracts the integer version from an artifact name of the
// form <version>.<ext>. ok is false for names not following that scheme,
// e.g. directory placeholders such as .gitkeep.
func parseVersion(name string) (version int, ext string, ok bool) {
	prefix, ext, found := strings.Cut(name, ".")
	if !found {
		return 0, "", false
	}
	v, err := strconv.Atoi(prefix)
	if err != nil || v < 0 {
		return 0, "", false
	}
	return v, ext, true
}
