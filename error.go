package sqlmigrate

import "strconv"

// DriverError records an original sql driver error and supporting info that caused it.
type DriverError struct {
	// Info contains supporting info
	Info string

	// Err is the original (possibly driver-specific) error
	Err error
}

func (e *DriverError) Error() string { return e.Info + ": " + e.Err.Error() }

func (e *DriverError) Unwrap() error { return e.Err }

// VersionNotFoundError reports a requested version with no matching
// migration unit in the given direction. The operation is aborted before
// anything executes.
type VersionNotFoundError struct {
	Direction Direction
	Version   int
}

func (e *VersionNotFoundError) Error() string {
	return "no " + string(e.Direction) + " migration found for version " + strconv.Itoa(e.Version)
}

// UnitExecutionError reports a migration unit whose execution or commit
// failed. The unit's transaction was rolled back and the remaining plan
// aborted; already committed units stay committed.
type UnitExecutionError struct {
	Unit Unit
	Err  error
}

func (e *UnitExecutionError) Error() string {
	return "migration " + e.Unit.Name() + " failed: " + e.Err.Error()
}

func (e *UnitExecutionError) Unwrap() error { return e.Err }

// UnsupportedTypeError reports a migration unit type that cannot be
// scaffolded.
type UnsupportedTypeError struct {
	Ext string
}

func (e *UnsupportedTypeError) Error() string {
	return "unsupported migration type " + strconv.Quote(e.Ext)
}

// UnderlyingError returns the underlying driver error from DriverError or
// UnitExecutionError.
func UnderlyingError(err error) error {
	switch err := err.(type) {
	case *DriverError:
		return err.Err
	case *UnitExecutionError:
		return UnderlyingError(err.Err)
	}
	return err
}
