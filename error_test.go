package sqlmigrate

import (
	"fmt"
	"testing"
)

func TestDriverError(t *testing.T) {
	uerr := fmt.Errorf("some driver error")
	err := &DriverError{"you won't believe what happened next", uerr}

	got := err.Error()
	want := "you won't believe what happened next: some driver error"
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
	got = UnderlyingError(err).Error()
	want = "some driver error"
	if got != want {
		t.Errorf("underlying error does not match\ngot  %q\nwant %q\n", got, want)
	}
	got = UnderlyingError(fmt.Errorf("not DriverError")).Error()
	want = "not DriverError"
	if got != want {
		t.Errorf("underlying error returned something wrong\ngot  %q\nwant %q\n", got, want)
	}
}

func TestUnitExecutionError(t *testing.T) {
	uerr := fmt.Errorf("syntax error near CREATE")
	unit := Unit{Direction: Up, Version: 3, Type: TypeSQL, Path: "migrations/up/3.sql"}
	err := &UnitExecutionError{unit, &DriverError{"failed to execute SQL script migrations/up/3.sql", uerr}}

	got := err.Error()
	want := "migration up/3.sql failed: failed to execute SQL script migrations/up/3.sql: syntax error near CREATE"
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
	// UnderlyingError digs through the unit wrapper down to the driver error
	if got, want := UnderlyingError(err).Error(), "syntax error near CREATE"; got != want {
		t.Errorf("underlying error does not match\ngot  %q\nwant %q\n", got, want)
	}
}

func TestVersionNotFoundError(t *testing.T) {
	err := &VersionNotFoundError{Direction: Up, Version: 4}
	got := err.Error()
	want := "no up migration found for version 4"
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
}

func TestUnsupportedTypeError(t *testing.T) {
	err := &UnsupportedTypeError{"py"}
	got := err.Error()
	want := `unsupported migration type "py"`
	if got != want {
		t.Errorf("Error messages did not match\ngot  %q\nwant %q\n", got, want)
	}
}
