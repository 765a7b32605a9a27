package main

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lib/pq"
)

func logCloser(c io.Closer, l *log.Logger) {
	if err := c.Close(); err != nil {
		l.Printf("failed to close handle: %+v", err)
	}
}

// formatPqError renders the diagnostic fields of a PostgreSQL error. The
// position field in particular pinpoints the failing statement inside a
// migration unit, which a bare error string would bury.
func formatPqError(err error) string {
	e, ok := err.(*pq.Error)
	if !ok {
		return err.Error()
	}

	var msg strings.Builder
	fields := []struct {
		label string
		value string
	}{
		{"Severity", e.Severity},
		{"Error Code", fmt.Sprintf("%s (%s)", e.Code, e.Code.Name())},
		{"Message", e.Message},
		{"Detail", e.Detail},
		{"Hint", e.Hint},
		{"Position", e.Position},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		fmt.Fprintf(&msg, "%-11s: %s\n", field.label, field.value)
	}

	return msg.String()
}
