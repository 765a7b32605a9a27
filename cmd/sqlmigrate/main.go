// Sqlmigrate is a cli tool for manual, numbered SQL schema migrations in
// PostgreSQL.
//
// Complete documentation is available at https://github.com/example/sqlmigrate/.
//
// Usage:
//
// 	sqlmigrate [arguments] <command>
//
// The commands are
//
// 	new [name]         scaffold the next pair of migration files
// 	up [version]       apply pending migrations up to version (default: latest)
// 	down <version>     revert applied migrations down to version
// 	stamp [version]    record a version as applied without running it (default: latest)
// 	remove <version>   forget a version, so its migration can run again
// 	version            print the current version and exit with it as status
//
// The arguments are
//
// 	-path         path to the migration files (default migrations)
// 	-table        name of the version ledger table (default db_version)
// 	-verbose      echo migration SQL before executing it
// 	-host         database hostname (default localhost)
// 	-port         database port (default 5432)
// 	-name         database name (default postgres)
// 	-user         database user (default postgres)
// 	-pass         database password (default empty)
// 	-timeout      connection timeout in seconds (default 10s)
// 	-sslmode      SSL mode (default disable - see [SSL modes])
// 	-sslcert      PEM encoded cert file location
// 	-sslkey       PEM encoded key file location
// 	-sslrootcert  PEM encoded root certificate file location
//
// Available SSL modes
//
// 	disable      no SSL
// 	require      always SSL (skip verification)
// 	verify-ca    always SSL (verify server cert was signed by a trusted CA)
// 	verify-full  always SSL (verify server cert matches hostname and was signed by a trusted CA)
package main

import (
	"os"
)

var usage = `
sqlmigrate is a manual schema migration runner for PostgreSQL.

Complete documentation is available at https://github.com/example/sqlmigrate/.

Usage:

	sqlmigrate [arguments] <command>

The commands are:

	new [name]         scaffold the next pair of migration files
	up [version]       apply pending migrations up to version (default: latest)
	down <version>     revert applied migrations down to version
	stamp [version]    record a version as applied without running it (default: latest)
	remove <version>   forget a version, so its migration can run again
	version            print the current version and exit with it as status

The arguments are:

	-path         path to the migration files (default migrations)
	-table        name of the version ledger table (default db_version)
	-verbose      echo migration SQL before executing it
	-host         database hostname (default localhost)
	-port         database port (default 5432)
	-name         database name (default postgres)
	-user         database user (default postgres)
	-pass         database password (default empty)
	-timeout      connection timeout in seconds (default 10s)
	-sslmode      SSL mode (default disable - see [SSL modes])
	-sslcert      PEM encoded cert file location
	-sslkey       PEM encoded key file location
	-sslrootcert  PEM encoded root certificate file location

Available SSL modes:

	disable      no SSL
	require      always SSL (skip verification)
	verify-ca    always SSL (verify server cert was signed by a trusted CA)
	verify-full  always SSL (verify server cert matches hostname and was signed by a trusted CA)
`[1:]

func main() {
	// main() is untestable --> do any work outside of main()
	os.Exit(ParseAndRun(os.Stdout, os.Stderr, os.Stdin, os.Args[1:]))
}
