// Package sqlmigrate applies and reverts hand-authored, numbered SQL schema
// migrations, tracking applied state in a version table.
//
//	https://github.com/example/sqlmigrate
//
// Features
//
// • ordered, numbered migration units for both directions (up and down)
//
// • one transaction per unit, no partial application within a unit
//
// • stale ledger entries purged when artifacts disappear from the tree
//
// • stamping and removing versions without executing any SQL
//
// • migration units written in Go via a script registry
//
// Migration artifacts live in two direction directories below a base path,
// up/ and down/, named <version>.sql. Each unit maintains the version table
// itself: an up unit ends with an INSERT into the version table, a down
// unit with the matching DELETE. Scaffold generates that boilerplate.
//
// This package exists because generated schemas cannot always be expressed
// through an ORM (composite or partial indexes with length modifiers,
// foreign keys absent from the mapping, vendor-specific DDL); such schemas
// evolve through plain SQL with deterministic bookkeeping instead.
//
// No assumption is made on the provided database driver, the only runtime
// dependency is `sql.DB`.
package sqlmigrate
