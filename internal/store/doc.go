// Package store provides the embedded relational store for gymdesk: one
// SQLite image holding the six application tables.
//
//   - Subscribers: members, with attendance as a JSON TEXT column
//   - Products / Sales: inventory and immutable sale records
//   - Expenses / Individual classes: plain CRUD rows
//   - Settings: key/value application preferences
//
// # Invariants
//
// Status is never stored. Only the frozen override flag persists;
// active/expired are derived from expiry_date at read time, so a stale
// stored status can never disagree with the derived one.
//
// Row mapping is by named column list: each table declares its column list
// exactly once next to its scan function. Adding or reordering physical
// columns cannot silently shift entity fields.
//
// Selling is atomic. SellProduct runs a single transaction whose
// conditional UPDATE both checks and claims stock, so quantity never goes
// negative and a sale row exists iff its decrement happened.
//
// # Image lifecycle
//
// The live image is in-memory (OpenMemory). image.go provides the backup
// primitives (BackupTo / RestoreFrom / VerifyImage) that the persistence
// adapter uses for save, export and import. Backup reads never mutate the
// source image.
//
// # Database configuration
//
//   - Single connection: one writer, and the memory image lives on it
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON (sales.product_id is deliberately not a FK)
package store
