// Package repositories implements SQLite persistence for the request journal.
//
// The journal is the client's diagnostic log: every call the HTTP adapter makes to the
// backend is appended as a [models.RequestRecord], so failed mutations that the views
// swallow can still be found afterwards with `crates history --failed`.
//
// Key Implementations:
//   - [RequestRepository] : append-only request records with filtering and pruning
//   - [Journal] : adapts the repository to the services.RequestObserver hook
//
// Sequence numbers provide stable, human-readable ordering (e.g., request #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
