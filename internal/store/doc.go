// Package store provides SQLite-backed persistence for navsplit.
//
// It holds two things:
//   - Entities: one row per player, sport, activity or session, served to
//     the features through Provider, which satisfies provider.Provider
//   - Journal: the steps of every recorded scenario run, with the seed and
//     final state fingerprints used to verify deterministic replay
//
// # Ordering
//
// Every query orders by a logical seq column and then by id with BINARY
// collation. Entities keep the seq they were first saved with, so an
// upsert replaces a row in place and observers see a stable order.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Stored bodies are canonical JSON (model.MarshalCanonical).
package store
