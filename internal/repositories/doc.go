// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository holds a [*sql.DB] and runs every statement under a short
// context timeout. SQLite constraint failures are translated into the shared
// error taxonomy: UNIQUE violations become [shared.ErrConflict] and missing rows
// become [shared.ErrNotFound].
//
// Key Implementations:
//   - [UserRepository] : accounts with email-based lookups
//   - [SessionRepository] : session rows backing signed tokens
//   - [BookRepository] : per-user book lists, always scoped to the owner
//   - [ActivityRepository] : append-only activity feed
//
// Sequence numbers provide a strict tiebreaker for "newest first" ordering when timestamps collide.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
