// Package repositories implements SQLite persistence for the dashboard's audit trail.
//
// Each repository is append-only with atomic sequence generation for human-readable ordering.
//
// Key Implementations:
//   - [StatsSampleRepository] : queue stats snapshots captured by the headless poller
//   - [TriggerRepository] : outcomes of manual import triggers
//   - [Recorder] : adapts both repositories to the poller's recording interface
//
// Sequence numbers provide stable ordering (e.g., sample #42, trigger #15) independent of UUIDs and timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
//
// Nothing here feeds the dashboard display; records are read back only by the history command.
package repositories
