// Package models defines the import dashboard's entities.
//
// The package contains two categories of types:
//
// 1. API payloads, owned by the import backend and only cached for display:
//   - [ImportLogEntry] : Outcome of one import run (new/updated/failed counts)
//   - [QueueStats] : Snapshot of the background job queue
//   - [LogsResponse], [StatsResponse], [TriggerResponse] : Response envelopes
//
// 2. Audit records persisted locally by the CLI:
//   - [StatsSample] : Queue stats captured by the headless poller
//   - [TriggerRecord] : Outcome of a manual import trigger
//
// Audit records implement [Record]; the [Repository] interface defines their append-only data access.
package models
