// Package tasks runs the import backend headlessly with real-time progress reporting.
//
// # Core Operations
//
// [Poller] provides:
//
//  1. [Poller.Run] : fetch logs and queue stats every interval until cancelled
//     - a log fetch failure is reported through the progress channel and logged
//     - a stats failure (or success=false) is only logged; the previous snapshot stands
//     - each successful stats fetch is stored as a [models.StatsSample] when a [Recorder] is set
//
//  2. [Poller.PollOnce] : a single fetch cycle
//
//  3. [Poller.Trigger] : POST a manual import and record a [models.TriggerRecord]
//
// # Progress Reporting
//
// The [ProgressUpdate] struct carries phase, cycle, message and optional data.
// Updates use select with default so a slow reader never stalls polling.
//
// # Recording
//
// The optional [Recorder] interface is satisfied by repositories.Recorder.
// Recording failures are logged and never interrupt polling.
package tasks
