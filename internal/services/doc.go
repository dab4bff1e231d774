// Package services implements the HTTP client side of the import dashboard.
//
// # Raw Client
//
// [APIService] issues GET/POST requests against the backend base URL and returns an [APIResponse]
// with the status, headers, body and (when the body parses) decoded JSON. Every request carries its own
// timeout (5s by default); a deadline expiry surfaces as [shared.ErrTimeout] through the same error path
// as any other transport failure.
//
// # Import Client
//
// [ImportService] wraps the raw client with the three dashboard endpoints:
//   - GET  /api/import-logs    → [ImportService.FetchLogs]
//   - GET  /api/queue-stats    → [ImportService.FetchQueueStats]
//   - POST /api/trigger-import → [ImportService.TriggerImport]
//
// Manual triggers pass through a [rate.Limiter] spaced by trigger.min_interval.
//
// # Error Handling
//
//   - [shared.ErrTimeout] : request exceeded its timeout
//   - [shared.ErrAPIRequest] : non-2xx status
//   - [shared.ErrInvalidResponse] : body did not decode
//   - [shared.ErrRateLimited] : trigger rejected locally
//
// No request is retried; callers poll again on their own schedule.
package services
