// Package server provides HTTP routing, middleware, and a mock import backend for local development.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// Bundled middleware:
//   - [RequestLogger] : one structured log line per request
//   - [Recoverer] : panics become 500 responses
//   - [CORS] : lets a browser front end on another origin call the API
//
// # Mock Backend
//
// [MockAPI] answers the endpoints the dashboard polls:
//
//	GET  /api/import-logs    → { data: ImportLogEntry[] } newest first
//	GET  /api/queue-stats    → { success, stats: { waiting, active, completed, failed } }
//	POST /api/trigger-import → queues one job per feed
//
// Queued jobs become log entries when [MockAPI.Process] runs; the serve command calls it on a ticker.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
