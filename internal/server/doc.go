// Package server provides HTTP routing and middleware.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns, so path wildcards
// such as /song/update/{id} are available through [http.Request.PathValue].
//
// # Middleware
//
//   - [RequestLog] : logs method, path, status and duration with charmbracelet/log
//   - [RequireBearer] : rejects requests without the expected bearer token
//
// # Current Usage
//
// The client never serves HTTP itself. The router backs the in-memory album/song API in
// internal/testing, which exercises the HTTP adapter, the tasks engine, the TUI and the CLI
// against real requests.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
