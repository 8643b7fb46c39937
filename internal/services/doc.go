// Package services is the HTTP client adapter for the album/song REST backend.
//
// # Interfaces
//
// [AlbumService] and [SongService] describe the two resource endpoints; [Catalog] combines them.
// Views and the tasks engine depend on these interfaces, never on the HTTP implementation.
//
// # HTTP Implementation
//
// [CatalogService] maps each operation to one request under the configured API prefix:
//
//	GET  /album/all
//	GET  /album/search/{query}    query escaped as one path segment
//	GET  /song/all?albumId={id}
//	POST /song/add                {title, albumId}
//	PUT  /song/update/{id}        {title}
//	POST /song/delete/{id}
//
// It is a pass-through: nothing is cached and nothing is retried.
// An optional [golang.org/x/time/rate] limiter paces requests and an optional static
// bearer token is attached through an [oauth2.Transport].
//
// # Observing Requests
//
// A [RequestObserver] sees every completed call with its status and error.
// The CLI wires it to the sqlite request journal.
//
// # Raw Access
//
// [APIService] sends arbitrary GET/POST/PUT requests and returns the body untouched, for debugging.
//
// # Error Handling
//
// Services use typed errors from shared package:
//   - [shared.ErrAPIRequest] : transport failure or non-2xx status ([StatusError])
//   - [shared.ErrNotFound] : 404 response
//   - [shared.ErrInvalidInput] : empty search query
//   - [shared.ErrMissingArgument] : missing album or song id
package services
