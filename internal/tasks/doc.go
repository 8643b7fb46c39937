// Package tasks orchestrates album and song operations with real-time progress reporting.
//
// # Core Operations
//
// [Engine] wraps a [services.Catalog] and is shared by the CLI and the TUI:
//
//  1. Fetches : [Engine.Albums], [Engine.SearchAlbums], [Engine.Songs]
//
//  2. Mutations : [Engine.AddSong], [Engine.UpdateSong], [Engine.DeleteSong]
//
//  3. Write-then-refresh : [Engine.AddAndRefresh], [Engine.UpdateAndRefresh], [Engine.DeleteAndRefresh]
//     - Issues the mutation and stops on failure
//     - Re-fetches the album's songs, then the full album collection
//     - The album re-fetch runs even when the song re-fetch fails
//
//  4. [Engine.ExportAlbums] : concurrent per-album export to files
//     - Rate-limited song fetches feeding a worker pool
//     - Writes one file per album and a manifest
//
// # Progress Reporting
//
// All long-running operations accept an optional channel of [ProgressUpdate].
// Sends use select with default, so a slow or absent reader never blocks an operation.
//
// # Journaling
//
// The engine does not journal by itself. Backend calls are recorded by the HTTP adapter's
// services.RequestObserver, which the CLI wires to repositories.Journal.
package tasks
