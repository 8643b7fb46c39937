// Package models defines domain entities and persistence interfaces for the crates album manager.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): transient copies of backend records, never a source of truth
//   - [Album] : top-level grouping with identifier and title
//   - [Song] : child entity owned by exactly one album
//   - [SongDraft] : in-progress song record shared by the create and update flows
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [RequestRecord] : one backend call in the local request journal
//
// Identifiers are opaque. [ID] accepts JSON numbers and strings and writes them back verbatim.
//
// All persistent entities implement the [Model] interface providing ID, timestamps and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
