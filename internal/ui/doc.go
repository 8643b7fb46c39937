// Package ui implements the interactive album and song manager using bubbletea's Elm architecture.
//
// The screen is composed of three parts owned by the root [Model]:
//  1. Search box : typing updates the search text, Enter runs a search, clearing it reloads everything
//  2. Album list : stateless rendering of the albums in backend order, Enter selects one
//  3. [SongManager] : the selected album's songs and a single draft used to add or edit a song
//
// Every network call runs as a tea.Cmd and comes back as a [Msg]. Mutations follow a strict
// write-then-refresh order: the write, then the album's songs, then a reload of all albums.
// Nothing is cached between fetches and in-flight requests are never cancelled, so the last
// response to arrive wins.
//
// Failures are logged (and journaled by the HTTP adapter) without interrupting the view.
// When Options.ShowErrors is set the most recent failure is also shown on the status line.
package ui
