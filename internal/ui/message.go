package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crates/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgAlbumsFetched MsgKind = iota
	MsgAlbumSelected
	MsgSongsFetched
	MsgSongMutated
	MsgReloadAlbums
)

// Kind reports which constructor built the message.
func (m Msg) Kind() MsgKind { return m.kind }

type albumsFetched struct {
	query  string
	albums []models.Album
	err    error
}

type songsFetched struct {
	albumID      models.ID
	songs        []models.Song
	err          error
	notifyParent bool
}

// mutation identifies a song write.
type mutation int

const (
	mutationAdd mutation = iota
	mutationUpdate
	mutationDelete
)

func (op mutation) String() string {
	switch op {
	case mutationAdd:
		return "add"
	case mutationUpdate:
		return "update"
	case mutationDelete:
		return "delete"
	default:
		return ""
	}
}

type songMutated struct {
	op     mutation
	songID models.ID
	err    error
}

// albumsFetchedMsg is the constructor for [MsgAlbumsFetched]. An empty query means the full collection.
func albumsFetchedMsg(query string, albums []models.Album, err error) Msg {
	return Msg{kind: MsgAlbumsFetched, data: albumsFetched{query, albums, err}}
}

// albumSelectedMsg is the constructor for [MsgAlbumSelected]
func albumSelectedMsg(album models.Album) Msg {
	return Msg{kind: MsgAlbumSelected, data: album}
}

// songsFetchedMsg is the constructor for [MsgSongsFetched]
func songsFetchedMsg(albumID models.ID, songs []models.Song, err error, notifyParent bool) Msg {
	return Msg{kind: MsgSongsFetched, data: songsFetched{albumID, songs, err, notifyParent}}
}

// songMutatedMsg is the constructor for [MsgSongMutated]
func songMutatedMsg(op mutation, songID models.ID, err error) Msg {
	return Msg{kind: MsgSongMutated, data: songMutated{op, songID, err}}
}

// reloadAlbumsMsg is the constructor for [MsgReloadAlbums]
func reloadAlbumsMsg() Msg {
	return Msg{kind: MsgReloadAlbums}
}

func emit(msg Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
