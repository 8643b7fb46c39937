package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/crates/internal/models"
)

var (
	_ list.Item = albumItem{}
	_ list.Item = songItem{}
)

// albumItem wraps [models.Album] to implement [list.Item].
type albumItem struct {
	album models.Album
}

func (i albumItem) FilterValue() string { return i.album.Title }
func (i albumItem) Title() string       { return i.album.Title }
func (i albumItem) Description() string { return fmt.Sprintf("#%s", i.album.ID) }

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song    models.Song
	editing bool
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	if i.editing {
		return fmt.Sprintf("#%s • editing", i.song.ID)
	}
	return fmt.Sprintf("#%s", i.song.ID)
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = styles.title
	return l
}
