package ui

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
)

// albumGrid renders the albums it is given and forwards selection upward.
//
// It holds no album state of its own beyond the list items.
type albumGrid struct {
	list list.Model
}

func newAlbumGrid() albumGrid {
	return albumGrid{list: newList("Albums")}
}

// SetAlbums replaces the rendered albums, preserving order.
func (g *albumGrid) SetAlbums(albums []models.Album) tea.Cmd {
	items := make([]list.Item, len(albums))
	for i, a := range albums {
		items[i] = albumItem{album: a}
	}
	return g.list.SetItems(items)
}

func (g *albumGrid) SetSize(w, h int) { g.list.SetSize(w, h) }

// Selected returns the highlighted album.
func (g *albumGrid) Selected() (models.Album, bool) {
	if item, ok := g.list.SelectedItem().(albumItem); ok {
		return item.album, true
	}
	return models.Album{}, false
}

// Select emits an [MsgAlbumSelected] for the highlighted album.
func (g *albumGrid) Select() tea.Cmd {
	album, ok := g.Selected()
	if !ok {
		return nil
	}
	return emit(albumSelectedMsg(album))
}

func (g *albumGrid) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	g.list, cmd = g.list.Update(msg)
	return cmd
}

func (g *albumGrid) View() string {
	if len(g.list.Items()) == 0 {
		return styles.title.Render(g.list.Title) + "\n\n" + styles.help.Render(formatter.NoAlbumsMessage)
	}
	return g.list.View()
}
