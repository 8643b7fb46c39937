package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/services"
)

// focusArea is the pane receiving key presses.
type focusArea int

const (
	focusSearch focusArea = iota
	focusAlbums
	focusSongs
	focusDraft
)

// Options configures a [Model].
type Options struct {
	Logger     *log.Logger // Defaults to a discarding logger
	ShowErrors bool        // Show the latest failure on the status line
}

// Model is the root coordinator: it owns the search text, the album list, the reload flag
// and the selected album, and composes the album list with the [SongManager].
type Model struct {
	ctx     context.Context
	catalog services.Catalog
	logger  *log.Logger
	status  *status

	searchValue     string
	reload          bool
	albums          []models.Album
	selectedAlbumID models.ID

	search textinput.Model
	grid   albumGrid
	songs  *SongManager
	focus  focusArea

	width  int
	height int
	help   help.Model
	keys   keyMap
}

// NewModel creates a TUI model over catalog. The reload flag starts set so Init fetches every album.
func NewModel(ctx context.Context, catalog services.Catalog, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	search := textinput.New()
	search.Placeholder = "Search albums"
	search.Prompt = "⌕ "
	search.Cursor.SetMode(cursor.CursorStatic)
	search.Focus()

	return &Model{
		ctx:     ctx,
		catalog: catalog,
		logger:  logger,
		status:  &status{logger: logger, showErrors: opts.ShowErrors},
		reload:  true,
		search:  search,
		grid:    newAlbumGrid(),
		focus:   focusSearch,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// SearchValue returns the committed search text.
func (m *Model) SearchValue() string { return m.searchValue }

// Albums returns the albums currently listed.
func (m *Model) Albums() []models.Album { return m.albums }

// SelectedAlbumID returns the album the song manager targets, or the zero ID.
func (m *Model) SelectedAlbumID() models.ID { return m.selectedAlbumID }

// SongManager returns the song manager, nil until an album is selected.
func (m *Model) SongManager() *SongManager { return m.songs }

// Reloading reports whether a full album reload is pending.
func (m *Model) Reloading() bool { return m.reload }

// LastError returns the most recent failure, cleared by a successful album fetch.
func (m *Model) LastError() error { return m.status.last }

// Focused names the pane receiving key presses.
func (m *Model) Focused() string { return [...]string{"search", "albums", "songs", "draft"}[m.focus] }

// Init fetches the full album collection.
func (m *Model) Init() tea.Cmd {
	return m.applyReload()
}

// applyReload fetches all albums and clears the flag when the reload flag is set.
func (m *Model) applyReload() tea.Cmd {
	if !m.reload {
		return nil
	}
	m.reload = false
	return m.fetchAlbums("")
}

// ReloadNow clears the search text and reloads every album.
func (m *Model) ReloadNow() tea.Cmd {
	m.reload = true
	m.searchValue = ""
	m.search.SetValue("")
	return m.applyReload()
}

// SetSearch records a change of the search text. Empty or whitespace-only text reloads everything.
func (m *Model) SetSearch(value string) tea.Cmd {
	m.searchValue = value
	if m.search.Value() != value {
		m.search.SetValue(value)
	}

	if strings.TrimSpace(value) == "" {
		return m.ReloadNow()
	}
	return nil
}

// Submit runs one search with the current text, or reloads when the text is blank.
func (m *Model) Submit() tea.Cmd {
	if strings.TrimSpace(m.searchValue) == "" {
		return m.ReloadNow()
	}
	return m.fetchAlbums(m.searchValue)
}

// SelectAlbum targets the song manager at album, creating it on first selection.
func (m *Model) SelectAlbum(album models.Album) tea.Cmd {
	m.selectedAlbumID = album.ID
	if m.songs == nil {
		m.songs = NewSongManager(m.ctx, m.catalog, m.logger.With("component", "songs"), m.status)
		m.resize()
	}
	return m.songs.SetAlbum(album)
}

func (m *Model) fetchAlbums(query string) tea.Cmd {
	ctx, catalog := m.ctx, m.catalog
	return func() tea.Msg {
		if query == "" {
			albums, err := catalog.Albums(ctx)
			return albumsFetchedMsg("", albums, err)
		}
		albums, err := catalog.SearchAlbums(ctx, query)
		return albumsFetchedMsg(query, albums, err)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case Msg:
		return m, m.handleMsg(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) tea.Cmd {
	switch msg.kind {
	case MsgAlbumsFetched:
		res := msg.data.(albumsFetched)
		if res.err != nil {
			if res.query == "" {
				m.status.fail("failed to fetch albums", res.err)
			} else {
				m.status.fail("failed to search albums", res.err, "query", res.query)
			}
			return nil
		}
		m.logger.Debug("albums fetched", "query", res.query, "count", len(res.albums))
		m.status.clear()
		m.albums = res.albums
		return m.grid.SetAlbums(res.albums)

	case MsgAlbumSelected:
		return m.SelectAlbum(msg.data.(models.Album))

	case MsgReloadAlbums:
		return m.ReloadNow()

	case MsgSongsFetched, MsgSongMutated:
		if m.songs == nil {
			return nil
		}
		return m.songs.Update(msg)
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.exit) {
		return tea.Quit
	}
	if key.Matches(msg, m.keys.focus) {
		m.cycleFocus()
		return nil
	}

	typing := m.focus == focusSearch || m.focus == focusDraft
	if !typing && key.Matches(msg, m.keys.quit) {
		return tea.Quit
	}

	switch m.focus {
	case focusSearch:
		if key.Matches(msg, m.keys.enter) {
			return m.Submit()
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			return tea.Batch(cmd, m.SetSearch(after))
		}
		return cmd

	case focusAlbums:
		switch {
		case key.Matches(msg, m.keys.enter):
			return m.grid.Select()
		case key.Matches(msg, m.keys.reload):
			return m.ReloadNow()
		}
		return m.grid.Update(msg)

	case focusSongs:
		cmd := m.songs.HandleListKey(msg)
		if m.songs.Editing() && key.Matches(msg, m.keys.edit) {
			m.setFocus(focusDraft)
		}
		return cmd

	case focusDraft:
		return m.songs.HandleDraftKey(msg)
	}
	return nil
}

// cycleFocus moves to the next pane, skipping the song panes until an album is selected.
func (m *Model) cycleFocus() {
	next := m.focus + 1
	if next > focusDraft || (m.songs == nil && next > focusAlbums) {
		next = focusSearch
	}
	m.setFocus(next)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
	if m.songs != nil {
		m.songs.focusDraft(f == focusDraft)
	}
}

func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	paneHeight := max(m.height-10, 5)
	m.grid.SetSize(m.width/2-4, paneHeight)
	if m.songs != nil {
		m.songs.SetSize(m.width/2-4, paneHeight)
	}
	m.search.Width = m.width - 8
}

// View renders the search box, the album list, the song manager and the status line.
func (m *Model) View() string {
	header := styles.title.Render("crates") + "  " + styles.help.Render(fmt.Sprintf("%d albums", len(m.albums)))
	search := styles.Panel(m.search.View(), m.focus == focusSearch)

	panes := []string{styles.Panel(m.grid.View(), m.focus == focusAlbums)}
	if m.songs != nil {
		panes = append(panes, styles.Panel(m.songs.View(), m.focus == focusSongs || m.focus == focusDraft))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, panes...)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		search,
		body,
		m.status.View(),
		m.help.ShortHelpView(m.helpKeys()),
	)
}

func (m *Model) helpKeys() []key.Binding {
	switch m.focus {
	case focusAlbums:
		return []key.Binding{m.keys.enter, m.keys.reload, m.keys.focus, m.keys.quit}
	case focusSongs:
		return []key.Binding{m.keys.edit, m.keys.delete, m.keys.focus, m.keys.quit}
	case focusDraft:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
			m.keys.cancel, m.keys.focus,
		}
	default:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
			m.keys.focus,
		}
	}
}
