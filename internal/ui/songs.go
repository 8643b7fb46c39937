package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/services"
)

// SongManager lists the songs of one album and edits them through a single draft.
//
// The draft serves both create and update; a non-zero editing id selects update.
//
//	Idle → Editing (Edit) → Idle (Cancel or successful update)
//	Idle → Idle (successful add, draft reset)
type SongManager struct {
	ctx     context.Context
	catalog services.SongService
	logger  *log.Logger
	status  *status
	keys    keyMap

	album         models.Album
	songs         []models.Song
	newSong       models.SongDraft
	editingSongID models.ID

	list  list.Model
	draft textinput.Model
}

// NewSongManager creates a SongManager with no album.
func NewSongManager(ctx context.Context, catalog services.SongService, logger *log.Logger, st *status) *SongManager {
	draft := textinput.New()
	draft.Placeholder = "Song title"
	draft.Prompt = "♪ "
	draft.Cursor.SetMode(cursor.CursorStatic)

	return &SongManager{
		ctx:     ctx,
		catalog: catalog,
		logger:  logger,
		status:  st,
		keys:    newKeyMap(),
		list:    newList("Songs"),
		draft:   draft,
	}
}

// AlbumID returns the targeted album.
func (s *SongManager) AlbumID() models.ID { return s.album.ID }

// Songs returns the last applied song list.
func (s *SongManager) Songs() []models.Song { return s.songs }

// Draft returns the pending song shared by add and update.
func (s *SongManager) Draft() models.SongDraft { return s.newSong }

// EditingSongID returns the song being edited, or the zero ID.
func (s *SongManager) EditingSongID() models.ID { return s.editingSongID }

// Editing reports whether the draft targets an existing song.
func (s *SongManager) Editing() bool { return !s.editingSongID.IsZero() }

// SetSize fits the song list and draft input into a pane of w by h cells.
func (s *SongManager) SetSize(w, h int) {
	s.list.SetSize(w, h-3)
	s.draft.Width = w - 4
}

func (s *SongManager) selected() (models.Song, bool) {
	if item, ok := s.list.SelectedItem().(songItem); ok {
		return item.song, true
	}
	return models.Song{}, false
}

// SetAlbum targets album and fetches its songs. Re-selecting the current album does nothing.
func (s *SongManager) SetAlbum(album models.Album) tea.Cmd {
	if album.ID == s.album.ID {
		s.album = album
		return nil
	}
	s.album = album
	s.list.Title = fmt.Sprintf("Songs · %s", album.Title)
	return s.fetchSongs(album.ID, false)
}

// SetDraftTitle sets the draft title, as typing into the form does.
func (s *SongManager) SetDraftTitle(title string) {
	s.newSong.Title = title
	s.draft.SetValue(title)
}

// Save submits the draft: an update when editing, an add otherwise.
func (s *SongManager) Save() tea.Cmd {
	if s.Editing() {
		return s.UpdateSong()
	}
	return s.AddSong()
}

// AddSong posts the draft bound to the current album.
func (s *SongManager) AddSong() tea.Cmd {
	if s.album.ID.IsZero() {
		return nil
	}

	draft := s.newSong.ForAlbum(s.album.ID)
	ctx, catalog := s.ctx, s.catalog
	return func() tea.Msg {
		return songMutatedMsg(mutationAdd, "", catalog.AddSong(ctx, draft))
	}
}

// UpdateSong puts the draft to the song being edited.
func (s *SongManager) UpdateSong() tea.Cmd {
	if !s.Editing() {
		return nil
	}

	id, draft := s.editingSongID, s.newSong
	ctx, catalog := s.ctx, s.catalog
	return func() tea.Msg {
		return songMutatedMsg(mutationUpdate, id, catalog.UpdateSong(ctx, id, draft))
	}
}

// DeleteSong deletes song id. The draft and edit mode are left alone.
func (s *SongManager) DeleteSong(id models.ID) tea.Cmd {
	ctx, catalog := s.ctx, s.catalog
	return func() tea.Msg {
		return songMutatedMsg(mutationDelete, id, catalog.DeleteSong(ctx, id))
	}
}

// Edit loads song into the draft and enters edit mode.
func (s *SongManager) Edit(song models.Song) {
	s.editingSongID = song.ID
	s.SetDraftTitle(song.Title)
	s.refreshItems()
}

// Cancel leaves edit mode and clears the draft.
func (s *SongManager) Cancel() {
	s.editingSongID = ""
	s.resetDraft()
	s.refreshItems()
}

func (s *SongManager) resetDraft() {
	s.newSong = models.SongDraft{}
	s.draft.SetValue("")
}

func (s *SongManager) fetchSongs(albumID models.ID, notifyParent bool) tea.Cmd {
	ctx, catalog := s.ctx, s.catalog
	return func() tea.Msg {
		songs, err := catalog.Songs(ctx, albumID)
		return songsFetchedMsg(albumID, songs, err, notifyParent)
	}
}

// Update applies song messages. It returns the follow-up command, if any.
func (s *SongManager) Update(msg tea.Msg) tea.Cmd {
	m, ok := msg.(Msg)
	if !ok {
		return nil
	}

	switch m.kind {
	case MsgSongsFetched:
		return s.onSongsFetched(m.data.(songsFetched))
	case MsgSongMutated:
		return s.onSongMutated(m.data.(songMutated))
	}
	return nil
}

func (s *SongManager) onSongsFetched(res songsFetched) tea.Cmd {
	if res.err != nil {
		s.status.fail("failed to fetch songs", res.err, "album", res.albumID)
	} else {
		if res.albumID != s.album.ID {
			s.logger.Warn("applying song response for a different album", "response", res.albumID, "selected", s.album.ID)
		}
		s.songs = res.songs
		s.refreshItems()
	}

	if res.notifyParent {
		return emit(reloadAlbumsMsg())
	}
	return nil
}

func (s *SongManager) onSongMutated(res songMutated) tea.Cmd {
	if res.err != nil {
		s.status.fail(fmt.Sprintf("failed to %s song", res.op), res.err, "album", s.album.ID, "song", res.songID)
		return nil
	}

	s.logger.Debug("song mutated", "op", res.op, "album", s.album.ID, "song", res.songID)

	switch res.op {
	case mutationAdd:
		s.resetDraft()
	case mutationUpdate:
		s.editingSongID = ""
		s.resetDraft()
	}

	return s.fetchSongs(s.album.ID, true)
}

func (s *SongManager) refreshItems() {
	items := make([]list.Item, len(s.songs))
	for i, song := range s.songs {
		items[i] = songItem{song: song, editing: song.ID == s.editingSongID && s.Editing()}
	}
	s.list.SetItems(items)
}

// HandleListKey handles a key while the song list has focus.
func (s *SongManager) HandleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.edit):
		if song, ok := s.selected(); ok {
			s.Edit(song)
		}
		return nil
	case key.Matches(msg, s.keys.delete):
		if song, ok := s.selected(); ok {
			return s.DeleteSong(song.ID)
		}
		return nil
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return cmd
}

// HandleDraftKey handles a key while the draft input has focus.
func (s *SongManager) HandleDraftKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keys.enter):
		return s.Save()
	case key.Matches(msg, s.keys.cancel):
		s.Cancel()
		return nil
	}

	var cmd tea.Cmd
	s.draft, cmd = s.draft.Update(msg)
	s.newSong.Title = s.draft.Value()
	return cmd
}

func (s *SongManager) focusDraft(focused bool) {
	if focused {
		s.draft.Focus()
	} else {
		s.draft.Blur()
	}
}

// View renders the song list, or a placeholder, above the draft input.
func (s *SongManager) View() string {
	var b strings.Builder

	if len(s.songs) == 0 {
		b.WriteString(styles.title.Render(s.list.Title))
		b.WriteString("\n\n")
		b.WriteString(styles.help.Render(formatter.NoSongsMessage))
	} else {
		b.WriteString(s.list.View())
	}

	b.WriteString("\n\n")
	if s.Editing() {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Editing song #%s (enter to save, esc to cancel)", s.editingSongID)))
	} else {
		b.WriteString(styles.ok.Render("New song (enter to add)"))
	}
	b.WriteString("\n")
	b.WriteString(s.draft.View())

	return b.String()
}
