package testing

import (
	"context"
	"sync"

	"github.com/desertthunder/crates/internal/models"
)

// MockCatalog is a test double for services.Catalog.
//
// Results come from the exported fields; every call is appended to Calls as "Method arg".
type MockCatalog struct {
	mu    sync.Mutex
	Calls []string

	AlbumList  []models.Album
	SearchList []models.Album
	SongList   map[models.ID][]models.Song

	AlbumsErr error
	SearchErr error
	SongsErr  error
	AddErr    error
	UpdateErr error
	DeleteErr error
}

func (m *MockCatalog) called(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallLog returns a copy of the recorded calls.
func (m *MockCatalog) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.Calls...)
}

func (m *MockCatalog) Albums(ctx context.Context) ([]models.Album, error) {
	m.called("Albums")
	if m.AlbumsErr != nil {
		return nil, m.AlbumsErr
	}
	return m.AlbumList, nil
}

func (m *MockCatalog) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	m.called("SearchAlbums " + query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.SearchList, nil
}

func (m *MockCatalog) Songs(ctx context.Context, albumID models.ID) ([]models.Song, error) {
	m.called("Songs " + albumID.String())
	if m.SongsErr != nil {
		return nil, m.SongsErr
	}
	return m.SongList[albumID], nil
}

func (m *MockCatalog) AddSong(ctx context.Context, draft models.SongDraft) error {
	m.called("AddSong " + draft.Title)
	return m.AddErr
}

func (m *MockCatalog) UpdateSong(ctx context.Context, id models.ID, draft models.SongDraft) error {
	m.called("UpdateSong " + id.String())
	return m.UpdateErr
}

func (m *MockCatalog) DeleteSong(ctx context.Context, id models.ID) error {
	m.called("DeleteSong " + id.String())
	return m.DeleteErr
}
