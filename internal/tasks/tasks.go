// package tasks implements album and song operations shared by the CLI and the TUI.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/services"
	"github.com/desertthunder/crates/internal/shared"
)

var _ services.Catalog = (*Engine)(nil)

// RefreshResult holds the lists re-fetched after a mutation.
//
// Songs is nil when no album was given or the song re-fetch failed.
type RefreshResult struct {
	AlbumID  models.ID
	Songs    []models.Song
	Albums   []models.Album
	SongsErr error
}

// Engine performs catalog operations and the write-then-refresh sequence.
//
// It satisfies [services.Catalog], so views can use it in place of the HTTP adapter.
type Engine struct {
	catalog services.Catalog
	logger  *log.Logger
}

// NewEngine creates an Engine over catalog. A nil logger discards output.
func NewEngine(catalog services.Catalog, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{catalog: catalog, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) ready() error {
	if e.catalog == nil {
		return fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// Albums retrieves all albums in backend order.
func (e *Engine) Albums(ctx context.Context) ([]models.Album, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	albums, err := e.catalog.Albums(ctx)
	if err != nil {
		e.logger.Error("failed to fetch albums", "error", err)
		return nil, err
	}

	e.logger.Debug("fetched albums", "count", len(albums))
	return albums, nil
}

// SearchAlbums retrieves albums matching query.
func (e *Engine) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	albums, err := e.catalog.SearchAlbums(ctx, query)
	if err != nil {
		e.logger.Error("failed to search albums", "query", query, "error", err)
		return nil, err
	}

	e.logger.Debug("searched albums", "query", query, "count", len(albums))
	return albums, nil
}

// Songs retrieves the songs of albumID.
func (e *Engine) Songs(ctx context.Context, albumID models.ID) ([]models.Song, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	songs, err := e.catalog.Songs(ctx, albumID)
	if err != nil {
		e.logger.Error("failed to fetch songs", "album", albumID, "error", err)
		return nil, err
	}

	e.logger.Debug("fetched songs", "album", albumID, "count", len(songs))
	return songs, nil
}

// AddSong creates a song from draft.
func (e *Engine) AddSong(ctx context.Context, draft models.SongDraft) error {
	if err := e.ready(); err != nil {
		return err
	}

	if err := e.catalog.AddSong(ctx, draft); err != nil {
		e.logger.Error("failed to add song", "album", draft.AlbumID, "title", draft.Title, "error", err)
		return err
	}

	e.logger.Info("added song", "album", draft.AlbumID, "title", draft.Title)
	return nil
}

// UpdateSong sets the title of song id from draft.
func (e *Engine) UpdateSong(ctx context.Context, id models.ID, draft models.SongDraft) error {
	if err := e.ready(); err != nil {
		return err
	}

	if err := e.catalog.UpdateSong(ctx, id, draft); err != nil {
		e.logger.Error("failed to update song", "id", id, "error", err)
		return err
	}

	e.logger.Info("updated song", "id", id, "title", draft.Title)
	return nil
}

// DeleteSong removes song id.
func (e *Engine) DeleteSong(ctx context.Context, id models.ID) error {
	if err := e.ready(); err != nil {
		return err
	}

	if err := e.catalog.DeleteSong(ctx, id); err != nil {
		e.logger.Error("failed to delete song", "id", id, "error", err)
		return err
	}

	e.logger.Info("deleted song", "id", id)
	return nil
}

// Refresh re-fetches the songs of albumID, then all albums.
//
// The album re-fetch runs even when the song re-fetch fails. A zero albumID skips the songs.
// The returned error joins both failures; the result holds whatever succeeded.
func (e *Engine) Refresh(ctx context.Context, albumID models.ID, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	result := &RefreshResult{AlbumID: albumID}

	if !albumID.IsZero() {
		e.sendProgress(progress, refreshSongsUpdate(albumID))
		songs, err := e.Songs(ctx, albumID)
		result.Songs = songs
		result.SongsErr = err
	}

	e.sendProgress(progress, refreshAlbumsUpdate())
	albums, albumsErr := e.Albums(ctx)
	result.Albums = albums

	return result, errors.Join(result.SongsErr, albumsErr)
}

// AddAndRefresh creates a song and refreshes its album. A failed add issues no refresh.
func (e *Engine) AddAndRefresh(ctx context.Context, draft models.SongDraft, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	e.sendProgress(progress, mutateUpdate("Adding"))
	if err := e.AddSong(ctx, draft); err != nil {
		return nil, err
	}
	return e.Refresh(ctx, draft.AlbumID, progress)
}

// UpdateAndRefresh updates song id and refreshes albumID, which may be zero.
func (e *Engine) UpdateAndRefresh(ctx context.Context, albumID, id models.ID, draft models.SongDraft, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	e.sendProgress(progress, mutateUpdate("Updating"))
	if err := e.UpdateSong(ctx, id, draft); err != nil {
		return nil, err
	}
	return e.Refresh(ctx, albumID, progress)
}

// DeleteAndRefresh deletes song id and refreshes albumID, which may be zero.
func (e *Engine) DeleteAndRefresh(ctx context.Context, albumID, id models.ID, progress chan<- ProgressUpdate) (*RefreshResult, error) {
	e.sendProgress(progress, mutateUpdate("Deleting"))
	if err := e.DeleteSong(ctx, id); err != nil {
		return nil, err
	}
	return e.Refresh(ctx, albumID, progress)
}
