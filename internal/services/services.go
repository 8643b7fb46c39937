// package services defines the album and song interfaces and their HTTP implementation
package services

import (
	"context"
	"time"

	"github.com/desertthunder/crates/internal/models"
)

// AlbumService lists and searches albums.
type AlbumService interface {
	// Albums retrieves the full album collection in backend order.
	Albums(ctx context.Context) ([]models.Album, error)

	// SearchAlbums retrieves albums matching query. An empty query is rejected.
	SearchAlbums(ctx context.Context, query string) ([]models.Album, error)
}

// SongService manages the songs of one album at a time.
type SongService interface {
	// Songs retrieves the songs owned by albumID.
	Songs(ctx context.Context, albumID models.ID) ([]models.Song, error)

	// AddSong creates a song from draft. The draft must carry its album id.
	AddSong(ctx context.Context, draft models.SongDraft) error

	// UpdateSong replaces the title of song id with the draft's title.
	UpdateSong(ctx context.Context, id models.ID, draft models.SongDraft) error

	// DeleteSong removes song id. An empty response body is a success.
	DeleteSong(ctx context.Context, id models.ID) error
}

// Catalog is the full album and song surface of the backend.
type Catalog interface {
	AlbumService
	SongService
}

// RequestObserver is called once per completed backend call, successful or not.
//
// status is 0 when no response was received.
type RequestObserver func(method, path string, status int, err error, elapsed time.Duration)
