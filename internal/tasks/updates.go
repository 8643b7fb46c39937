package tasks

import (
	"fmt"

	"github.com/desertthunder/crates/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	Mutate Phase = iota
	RefreshSongs
	RefreshAlbums
	FetchSongs
	ExportAlbum
)

func (p Phase) String() string {
	switch p {
	case Mutate:
		return "mutate"
	case RefreshSongs:
		return "refresh_songs"
	case RefreshAlbums:
		return "refresh_albums"
	case FetchSongs:
		return "fetch_songs"
	case ExportAlbum:
		return "export_album"
	default:
		return ""
	}
}

func mutateUpdate(action string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Mutate,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("%s song...", action),
	}
}

func refreshSongsUpdate(albumID models.ID) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshSongs,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("Refreshing songs of album %s...", albumID),
	}
}

func refreshAlbumsUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   RefreshAlbums,
		Step:    3,
		Total:   3,
		Message: "Refreshing albums...",
	}
}

func fetchSongsUpdate(step, total int, album models.Album) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching songs: %s...", step, total, album.Title),
		Data:    album,
	}
}

func exportCompletedUpdate(step, total int, res AlbumExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d songs)", step, total, res.AlbumTitle, res.SongCount),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res AlbumExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportAlbum,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.AlbumTitle, res.Error),
		Data:    res,
	}
}
