package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/services"
	"github.com/desertthunder/crates/internal/shared"
	tu "github.com/desertthunder/crates/internal/testing"
)

func newMock() *tu.MockCatalog {
	return &tu.MockCatalog{
		AlbumList: []models.Album{
			{ID: "5", Title: "Abbey Road"},
			{ID: "7", Title: "Let It Be"},
		},
		SongList: map[models.ID][]models.Song{
			"5": {{ID: "1", Title: "Come Together", AlbumID: "5"}},
			"7": {{ID: "3", Title: "Get Back", AlbumID: "7"}},
		},
	}
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	close(progress)
	var updates []ProgressUpdate
	for u := range progress {
		updates = append(updates, u)
	}
	return updates
}

func TestEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("nil catalog", func(t *testing.T) {
		e := NewEngine(nil, nil)

		if _, err := e.Albums(ctx); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if err := e.AddSong(ctx, models.SongDraft{}); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := e.Refresh(ctx, "5", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("fetches pass through", func(t *testing.T) {
		mock := newMock()
		mock.SearchList = []models.Album{{ID: "7", Title: "Let It Be"}}
		e := NewEngine(mock, nil)

		albums, err := e.Albums(ctx)
		if err != nil || len(albums) != 2 {
			t.Fatalf("Albums: got %v, %v", albums, err)
		}

		found, err := e.SearchAlbums(ctx, "let")
		if err != nil || len(found) != 1 {
			t.Fatalf("SearchAlbums: got %v, %v", found, err)
		}

		songs, err := e.Songs(ctx, "5")
		if err != nil || len(songs) != 1 {
			t.Fatalf("Songs: got %v, %v", songs, err)
		}

		want := "Albums|SearchAlbums let|Songs 5"
		if got := strings.Join(mock.CallLog(), "|"); got != want {
			t.Errorf("expected calls %s, got %s", want, got)
		}
	})

	t.Run("errors are logged", func(t *testing.T) {
		var buf bytes.Buffer
		mock := newMock()
		mock.DeleteErr = shared.ErrAPIRequest
		e := NewEngine(mock, shared.NewLogger(&buf))

		if err := e.DeleteSong(ctx, "1"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if !strings.Contains(buf.String(), "failed to delete song") {
			t.Errorf("expected error log, got %q", buf.String())
		}
	})
}

func TestWriteThenRefresh(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name      string
		run       func(e *Engine, progress chan<- ProgressUpdate) (*RefreshResult, error)
		wantCalls []string
	}{
		{
			name: "add",
			run: func(e *Engine, p chan<- ProgressUpdate) (*RefreshResult, error) {
				return e.AddAndRefresh(ctx, models.SongDraft{Title: "Octopus's Garden", AlbumID: "5"}, p)
			},
			wantCalls: []string{"AddSong Octopus's Garden", "Songs 5", "Albums"},
		},
		{
			name: "update",
			run: func(e *Engine, p chan<- ProgressUpdate) (*RefreshResult, error) {
				return e.UpdateAndRefresh(ctx, "5", "1", models.SongDraft{Title: "Come Together (Live)"}, p)
			},
			wantCalls: []string{"UpdateSong 1", "Songs 5", "Albums"},
		},
		{
			name: "delete",
			run: func(e *Engine, p chan<- ProgressUpdate) (*RefreshResult, error) {
				return e.DeleteAndRefresh(ctx, "5", "1", p)
			},
			wantCalls: []string{"DeleteSong 1", "Songs 5", "Albums"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock()
			progress := make(chan ProgressUpdate, 10)

			result, err := tc.run(NewEngine(mock, nil), progress)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got := strings.Join(mock.CallLog(), "|"); got != strings.Join(tc.wantCalls, "|") {
				t.Errorf("expected calls %v, got %v", tc.wantCalls, mock.CallLog())
			}
			if len(result.Songs) != 1 || len(result.Albums) != 2 {
				t.Errorf("unexpected refresh result %+v", result)
			}

			updates := drain(progress)
			phases := []Phase{}
			for _, u := range updates {
				phases = append(phases, u.Phase)
			}
			if len(phases) != 3 || phases[0] != Mutate || phases[1] != RefreshSongs || phases[2] != RefreshAlbums {
				t.Errorf("unexpected phases %v", phases)
			}
		})
	}

	t.Run("failed mutation issues no refresh", func(t *testing.T) {
		mock := newMock()
		mock.AddErr = shared.ErrAPIRequest

		result, err := NewEngine(mock, nil).AddAndRefresh(ctx, models.SongDraft{Title: "X", AlbumID: "5"}, nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if result != nil {
			t.Error("expected no refresh result")
		}
		if got := mock.CallLog(); len(got) != 1 {
			t.Errorf("expected only the mutation, got %v", got)
		}
	})

	t.Run("album refresh runs after failed song refresh", func(t *testing.T) {
		mock := newMock()
		mock.SongsErr = shared.ErrAPIRequest

		result, err := NewEngine(mock, nil).DeleteAndRefresh(ctx, "5", "1", nil)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected joined ErrAPIRequest, got %v", err)
		}
		if result.SongsErr == nil {
			t.Error("expected SongsErr to be set")
		}
		if len(result.Albums) != 2 {
			t.Errorf("expected albums to be refreshed, got %v", result.Albums)
		}
		if got := strings.Join(mock.CallLog(), "|"); got != "DeleteSong 1|Songs 5|Albums" {
			t.Errorf("unexpected calls %s", got)
		}
	})

	t.Run("zero album skips songs", func(t *testing.T) {
		mock := newMock()

		if _, err := NewEngine(mock, nil).DeleteAndRefresh(ctx, "", "1", nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := strings.Join(mock.CallLog(), "|"); got != "DeleteSong 1|Albums" {
			t.Errorf("unexpected calls %s", got)
		}
	})

	t.Run("progress never blocks", func(t *testing.T) {
		full := make(chan ProgressUpdate)
		if _, err := NewEngine(newMock(), nil).Refresh(ctx, "5", full); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("request order against backend", func(t *testing.T) {
		backend := tu.NewBackend(tu.BackendOpts{
			Albums: []models.Album{{ID: "5", Title: "Abbey Road"}},
			Songs:  []models.Song{{ID: "1", Title: "Come Together", AlbumID: "5"}},
		})
		defer backend.Close()

		e := NewEngine(services.NewCatalogService(services.CatalogOptions{BaseURL: backend.URL}), nil)
		result, err := e.AddAndRefresh(ctx, models.SongDraft{Title: "Because", AlbumID: "5"}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		want := []string{
			"POST /api/v1/song/add",
			"GET /api/v1/song/all?albumId=5",
			"GET /api/v1/album/all",
		}
		if got := backend.Requests(); strings.Join(got, "|") != strings.Join(want, "|") {
			t.Errorf("expected %v, got %v", want, got)
		}
		if len(result.Songs) != 2 || result.Songs[1].Title != "Because" {
			t.Errorf("expected refreshed songs to include the new song, got %+v", result.Songs)
		}
	})
}

func TestExportAlbums(t *testing.T) {
	ctx := context.Background()

	t.Run("writes files and manifest", func(t *testing.T) {
		dir := t.TempDir()
		mock := newMock()
		progress := make(chan ProgressUpdate, 20)

		result, err := NewEngine(mock, nil).ExportAlbums(ctx, progress, mock.AlbumList, ExportOpts{
			Format:     formatter.JSON,
			OutputDir:  dir,
			NumWorkers: 2,
			RateLimit:  100,
		})
		if err != nil {
			t.Fatalf("ExportAlbums failed: %v", err)
		}

		if result.TotalAlbums != 2 || result.Successful != 2 || result.Failed != 0 {
			t.Errorf("unexpected counts %+v", result)
		}
		if result.Results[0].AlbumID != "5" || result.Results[1].AlbumID != "7" {
			t.Errorf("expected results in album order, got %+v", result.Results)
		}

		for _, name := range []string{"album_5.json", "album_7.json", "export_manifest.json"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("expected %s to exist: %v", name, err)
			}
		}

		data, err := os.ReadFile(result.ManifestPath)
		if err != nil {
			t.Fatalf("failed to read manifest: %v", err)
		}
		var manifest ExportResult
		if err := json.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("invalid manifest: %v", err)
		}
		if manifest.Successful != 2 || len(manifest.Results) != 2 {
			t.Errorf("unexpected manifest %+v", manifest)
		}

		if len(drain(progress)) == 0 {
			t.Error("expected progress updates")
		}
	})

	t.Run("partial failures", func(t *testing.T) {
		backend := tu.NewBackend(tu.BackendOpts{
			Albums: []models.Album{{ID: "5", Title: "Abbey Road"}, {ID: "7", Title: "Let It Be"}},
			Songs:  []models.Song{{ID: "1", Title: "Come Together", AlbumID: "5"}},
		})
		defer backend.Close()
		backend.Fail("GET /api/v1/song/all?albumId=7", http.StatusBadGateway)

		e := NewEngine(services.NewCatalogService(services.CatalogOptions{BaseURL: backend.URL}), nil)
		albums, _ := e.Albums(ctx)

		result, err := e.ExportAlbums(ctx, nil, albums, ExportOpts{Format: formatter.CSV, OutputDir: t.TempDir(), RateLimit: 100})
		if err != nil {
			t.Fatalf("ExportAlbums failed: %v", err)
		}

		if result.Successful != 1 || result.Failed != 1 {
			t.Fatalf("expected 1 success and 1 failure, got %+v", result)
		}

		failed := result.Results[1]
		if failed.AlbumID != "7" || failed.Success || failed.ErrorText == "" {
			t.Errorf("unexpected failed result %+v", failed)
		}
		if !strings.HasSuffix(result.Results[0].File, "album_5.csv") {
			t.Errorf("unexpected file %s", result.Results[0].File)
		}
	})

	t.Run("empty album list", func(t *testing.T) {
		result, err := NewEngine(newMock(), nil).ExportAlbums(ctx, nil, nil, ExportOpts{OutputDir: t.TempDir()})
		if err != nil {
			t.Fatalf("ExportAlbums failed: %v", err)
		}
		if result.TotalAlbums != 0 || result.ManifestPath == "" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		mock := newMock()
		_, err := NewEngine(mock, nil).ExportAlbums(canceled, nil, mock.AlbumList, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("nil catalog", func(t *testing.T) {
		_, err := NewEngine(nil, nil).ExportAlbums(ctx, nil, nil, ExportOpts{OutputDir: t.TempDir()})
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	tt := map[Phase]string{
		Mutate:        "mutate",
		RefreshSongs:  "refresh_songs",
		RefreshAlbums: "refresh_albums",
		FetchSongs:    "fetch_songs",
		ExportAlbum:   "export_album",
		Phase(99):     "",
	}
	for phase, want := range tt {
		if got := phase.String(); got != want {
			t.Errorf("Phase(%d).String() = %q, want %q", phase, got, want)
		}
	}
}
