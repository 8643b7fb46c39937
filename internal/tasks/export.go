package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for album exports.
type ExportOpts struct {
	Format     formatter.Format // Output format (default: json)
	OutputDir  string           // Base output directory (default: crates_export_{epoch})
	NumWorkers int              // Concurrent writers (default: 4, max 10)
	RateLimit  float64          // Song fetches per second (default: 5)
}

// AlbumExportResult is the outcome for one album.
type AlbumExportResult struct {
	AlbumID    models.ID `json:"album_id"`
	AlbumTitle string    `json:"album_title"`
	SongCount  int       `json:"song_count"`
	File       string    `json:"file,omitempty"`
	Success    bool      `json:"success"`
	Error      error     `json:"-"`
	ErrorText  string    `json:"error,omitempty"`

	index int
}

// ExportResult summarizes an [Engine.ExportAlbums] run and is written as the manifest.
type ExportResult struct {
	Format          formatter.Format    `json:"format"`
	TotalAlbums     int                 `json:"total_albums"`
	Successful      int                 `json:"successful"`
	Failed          int                 `json:"failed"`
	OutputDirectory string              `json:"output_directory"`
	ManifestPath    string              `json:"-"`
	ExportedAt      time.Time           `json:"exported_at"`
	Results         []AlbumExportResult `json:"results"`
}

type exportJob struct {
	index int
	album models.Album
	songs []models.Song
}

// ExportAlbums writes each album and its songs to OutputDir, one file per album, plus export_manifest.json.
//
// Song fetches are paced by a token bucket and the files are written by a worker pool.
// A failed fetch or write marks that album failed; the remaining albums still export.
// Results are ordered like albums.
func (e *Engine) ExportAlbums(ctx context.Context, prog chan<- ProgressUpdate, albums []models.Album, opts ExportOpts) (*ExportResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("crates_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(albums)
	result := &ExportResult{
		Format:          opts.Format,
		TotalAlbums:     total,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		Results:         make([]AlbumExportResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, total)
	results := make(chan AlbumExportResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, album := range albums {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			e.sendProgress(prog, fetchSongsUpdate(i+1, total, album))

			songs, err := e.Songs(ctx, album.ID)
			if err != nil {
				results <- AlbumExportResult{
					index:      i,
					AlbumID:    album.ID,
					AlbumTitle: album.Title,
					Error:      fmt.Errorf("failed to fetch songs: %w", err),
				}
				continue
			}

			jobs <- exportJob{index: i, album: album, songs: songs}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Error != nil {
			res.ErrorText = res.Error.Error()
		}
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			e.sendProgress(prog, exportCompletedUpdate(completed, total, res))
		} else {
			result.Failed++
			e.sendProgress(prog, exportFailedUpdate(completed, total, res))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].index < result.Results[j].index
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted after %d of %d albums: %w", completed, total, err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	e.logger.Info("exported albums", "dir", opts.OutputDir, "ok", result.Successful, "failed", result.Failed)
	return result, nil
}

// exportWorker writes albums from the jobs channel until it is closed.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- AlbumExportResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := AlbumExportResult{
			index:      job.index,
			AlbumID:    job.album.ID,
			AlbumTitle: job.album.Title,
			SongCount:  len(job.songs),
		}

		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		path, err := formatter.WriteAlbumExport(opts.OutputDir, opts.Format, job.album, job.songs)
		if err != nil {
			res.Error = err
		} else {
			res.File = path
			res.Success = true
		}
		results <- res
	}
}
