package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/shared"
	"github.com/desertthunder/crates/internal/tasks"
	"github.com/urfave/cli/v3"
)

// AlbumsList prints every album.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albums, err := r.engine.Albums(ctx)
	if err != nil {
		return err
	}

	return r.printAlbums(f, albums, cmd.Bool("pretty"))
}

// AlbumsSearch prints the albums matching the query argument.
func (r *Runner) AlbumsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albums, err := r.engine.SearchAlbums(ctx, query)
	if err != nil {
		return err
	}

	return r.printAlbums(f, albums, cmd.Bool("pretty"))
}

// AlbumsExport writes each album and its songs to a directory, one file per album.
func (r *Runner) AlbumsExport(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var albums []models.Album
	if query := cmd.String("query"); strings.TrimSpace(query) != "" {
		albums, err = r.engine.SearchAlbums(ctx, query)
	} else {
		albums, err = r.engine.Albums(ctx)
	}
	if err != nil {
		return err
	}

	r.writePlain("Exporting %d albums...\n", len(albums))

	progress, stop := r.watch(false)
	result, err := r.engine.ExportAlbums(ctx, progress, albums, tasks.ExportOpts{
		Format:     f,
		OutputDir:  cmd.String("dir"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  r.config.Backend.RequestsPerSecond,
	})
	stop()
	if err != nil {
		return err
	}

	r.writePlain("\n✓ Exported %d/%d albums to %s\n", result.Successful, result.TotalAlbums, result.OutputDirectory)
	if result.Failed > 0 {
		r.writePlain("\nFailed to export %d albums:\n", result.Failed)
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s (%s): %s\n", res.AlbumTitle, res.AlbumID, res.ErrorText)
			}
		}
	}
	r.writePlain("Manifest: %s\n", result.ManifestPath)
	return nil
}

func (r *Runner) printAlbums(f formatter.Format, albums []models.Album, pretty bool) error {
	data, err := formatter.ExportAlbums(f, albums, pretty)
	if err != nil {
		return err
	}
	if f == formatter.JSON {
		data = append(data, '\n')
	}
	return r.writeBytes(data)
}
