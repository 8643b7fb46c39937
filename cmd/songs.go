package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crates/internal/formatter"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SongsList prints the songs of --album.
func (r *Runner) SongsList(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albumID := models.ID(cmd.String("album"))
	songs, err := r.engine.Songs(ctx, albumID)
	if err != nil {
		return err
	}

	return r.printSongs(f, models.Album{ID: albumID}, songs, cmd.Bool("pretty"))
}

// SongsAdd creates a song in --album and prints the album's refreshed songs.
func (r *Runner) SongsAdd(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	draft := models.SongDraft{Title: cmd.String("title")}.ForAlbum(models.ID(cmd.String("album")))

	progress, stop := r.watch(f.Structured())
	result, err := r.engine.AddAndRefresh(ctx, draft, progress)
	stop()

	return r.printRefresh(f, result, err, cmd.Bool("pretty"))
}

// SongsUpdate renames song --id. With --album the album's songs are printed afterwards.
func (r *Runner) SongsUpdate(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albumID := models.ID(cmd.String("album"))
	id := models.ID(cmd.String("id"))
	draft := models.SongDraft{Title: cmd.String("title")}

	progress, stop := r.watch(f.Structured())
	result, err := r.engine.UpdateAndRefresh(ctx, albumID, id, draft, progress)
	stop()

	return r.printRefresh(f, result, err, cmd.Bool("pretty"))
}

// SongsDelete deletes song --id. With --album the album's songs are printed afterwards.
func (r *Runner) SongsDelete(ctx context.Context, cmd *cli.Command) error {
	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	albumID := models.ID(cmd.String("album"))
	id := models.ID(cmd.String("id"))

	progress, stop := r.watch(f.Structured())
	result, err := r.engine.DeleteAndRefresh(ctx, albumID, id, progress)
	stop()

	return r.printRefresh(f, result, err, cmd.Bool("pretty"))
}

// printRefresh reports the outcome of a write-then-refresh.
//
// A nil result means the mutation itself failed. Refresh failures are logged after the write succeeded.
// CSV and JSON output carries only the refreshed songs.
func (r *Runner) printRefresh(f formatter.Format, result *tasks.RefreshResult, err error, pretty bool) error {
	if result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("refresh after write failed", "error", err)
	}

	if f.Structured() {
		r.logger.Info("saved", "album", result.AlbumID)
	} else {
		r.writePlain("✓ Saved\n")
	}
	if result.AlbumID.IsZero() || result.SongsErr != nil {
		return nil
	}

	album := models.Album{ID: result.AlbumID}
	for _, a := range result.Albums {
		if a.ID == result.AlbumID {
			album = a
			break
		}
	}

	if !f.Structured() {
		r.writePlain("\n")
	}
	return r.printSongs(f, album, result.Songs, pretty)
}

func (r *Runner) printSongs(f formatter.Format, album models.Album, songs []models.Song, pretty bool) error {
	data, err := formatter.ExportSongs(f, album, songs, pretty)
	if err != nil {
		return fmt.Errorf("failed to render songs: %w", err)
	}
	if f == formatter.JSON {
		data = append(data, '\n')
	}
	return r.writeBytes(data)
}
