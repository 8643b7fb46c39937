// package formatter renders albums, songs and journal entries as text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/shared"
)

const (
	NoAlbumsMessage = "No albums found."
	NoSongsMessage  = "No songs available for this album."
)

// Format is an output format accepted by the --format flag.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "md"
	CSV      Format = "csv"
	JSON     Format = "json"
)

// ParseFormat maps a flag value to a [Format]. An empty value selects [Text].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return Text, nil
	case "md", "markdown":
		return Markdown, nil
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (expected text, md, csv or json)", shared.ErrInvalidFlag, s)
	}
}

// Structured reports whether f is meant for other programs, so nothing else may share its stream.
func (f Format) Structured() bool {
	return f == CSV || f == JSON
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return "md"
	case CSV:
		return "csv"
	case JSON:
		return "json"
	default:
		return "txt"
	}
}

// AlbumExport is the JSON document written for a single album.
type AlbumExport struct {
	Album models.Album  `json:"album"`
	Songs []models.Song `json:"songs"`
}

// SongsToCSV converts songs to CSV with columns: ID, Title, AlbumID
func SongsToCSV(songs []models.Song) ([]byte, error) {
	records := make([][]string, 0, len(songs))
	for _, song := range songs {
		records = append(records, []string{song.ID.String(), song.Title, song.AlbumID.String()})
	}
	return writeCSV([]string{"ID", "Title", "AlbumID"}, records)
}

// SongsToMarkdown renders an album heading followed by a numbered song list.
func SongsToMarkdown(album models.Album, songs []models.Song) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", albumName(album))
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(songs))

	if len(songs) == 0 {
		fmt.Fprintf(&buf, "_%s_\n", NoSongsMessage)
		return buf.Bytes()
	}

	buf.WriteString("## Songs\n\n")
	for i, song := range songs {
		fmt.Fprintf(&buf, "%d. %s `%s`\n", i+1, song.Title, song.ID)
	}

	return buf.Bytes()
}

// SongsToText renders songs as a numbered plain text list.
func SongsToText(album models.Album, songs []models.Song) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Album: %s\n", albumName(album))
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(songs))

	if len(songs) == 0 {
		buf.WriteString(NoSongsMessage + "\n")
		return buf.Bytes()
	}

	for i, song := range songs {
		fmt.Fprintf(&buf, "%d. %s (%s)\n", i+1, song.Title, song.ID)
	}

	return buf.Bytes()
}

// AlbumsToCSV converts albums to CSV with columns: ID, Title
func AlbumsToCSV(albums []models.Album) ([]byte, error) {
	records := make([][]string, 0, len(albums))
	for _, album := range albums {
		records = append(records, []string{album.ID.String(), album.Title})
	}
	return writeCSV([]string{"ID", "Title"}, records)
}

// AlbumsToMarkdown renders albums as a Markdown list, preserving order.
func AlbumsToMarkdown(albums []models.Album) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Albums\n\n")
	if len(albums) == 0 {
		fmt.Fprintf(&buf, "_%s_\n", NoAlbumsMessage)
		return buf.Bytes()
	}

	for _, album := range albums {
		fmt.Fprintf(&buf, "- %s `%s`\n", album.Title, album.ID)
	}
	return buf.Bytes()
}

// AlbumsToText renders albums one per line as "ID  Title".
func AlbumsToText(albums []models.Album) []byte {
	var buf bytes.Buffer

	if len(albums) == 0 {
		buf.WriteString(NoAlbumsMessage + "\n")
		return buf.Bytes()
	}

	width := 0
	for _, album := range albums {
		width = max(width, len(album.ID))
	}
	for _, album := range albums {
		fmt.Fprintf(&buf, "%-*s  %s\n", width, album.ID, album.Title)
	}

	return buf.Bytes()
}

// ExportSongs renders songs in format f. The album is used for headings only.
func ExportSongs(f Format, album models.Album, songs []models.Song, pretty bool) ([]byte, error) {
	switch f {
	case CSV:
		return SongsToCSV(songs)
	case Markdown:
		return SongsToMarkdown(album, songs), nil
	case JSON:
		return shared.MarshalJSON(nonNil(songs), pretty)
	default:
		return SongsToText(album, songs), nil
	}
}

// ExportAlbums renders albums in format f.
func ExportAlbums(f Format, albums []models.Album, pretty bool) ([]byte, error) {
	switch f {
	case CSV:
		return AlbumsToCSV(albums)
	case Markdown:
		return AlbumsToMarkdown(albums), nil
	case JSON:
		return shared.MarshalJSON(nonNil(albums), pretty)
	default:
		return AlbumsToText(albums), nil
	}
}

// WriteAlbumExport writes one album and its songs to dir as album_{id}.{ext} and returns the file path.
// IDs that need sanitizing get a hash suffix so they cannot overwrite another album's file.
func WriteAlbumExport(dir string, f Format, album models.Album, songs []models.Song) (string, error) {
	var (
		data []byte
		err  error
	)

	if f == JSON {
		data, err = shared.MarshalJSON(AlbumExport{Album: album, Songs: nonNil(songs)}, true)
	} else {
		data, err = ExportSongs(f, album, songs, false)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render album %s: %w", album.ID, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("album_%s.%s", exportName(album.ID.String()), f.Extension()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// RequestsToTable renders journal records as a bordered table, newest first as given.
func RequestsToTable(records []*models.RequestRecord) string {
	failed := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "TIME", "METHOD", "PATH", "STATUS", "DURATION", "ERROR").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row >= 0 && row < len(records) && records[row].Failed() {
				return failed
			}
			return lipgloss.NewStyle()
		})

	for _, r := range records {
		status := "-"
		if r.Status() > 0 {
			status = strconv.Itoa(r.Status())
		}
		t.Row(
			strconv.Itoa(r.Sequence()),
			r.CreatedAt().Local().Format("2006-01-02 15:04:05"),
			r.Method(),
			r.Path(),
			status,
			r.Duration().String(),
			truncate(r.Error(), 48),
		)
	}

	return t.String()
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

func albumName(album models.Album) string {
	if album.Title == "" {
		return album.ID.String()
	}
	return album.Title
}

// exportName is s made safe for a file name, suffixed with a hash of s when any rune was replaced.
func exportName(s string) string {
	name := safeName(s)
	if name == s {
		return name
	}
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%s-%08x", name, h.Sum32())
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
