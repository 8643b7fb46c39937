package testing

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/server"
)

// Backend is an in-memory album/song REST API served over HTTP.
//
// It records every request as "METHOD /escaped/path?query" in arrival order.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	albums   []models.Album
	songs    []models.Song
	nextID   int
	requests []string
	failures map[string]int
}

// BackendOpts configures [NewBackend].
type BackendOpts struct {
	Albums []models.Album
	Songs  []models.Song
	Token  string      // when set, requests must carry "Authorization: Bearer <Token>"
	Logger *log.Logger // when set, every request is logged at debug level
}

// NewBackend starts a backend seeded with opts. Call Close when done.
func NewBackend(opts BackendOpts) *Backend {
	b := &Backend{
		albums:   append([]models.Album{}, opts.Albums...),
		songs:    append([]models.Song{}, opts.Songs...),
		nextID:   1000,
		failures: map[string]int{},
	}

	router := server.NewBasicRouter()
	router.Use(b.record, b.inject)
	if opts.Logger != nil {
		router.Use(server.RequestLog(opts.Logger))
	}
	if opts.Token != "" {
		router.Use(server.RequireBearer(opts.Token))
	}

	router.HandleFunc(http.MethodGet, "/api/v1/album/all", b.listAlbums)
	router.HandleFunc(http.MethodGet, "/api/v1/album/search/{query}", b.searchAlbums)
	router.HandleFunc(http.MethodGet, "/api/v1/song/all", b.listSongs)
	router.HandleFunc(http.MethodPost, "/api/v1/song/add", b.addSong)
	router.HandleFunc(http.MethodPut, "/api/v1/song/update/{id}", b.updateSong)
	router.HandleFunc(http.MethodPost, "/api/v1/song/delete/{id}", b.deleteSong)

	b.Server = httptest.NewServer(router)
	return b
}

// Requests returns a copy of the recorded requests.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.requests...)
}

// Reset clears the recorded requests.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// Fail makes every request whose "METHOD /path" starts with prefix answer with status.
// A status of 0 removes the failure.
func (b *Backend) Fail(prefix string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, prefix)
		return
	}
	b.failures[prefix] = status
}

// Songs returns the stored songs of albumID.
func (b *Backend) Songs(albumID models.ID) []models.Song {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.songsOf(albumID)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.RequestURI()

		b.mu.Lock()
		status := 0
		for prefix, code := range b.failures {
			if strings.HasPrefix(key, prefix) {
				status = code
				break
			}
		}
		b.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) listAlbums(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	albums := append([]models.Album{}, b.albums...)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, albums)
}

func (b *Backend) searchAlbums(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.PathValue("query"))

	b.mu.Lock()
	albums := []models.Album{}
	for _, a := range b.albums {
		if strings.Contains(strings.ToLower(a.Title), query) {
			albums = append(albums, a)
		}
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, albums)
}

func (b *Backend) listSongs(w http.ResponseWriter, r *http.Request) {
	albumID := models.ID(r.URL.Query().Get("albumId"))

	b.mu.Lock()
	songs := b.songsOf(albumID)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, songs)
}

func (b *Backend) addSong(w http.ResponseWriter, r *http.Request) {
	var draft models.SongDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	b.nextID++
	song := models.Song{ID: models.ID(strconv.Itoa(b.nextID)), Title: draft.Title, AlbumID: draft.AlbumID}
	b.songs = append(b.songs, song)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, song)
}

func (b *Backend) updateSong(w http.ResponseWriter, r *http.Request) {
	var update models.SongUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := models.ID(r.PathValue("id"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.songs {
		if b.songs[i].ID == id {
			b.songs[i].Title = update.Title
			writeJSON(w, http.StatusOK, b.songs[i])
			return
		}
	}
	http.Error(w, "song not found", http.StatusNotFound)
}

// deleteSong answers with an empty body.
func (b *Backend) deleteSong(w http.ResponseWriter, r *http.Request) {
	id := models.ID(r.PathValue("id"))

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.songs {
		if b.songs[i].ID == id {
			b.songs = append(b.songs[:i], b.songs[i+1:]...)
			w.WriteHeader(http.StatusOK)
			return
		}
	}
	http.Error(w, "song not found", http.StatusNotFound)
}

func (b *Backend) songsOf(albumID models.ID) []models.Song {
	songs := []models.Song{}
	for _, s := range b.songs {
		if s.AlbumID == albumID {
			songs = append(songs, s)
		}
	}
	return songs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
