// HTTP implementation of [Catalog] for the album/song REST API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/crates/internal/models"
	"github.com/desertthunder/crates/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const defaultAPIPrefix string = "/api/v1"

var _ Catalog = (*CatalogService)(nil)

// StatusError is returned for non-2xx responses.
//
// It unwraps to [shared.ErrAPIRequest]; 404 responses also match [shared.ErrNotFound].
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return shared.ErrAPIRequest }

func (e *StatusError) Is(target error) bool {
	return target == shared.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// CatalogOptions configures a [CatalogService].
type CatalogOptions struct {
	BaseURL           string          // Backend root, defaults to http://127.0.0.1:8080
	APIPrefix         string          // Path prefix, defaults to /api/v1
	HTTPClient        *http.Client    // Defaults to a client with Timeout
	Timeout           time.Duration   // Ignored when HTTPClient is set
	RequestsPerSecond float64         // 0 disables pacing
	Token             string          // Optional bearer token
	Observer          RequestObserver // Optional per-request hook (journal)
}

// CatalogService talks to the `album` and `song` endpoints.
//
// It is a pass-through: no caching and no retries.
type CatalogService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   RequestObserver
}

// NewCatalogService creates a [CatalogService] from opts.
func NewCatalogService(opts CatalogOptions) *CatalogService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.APIPrefix == "" {
		opts.APIPrefix = defaultAPIPrefix
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	if opts.Token != "" {
		client = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
				Base:   client.Transport,
			},
			CheckRedirect: client.CheckRedirect,
			Jar:           client.Jar,
			Timeout:       client.Timeout,
		}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if prefix := strings.Trim(opts.APIPrefix, "/"); prefix != "" {
		baseURL += "/" + prefix
	}

	return &CatalogService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    limiter,
		observer:   opts.Observer,
	}
}

// Albums retrieves all albums.
//
// Calls GET /album/all.
func (c *CatalogService) Albums(ctx context.Context) ([]models.Album, error) {
	var albums []models.Album
	if err := c.doRequest(ctx, http.MethodGet, "/album/all", nil, &albums); err != nil {
		return nil, err
	}
	return nonNil(albums), nil
}

// SearchAlbums retrieves albums matching query.
//
// Calls GET /album/search/{query} with query escaped as a single path segment.
func (c *CatalogService) SearchAlbums(ctx context.Context, query string) ([]models.Album, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}

	var albums []models.Album
	if err := c.doRequest(ctx, http.MethodGet, "/album/search/"+url.PathEscape(query), nil, &albums); err != nil {
		return nil, err
	}
	return nonNil(albums), nil
}

// Songs retrieves the songs of an album.
//
// Calls GET /song/all?albumId={id}.
func (c *CatalogService) Songs(ctx context.Context, albumID models.ID) ([]models.Song, error) {
	if albumID.IsZero() {
		return nil, fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	query := url.Values{"albumId": {albumID.String()}}
	var songs []models.Song
	if err := c.doRequest(ctx, http.MethodGet, "/song/all?"+query.Encode(), nil, &songs); err != nil {
		return nil, err
	}
	return nonNil(songs), nil
}

// AddSong creates a song.
//
// Calls POST /song/add with {title, albumId}.
func (c *CatalogService) AddSong(ctx context.Context, draft models.SongDraft) error {
	if draft.AlbumID.IsZero() {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPost, "/song/add", draft, nil)
}

// UpdateSong updates a song's title.
//
// Calls PUT /song/update/{id} with {title}.
func (c *CatalogService) UpdateSong(ctx context.Context, id models.ID, draft models.SongDraft) error {
	if id.IsZero() {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPut, "/song/update/"+url.PathEscape(id.String()), draft.Update(), nil)
}

// DeleteSong deletes a song.
//
// Calls POST /song/delete/{id}; the backend does not use DELETE.
func (c *CatalogService) DeleteSong(ctx context.Context, id models.ID) error {
	if id.IsZero() {
		return fmt.Errorf("%w: song id", shared.ErrMissingArgument)
	}
	return c.doRequest(ctx, http.MethodPost, "/song/delete/"+url.PathEscape(id.String()), nil, nil)
}

func (c *CatalogService) doRequest(ctx context.Context, method, endpoint string, payload, result any) (err error) {
	var status int
	start := time.Now()
	path := c.pathOf(endpoint)

	if c.observer != nil {
		defer func() { c.observer(method, path, status, err, time.Since(start)) }()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if result != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// pathOf returns the request path including the API prefix, as recorded by observers.
func (c *CatalogService) pathOf(endpoint string) string {
	if u, err := url.Parse(c.baseURL); err == nil {
		return u.EscapedPath() + endpoint
	}
	return endpoint
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
