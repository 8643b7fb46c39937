package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tu "github.com/desertthunder/crates/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != "http://127.0.0.1:8080" {
				t.Errorf("expected default baseURL, got %s", srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Custom Client", func(t *testing.T) {
			client := &http.Client{}
			srv := NewAPIService("http://example.com", client)

			if srv.httpClient != client {
				t.Error("expected custom client to be used")
			}
		})
	})

	t.Run("Methods", func(t *testing.T) {
		tt := []struct {
			name   string
			method string
			call   func(*APIService) (*APIResponse, error)
			body   string
		}{
			{
				name:   "Get",
				method: http.MethodGet,
				call: func(a *APIService) (*APIResponse, error) {
					return a.Get(context.Background(), "/api/v1/album/all")
				},
			},
			{
				name:   "Post",
				method: http.MethodPost,
				call: func(a *APIService) (*APIResponse, error) {
					return a.Post(context.Background(), "/api/v1/album/all", []byte(`{"title":"X"}`))
				},
				body: `{"title":"X"}`,
			},
			{
				name:   "Put",
				method: http.MethodPut,
				call: func(a *APIService) (*APIResponse, error) {
					return a.Put(context.Background(), "/api/v1/album/all", []byte(`{"title":"Y"}`))
				},
				body: `{"title":"Y"}`,
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Method != tc.method {
						t.Errorf("expected %s, got %s", tc.method, r.Method)
					}
					body, _ := io.ReadAll(r.Body)
					if string(body) != tc.body {
						t.Errorf("expected body %q, got %q", tc.body, body)
					}
					if tc.body != "" && r.Header.Get("Content-Type") != "application/json" {
						t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
					}
					w.Header().Set("X-Custom-Header", "test-value")
					w.Write([]byte(`[{"id":1,"title":"Abbey Road"}]`))
				}))
				defer server.Close()

				resp, err := tc.call(NewAPIService(server.URL, nil))
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !resp.OK() {
					t.Errorf("expected 2xx, got %d", resp.StatusCode)
				}
				if !resp.IsJSON {
					t.Error("expected response to be JSON")
				}
				if _, ok := resp.JSONData.([]any); !ok {
					t.Errorf("expected JSON array, got %T", resp.JSONData)
				}
				if resp.Headers.Get("X-Custom-Header") != "test-value" {
					t.Error("expected response headers to be preserved")
				}
			})
		}
	})

	t.Run("Non-JSON Response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/health")
		if err != nil {
			t.Fatalf("non-2xx is not a transport error, got %v", err)
		}
		if resp.OK() {
			t.Error("expected OK() to be false for 502")
		}
		if resp.IsJSON || resp.JSONData != nil {
			t.Error("expected plain text response")
		}
		if string(resp.Body) != "upstream down" {
			t.Errorf("unexpected body %q", resp.Body)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tt := []struct {
			name   string
			client *http.Client
			path   string
			want   string
		}{
			{
				name: "Failed Request Creation",
				path: "/test\x00invalid",
				want: "failed to create request",
			},
			{
				name:   "Failed HTTP Request",
				client: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))},
				path:   "/test",
				want:   "request failed",
			},
			{
				name: "Failed Response Body Read",
				client: &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil)},
				path: "/test",
				want: "failed to read response",
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				_, err := NewAPIService("http://example.com", tc.client).Get(context.Background(), tc.path)
				if err == nil || !strings.Contains(err.Error(), tc.want) {
					t.Errorf("expected %q error, got %v", tc.want, err)
				}
			})
		}
	})
}
