package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestID(t *testing.T) {
	t.Run("UnmarshalJSON", func(t *testing.T) {
		tt := []struct {
			name    string
			input   string
			want    ID
			wantErr bool
		}{
			{name: "number", input: `5`, want: "5"},
			{name: "string", input: `"a1b2"`, want: "a1b2"},
			{name: "negative number", input: `-3`, want: "-3"},
			{name: "null", input: `null`, want: ""},
			{name: "bool", input: `true`, wantErr: true},
			{name: "object", input: `{}`, wantErr: true},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				var id ID
				err := id.UnmarshalJSON([]byte(tc.input))
				if (err != nil) != tc.wantErr {
					t.Fatalf("UnmarshalJSON() error = %v, wantErr %v", err, tc.wantErr)
				}
				if !tc.wantErr && id != tc.want {
					t.Errorf("expected %q, got %q", tc.want, id)
				}
			})
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		tt := []struct {
			id   ID
			want string
		}{
			{id: "5", want: `5`},
			{id: "abc", want: `"abc"`},
			{id: "NaN", want: `"NaN"`},
			{id: "", want: `""`},
		}

		for _, tc := range tt {
			got, err := json.Marshal(tc.id)
			if err != nil {
				t.Fatalf("failed to marshal %q: %v", tc.id, err)
			}
			if string(got) != tc.want {
				t.Errorf("Marshal(%q) = %s, want %s", tc.id, got, tc.want)
			}
		}
	})

	t.Run("decodes mixed album payload", func(t *testing.T) {
		body := `[{"id": 1, "title": "Abbey Road", "artist": "ignored"}, {"id": "x-2", "title": "Blue"}]`

		var albums []Album
		if err := json.Unmarshal([]byte(body), &albums); err != nil {
			t.Fatalf("failed to decode albums: %v", err)
		}

		if len(albums) != 2 {
			t.Fatalf("expected 2 albums, got %d", len(albums))
		}
		if albums[0].ID != "1" || albums[1].ID != "x-2" {
			t.Errorf("unexpected ids: %q, %q", albums[0].ID, albums[1].ID)
		}
	})
}

func TestSongDraft(t *testing.T) {
	t.Run("create payload carries album id", func(t *testing.T) {
		draft := SongDraft{Title: "X"}.ForAlbum("5")

		got, err := json.Marshal(draft)
		if err != nil {
			t.Fatalf("failed to marshal draft: %v", err)
		}
		if string(got) != `{"title":"X","albumId":5}` {
			t.Errorf("unexpected payload: %s", got)
		}
	})

	t.Run("update payload only carries title", func(t *testing.T) {
		draft := SongDraft{Title: "Foo", AlbumID: "5"}

		got, err := json.Marshal(draft.Update())
		if err != nil {
			t.Fatalf("failed to marshal update: %v", err)
		}
		if string(got) != `{"title":"Foo"}` {
			t.Errorf("unexpected payload: %s", got)
		}
	})

	t.Run("empty title is kept", func(t *testing.T) {
		got, _ := json.Marshal(SongDraft{}.ForAlbum("7"))
		if string(got) != `{"title":"","albumId":7}` {
			t.Errorf("unexpected payload: %s", got)
		}
	})
}

func TestRequestRecord(t *testing.T) {
	t.Run("Failed", func(t *testing.T) {
		ok := NewRequestRecord(1, "get", "/api/v1/album/all", 200, nil, 0)
		if ok.Failed() {
			t.Error("expected 200 without error to be successful")
		}
		if ok.Method() != "GET" {
			t.Errorf("expected method to be upper-cased, got %s", ok.Method())
		}

		status := NewRequestRecord(2, "POST", "/api/v1/song/add", 500, nil, 0)
		if !status.Failed() {
			t.Error("expected 500 to be failed")
		}

		network := NewRequestRecord(3, "POST", "/api/v1/song/add", 0, errors.New("connection refused"), 0)
		if !network.Failed() {
			t.Error("expected transport error to be failed")
		}
		if network.Error() != "connection refused" {
			t.Errorf("unexpected error text %q", network.Error())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		r := NewRequestRecord(1, "GET", "/api/v1/album/all", 200, nil, 0)
		if err := r.Validate(); err == nil {
			t.Error("expected error for missing id")
		}

		r.SetID("abc")
		if err := r.Validate(); err != nil {
			t.Errorf("expected valid record, got %v", err)
		}

		bad := NewRequestRecord(1, "TRACE", "/x", 200, nil, 0)
		bad.SetID("abc")
		if err := bad.Validate(); err == nil {
			t.Error("expected error for unsupported method")
		}
	})
}
