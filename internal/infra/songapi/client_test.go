package songapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/harmony/internal/domain/song"
)

func TestClient_List(t *testing.T) {
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/songs", r.URL.Path)
		assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
		assert.Equal(t, "love", r.URL.Query().Get("search"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]song.Song{
			{ID: "2", Title: "Love Song", YouTubeURL: "https://y/watch?v=B", CreatedAt: created},
			{ID: "1", Title: "Lovely", YouTubeURL: "https://y/watch?v=A", IsGlobal: true, CreatedAt: created.Add(-time.Hour)},
		})
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL + "/"})
	songs, err := c.List(context.Background(), "jwt-1", " love ")

	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "Love Song", songs[0].Title)
	assert.True(t, songs[1].IsGlobal)
	assert.True(t, created.Equal(songs[0].CreatedAt))
}

func TestClient_ListWithoutSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	songs, err := New(Config{BaseURL: server.URL}).List(context.Background(), "jwt", "")
	require.NoError(t, err)
	assert.Empty(t, songs)
}

func TestClient_Create(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		create func(c *Client, s song.NewSong) (*song.Song, error)
	}{
		{
			name: "personal",
			path: "/songs",
			create: func(c *Client, s song.NewSong) (*song.Song, error) {
				return c.Create(context.Background(), "jwt", s)
			},
		},
		{
			name: "global",
			path: "/songs/admin",
			create: func(c *Client, s song.NewSong) (*song.Song, error) {
				return c.CreateGlobal(context.Background(), "jwt", s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, tt.path, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "https://y/watch?v=A", body["youtubeUrl"])
				assert.Equal(t, "Song", body["title"])

				w.WriteHeader(http.StatusCreated)
				_ = json.NewEncoder(w).Encode(song.Song{ID: "new", Title: body["title"], YouTubeURL: body["youtubeUrl"]})
			}))
			defer server.Close()

			created, err := tt.create(New(Config{BaseURL: server.URL}), song.NewSong{
				YouTubeURL: "https://y/watch?v=A",
				Title:      "Song",
			})
			require.NoError(t, err)
			assert.Equal(t, "new", created.ID)
		})
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		marker error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, marker: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, marker: ErrForbidden},
		{name: "server error", status: http.StatusInternalServerError, marker: ErrFetchFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"nope"}`))
			}))
			defer server.Close()

			_, err := New(Config{BaseURL: server.URL}).List(context.Background(), "jwt", "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.marker))
			assert.True(t, errors.Is(err, ErrFetchFailed))
		})
	}
}

func TestClient_NoCredential(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := New(Config{BaseURL: server.URL}).Create(context.Background(), "", song.NewSong{YouTubeURL: "x"})

	assert.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called)
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := New(Config{BaseURL: url, Timeout: time.Second}).List(context.Background(), "jwt", "")
	assert.True(t, errors.Is(err, ErrFetchFailed))
}
