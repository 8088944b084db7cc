package rest

import (
	"encoding/json"
	"net/http"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/domain/song"
)

type createSongRequest struct {
	YouTubeURL string `json:"youtubeUrl" validate:"required"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Thumbnail  string `json:"thumbnail"`
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())

	songs, err := s.store.ListSongs(r.Context(), u.ID, r.URL.Query().Get("search"))
	if err != nil {
		zlog.Error().Msgf("songsvc: failed to list songs: user=%s error=%v", u.ID, err)
		writeError(w, http.StatusInternalServerError, "failed to list songs")
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	s.createSong(w, r, false)
}

func (s *Server) handleCreateGlobalSong(w http.ResponseWriter, r *http.Request) {
	s.createSong(w, r, true)
}

func (s *Server) createSong(w http.ResponseWriter, r *http.Request, global bool) {
	u := userFrom(r.Context())

	var req createSongRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "youtubeUrl is required")
		return
	}

	created, err := s.store.CreateSong(r.Context(), u.ID, song.NewSong{
		YouTubeURL: req.YouTubeURL,
		Title:      req.Title,
		Artist:     req.Artist,
		Thumbnail:  req.Thumbnail,
	}, global)
	if err != nil {
		zlog.Error().Msgf("songsvc: failed to create song: user=%s global=%t error=%v", u.ID, global, err)
		writeError(w, http.StatusBadRequest, "failed to save song")
		return
	}

	zlog.Info().Msgf("songsvc: song created: id=%s user=%s global=%t", created.ID, u.ID, global)
	writeJSON(w, http.StatusCreated, created)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
