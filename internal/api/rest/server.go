// Package rest provides the HTTP API of the song persistence service.
package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/domain/song"
	"github.com/osa030/harmony/internal/infra/authn"
	"github.com/osa030/harmony/internal/infra/store"
)

// SongStore is the storage used by the API.
type SongStore interface {
	UpsertUser(ctx context.Context, name, email, googleID, role string) (*store.User, error)
	GetUser(ctx context.Context, id string) (*store.User, error)
	ListSongs(ctx context.Context, userID, search string) ([]song.Song, error)
	CreateSong(ctx context.Context, userID string, ns song.NewSong, global bool) (*song.Song, error)
}

// SignIn is the external identity provider.
type SignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*authn.Profile, error)
}

// Config holds API configuration.
type Config struct {
	FrontendURL     string
	CredentialParam string            // Query parameter carrying the issued credential
	IsAdminEmail    func(string) bool // Decides the role given at sign-in
	AllowedOrigin   string            // CORS origin ("*" when empty)
}

// Server serves the song persistence API.
type Server struct {
	store    SongStore
	signIn   SignIn
	issuer   *authn.Issuer
	config   Config
	validate *validator.Validate
}

// NewServer creates a new API server.
func NewServer(st SongStore, signIn SignIn, issuer *authn.Issuer, config Config) *Server {
	if config.CredentialParam == "" {
		config.CredentialParam = "token"
	}
	if config.IsAdminEmail == nil {
		config.IsAdminEmail = func(string) bool { return false }
	}
	if config.AllowedOrigin == "" {
		config.AllowedOrigin = "*"
	}
	return &Server{
		store:    st,
		signIn:   signIn,
		issuer:   issuer,
		config:   config,
		validate: validator.New(),
	}
}

// Router returns the HTTP handler.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.cors)

	r.Get("/health", s.handleHealth)

	r.Get("/auth/google", s.handleGoogleLogin)
	r.Get("/auth/google/callback", s.handleGoogleCallback)

	r.Group(func(r chi.Router) {
		r.Use(s.protect)

		r.Get("/songs", s.handleListSongs)
		r.Post("/songs", s.handleCreateSong)

		r.With(adminOnly).Post("/songs/admin", s.handleCreateGlobalSong)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "harmony-songsvc",
	})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zlog.Info().Msgf("songsvc: request: method=%s path=%s status=%d duration=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start))
	})
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.config.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")

		if strings.EqualFold(r.Method, http.MethodOptions) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
