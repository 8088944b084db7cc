package rest

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/infra/store"
)

const stateCookie = "harmony_oauth_state"

type ctxUserKey struct{}

// userFrom returns the authenticated user stored by protect.
func userFrom(ctx context.Context) *store.User {
	u, _ := ctx.Value(ctxUserKey{}).(*store.User)
	return u
}

// handleGoogleLogin redirects to the Google consent page.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.signIn.AuthCodeURL(state), http.StatusFound)
}

// handleGoogleCallback completes sign-in, issues a credential and sends the
// browser back to the frontend with the credential as a query parameter.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != q.Get("state") {
		zlog.Warn().Msg("songsvc: login rejected: state mismatch")
		http.Redirect(w, r, s.config.FrontendURL, http.StatusFound)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	profile, err := s.signIn.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		zlog.Warn().Msgf("songsvc: login failed: error=%v", err)
		http.Redirect(w, r, s.config.FrontendURL, http.StatusFound)
		return
	}

	role := store.RoleUser
	if s.config.IsAdminEmail(profile.Email) {
		role = store.RoleAdmin
	}

	user, err := s.store.UpsertUser(r.Context(), profile.Name, profile.Email, profile.Subject, role)
	if err != nil {
		zlog.Error().Msgf("songsvc: failed to store user: email=%s error=%v", profile.Email, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		zlog.Error().Msgf("songsvc: failed to issue token: user=%s error=%v", user.ID, err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	target, err := frontendRedirect(s.config.FrontendURL, s.config.CredentialParam, token)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	zlog.Info().Msgf("songsvc: user signed in: user=%s role=%s", user.ID, user.Role)
	http.Redirect(w, r, target, http.StatusFound)
}

func frontendRedirect(frontendURL, param, token string) (string, error) {
	u, err := url.Parse(frontendURL)
	if err != nil {
		return "", errors.Wrap(err, "invalid frontend url")
	}
	if u.Path == "" {
		u.Path = "/"
	}
	q := u.Query()
	q.Set(param, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// protect requires a valid bearer credential of an existing user.
func (s *Server) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "not authorized, no token")
			return
		}
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			writeError(w, http.StatusUnauthorized, "invalid Authorization header")
			return
		}

		claims, err := s.issuer.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "not authorized, token failed")
			return
		}

		user, err := s.store.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "not authorized, unknown user")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load user")
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := userFrom(r.Context())
		if u == nil || !u.IsAdmin() {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}
