package connect

import (
	"encoding/json"
	"net/http"
	"net/url"

	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/session"
)

// WebHandler serves the browser entry points: the page load that may carry a
// login redirect credential and the login navigation.
type WebHandler struct {
	session *session.Manager
}

// NewWebHandler creates a new WebHandler.
func NewWebHandler(session *session.Manager) *WebHandler {
	return &WebHandler{session: session}
}

// Register mounts the entry points on mux.
func (h *WebHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /login", h.handleLogin)
	mux.HandleFunc("GET /{$}", h.handleIndex)
}

func (h *WebHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	h.session.BeginLogin(redirectNavigator{w: w, r: r})
}

func (h *WebHandler) handleIndex(w http.ResponseWriter, r *http.Request) {
	loc := &requestLocation{current: requestURL(r)}

	if _, err := h.session.ConsumeRedirect(r.Context(), loc); err != nil {
		zlog.Error().Msgf("web: failed to consume redirect: error=%v", err)
		http.Error(w, "failed to consume login redirect", http.StatusInternalServerError)
		return
	}
	if loc.replaced != nil {
		http.Redirect(w, r, loc.replaced.RequestURI(), http.StatusFound)
		return
	}

	status := h.session.GetStatus()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(playerv1.SessionInfo{
		SessionID:     status.SessionID,
		Mode:          status.Mode.String(),
		Authenticated: status.Authenticated,
	}); err != nil {
		zlog.Warn().Msgf("web: failed to write session info: error=%v", err)
	}
}

// requestURL reconstructs the absolute URL of r.
func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	return &u
}

// requestLocation exposes the request URL as an identity.Location and records
// the replacement URL so it can be sent back as a redirect.
type requestLocation struct {
	current  *url.URL
	replaced *url.URL
}

func (l *requestLocation) Current() *url.URL  { return l.current }
func (l *requestLocation) Replace(u *url.URL) { l.replaced = u }

// redirectNavigator turns a navigation into an HTTP redirect.
type redirectNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

func (n redirectNavigator) Navigate(target string) {
	http.Redirect(n.w, n.r, target, http.StatusFound)
}
