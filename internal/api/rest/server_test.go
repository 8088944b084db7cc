package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/harmony/internal/domain/song"
	"github.com/osa030/harmony/internal/infra/authn"
	"github.com/osa030/harmony/internal/infra/store"
)

type fakeSignIn struct {
	profiles map[string]*authn.Profile
}

func (f *fakeSignIn) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (f *fakeSignIn) Exchange(ctx context.Context, code string) (*authn.Profile, error) {
	p, ok := f.profiles[code]
	if !ok {
		return nil, errors.New("bad code")
	}
	return p, nil
}

type fixture struct {
	handler http.Handler
	store   *store.Store
	issuer  *authn.Issuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	issuer := authn.NewIssuer("0123456789abcdef0123", time.Hour)
	signIn := &fakeSignIn{profiles: map[string]*authn.Profile{
		"alice": {Subject: "g-a", Email: "alice@example.com", Name: "Alice"},
		"admin": {Subject: "g-b", Email: "boss@example.com", Name: "Boss"},
	}}
	srv := NewServer(st, signIn, issuer, Config{
		FrontendURL:  "http://localhost:8080",
		IsAdminEmail: func(email string) bool { return email == "boss@example.com" },
	})
	return &fixture{handler: srv.Router(), store: st, issuer: issuer}
}

func (f *fixture) login(t *testing.T, code string) string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	var state *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookie {
			state = c
		}
	}
	require.NotNil(t, state)

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code="+code+"&state="+state.Value, nil)
	req.AddCookie(state)
	w = httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusFound, w.Code)

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", loc.Host)
	token := loc.Query().Get("token")
	require.NotEmpty(t, token)
	return token
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func TestLogin_IssuesCredential(t *testing.T) {
	f := newFixture(t)

	token := f.login(t, "alice")

	claims, err := f.issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, store.RoleUser, claims.Role)

	admin, err := f.issuer.Verify(f.login(t, "admin"))
	require.NoError(t, err)
	assert.Equal(t, store.RoleAdmin, admin.Role)
}

func TestLogin_StateMismatch(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=alice&state=forged", nil)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:8080", w.Header().Get("Location"))
}

func TestSongs_RequireCredential(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/songs", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodGet, "/songs", "garbage", nil).Code)

	w := f.do(t, http.MethodPost, "/songs", "", song.NewSong{YouTubeURL: "https://youtu.be/A"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.NotEmpty(t, body["error"])
}

func TestSongs_CreateAndList(t *testing.T) {
	f := newFixture(t)
	alice := f.login(t, "alice")
	admin := f.login(t, "admin")

	w := f.do(t, http.MethodPost, "/songs", alice, song.NewSong{YouTubeURL: "https://youtu.be/A1", Title: "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created song.Song
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.False(t, created.IsGlobal)

	w = f.do(t, http.MethodPost, "/songs/admin", admin, song.NewSong{YouTubeURL: "https://youtu.be/G1", Title: "Shared"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodPost, "/songs", admin, song.NewSong{YouTubeURL: "https://youtu.be/B1", Title: "Boss only"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = f.do(t, http.MethodGet, "/songs", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var songs []song.Song
	require.NoError(t, json.NewDecoder(w.Body).Decode(&songs))
	require.Len(t, songs, 2)
	assert.Equal(t, "Shared", songs[0].Title)
	assert.Equal(t, "Mine", songs[1].Title)

	w = f.do(t, http.MethodGet, "/songs?search=mine", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	songs = nil
	require.NoError(t, json.NewDecoder(w.Body).Decode(&songs))
	require.Len(t, songs, 1)
	assert.Equal(t, "Mine", songs[0].Title)
}

func TestSongs_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.login(t, "alice")

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/songs", alice, song.NewSong{Title: "no link"}).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/songs", alice, "not an object").Code)
}

func TestSongs_AdminOnly(t *testing.T) {
	f := newFixture(t)
	alice := f.login(t, "alice")

	w := f.do(t, http.MethodPost, "/songs/admin", alice, song.NewSong{YouTubeURL: "https://youtu.be/G1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodOptions, "/songs", "", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
