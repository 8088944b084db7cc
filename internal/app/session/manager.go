// Package session provides the session manager.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/harmony/internal/app/catalog"
	"github.com/osa030/harmony/internal/app/enrich"
	"github.com/osa030/harmony/internal/app/filter"
	"github.com/osa030/harmony/internal/app/notification"
	"github.com/osa030/harmony/internal/app/playback"
	"github.com/osa030/harmony/internal/app/session/identity"
	"github.com/osa030/harmony/internal/app/session/state"
	"github.com/osa030/harmony/internal/app/source"
	"github.com/osa030/harmony/internal/app/widget"
	"github.com/osa030/harmony/internal/domain/playlist"
	"github.com/osa030/harmony/internal/domain/song"
	"github.com/osa030/harmony/internal/domain/track"
	"github.com/osa030/harmony/internal/infra/config"
	"github.com/osa030/harmony/internal/infra/credstore"
	"github.com/osa030/harmony/internal/infra/oembed"
	"github.com/osa030/harmony/internal/infra/songapi"
)

// SongService is the persistence service.
type SongService interface {
	List(ctx context.Context, credential, search string) ([]song.Song, error)
	Create(ctx context.Context, credential string, s song.NewSong) (*song.Song, error)
	CreateGlobal(ctx context.Context, credential string, s song.NewSong) (*song.Song, error)
}

// Deps holds the external collaborators of the session.
// Nil fields are built from configuration.
type Deps struct {
	Catalog     catalog.Provider
	Metadata    enrich.Provider
	Songs       SongService
	Credentials identity.Store
	Widgets     widget.Factory
}

// Manager manages the player session.
type Manager struct {
	// Configuration
	config *config.Config

	// Components
	stateMgr     *state.Manager
	identity     *identity.Identity
	cache        *enrich.Cache
	filterChain  *filter.Chain
	catalog      catalog.Provider
	songs        SongService
	host         *widget.Host
	playback     *playback.Controller
	notification *notification.Manager

	// applyMu serializes source updates with the sequence swap they cause,
	// so the controller never receives an outdated sequence.
	applyMu sync.Mutex

	// Background work
	wg sync.WaitGroup

	// Channels
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a new session manager.
func NewManager(cfg *config.Config, deps Deps) (*Manager, error) {
	filterConfigs := make(map[string]filter.Settings, len(cfg.Filters))
	for name, fc := range cfg.Filters {
		filterConfigs[name] = filter.Settings{Enabled: fc.Enabled, Settings: fc.Settings}
	}
	filterChain, err := filter.Build(filterConfigs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build filter chain")
	}

	if deps.Catalog == nil {
		chain, err := catalog.NewProviderChainFromConfig(cfg)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create catalog provider chain")
		}
		deps.Catalog = chain
	}
	if deps.Metadata == nil {
		deps.Metadata = oembed.New(oembed.Config{
			BaseURL:    cfg.Metadata.OEmbedURL,
			Timeout:    cfg.MetadataTimeout(),
			RatePerSec: cfg.Metadata.RatePerSec,
		})
	}
	if deps.Songs == nil {
		deps.Songs = songapi.New(songapi.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: cfg.APITimeout(),
		})
	}
	if deps.Credentials == nil {
		deps.Credentials = credstore.NewFileStore(cfg.Auth.CredentialPath)
	}

	notif := notification.NewManager()
	if deps.Widgets == nil {
		switch cfg.Playback.Widget {
		case "remote":
			deps.Widgets = widget.RemoteFactory(notif)
		default:
			deps.Widgets = widget.ClockFactory(widget.ClockConfig{
				TrackDuration: time.Duration(cfg.Playback.SimulatedTrackSec) * time.Second,
				Interval:      time.Duration(cfg.Playback.ProgressIntervalMs) * time.Millisecond,
			})
		}
	}

	ctx, cancel := context.WithCancel(context.Background())

	host := widget.NewHost(deps.Widgets)
	controller := playback.NewController(host, playback.Config{
		InitialVolume: cfg.Playback.InitialVolume,
	})
	host.SetListener(controller)

	sessionID := uuid.New().String()

	m := &Manager{
		config:   cfg,
		stateMgr: state.New(sessionID),
		identity: identity.New(deps.Credentials, identity.Config{
			AuthBaseURL:     cfg.Auth.BaseURL,
			CredentialParam: cfg.Auth.CredentialParam,
		}),
		cache:        enrich.New(deps.Metadata, enrich.Config{Concurrency: cfg.Metadata.Concurrency}),
		filterChain:  filterChain,
		catalog:      deps.Catalog,
		songs:        deps.Songs,
		host:         host,
		playback:     controller,
		notification: notif,

		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	zlog.Info().Msgf("session created: session_id=%s widget=%s", sessionID, cfg.Playback.Widget)
	return m, nil
}

// Start loads the persisted credential and the curated list, then enriches
// the list in the background.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.identity.Init(); err != nil {
		// Start logged out rather than failing.
		zlog.Warn().Msgf("failed to load credential, starting logged out: error=%v", err)
	}

	links, err := m.catalog.Links(ctx)
	if err != nil {
		zlog.Warn().Msgf("failed to load catalog, static list is empty: error=%v", err)
	}
	static := source.AdHocTracks(links, track.OriginStatic)

	token := m.stateMgr.Begin(state.ScopeStatic)
	m.commit(token, source.ModeStatic, func(s *source.Sources) {
		s.Static = m.cache.ApplyCached(static)
	})

	m.wg.Add(2)
	go func() {
		defer m.wg.Done()
		m.playbackLoop()
	}()
	go func() {
		defer m.wg.Done()
		enriched := m.cache.EnrichAll(m.ctx, static)
		m.commit(token, source.ModeStatic, func(s *source.Sources) {
			s.Static = enriched
		})
	}()

	zlog.Info().Msgf("session started: static_tracks=%d authenticated=%t", len(static), m.identity.Authenticated())
	return nil
}

// Done returns a channel closed when the session is closed.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// SelectMode switches the active source. The sequence is replaced and playback
// stops. Selecting personal without a credential is rejected.
func (m *Manager) SelectMode(ctx context.Context, name string) error {
	mode, err := source.ParseMode(name)
	if err != nil {
		return err
	}
	if mode.RequiresLogin() && !m.identity.Authenticated() {
		zlog.Info().Msgf("mode change rejected, login required: mode=%s", mode)
		return ErrLoginRequired
	}

	m.applyMu.Lock()
	p := m.stateMgr.SetMode(mode)
	err = m.playback.Replace(p, false)
	m.applyMu.Unlock()
	if err != nil {
		return err
	}

	zlog.Info().Msgf("mode changed: mode=%s length=%d", mode, p.Len())

	if mode == source.ModePersonal {
		return m.RefreshPersonal(ctx, "")
	}
	return nil
}

// RefreshPersonal re-fetches the personal list. On failure the list is left
// untouched.
func (m *Manager) RefreshPersonal(ctx context.Context, search string) error {
	// A logout after Begin bumps the generation and voids this fetch.
	token := m.stateMgr.Begin(state.ScopePersonal)

	credential := m.identity.Token()
	if credential == "" {
		return ErrLoginRequired
	}

	songs, err := m.songs.List(ctx, credential, search)
	if err != nil {
		zlog.Warn().Msgf("failed to fetch personal songs: error=%v", err)
		return errors.Mark(err, ErrFetchFailed)
	}
	tracks := song.Tracks(songs)

	if !m.commit(token, source.ModePersonal, func(s *source.Sources) {
		s.Personal = tracks
	}) {
		return nil
	}

	zlog.Info().Msgf("personal songs loaded: count=%d search=%q", len(tracks), search)
	return nil
}

// SearchPersonal re-fetches the personal list filtered by title.
func (m *Manager) SearchPersonal(ctx context.Context, search string) error {
	return m.RefreshPersonal(ctx, search)
}

// PlaySingle plays one pasted link immediately. It returns the number of
// links accepted by the filter chain.
func (m *Manager) PlaySingle(ctx context.Context, link string) (int, error) {
	accepted, rejected := m.filterChain.Apply(ctx, []string{link}, track.OriginAdHocSingle)
	tracks := source.AdHocTracks(accepted, track.OriginAdHocSingle)

	var single track.Track
	if len(tracks) > 0 {
		single = tracks[0]
	}

	err := m.playAdHoc(source.ModeSingle, tracks, func(s *source.Sources, enriched []track.Track) {
		s.AdHocSingle = track.Track{}
		if len(enriched) > 0 {
			s.AdHocSingle = enriched[0]
		}
	})
	if err != nil {
		return 0, err
	}

	if len(rejected) > 0 {
		zlog.Info().Msgf("single link dropped: code=%s", rejected[0].Code)
	} else {
		zlog.Info().Msgf("playing single link: link=%s", single.MediaLink)
	}
	return len(tracks), nil
}

// PlayMultiple plays the pasted links immediately, in entry order. It returns
// the number of links accepted by the filter chain.
func (m *Manager) PlayMultiple(ctx context.Context, links []string) (int, error) {
	accepted, rejected := m.filterChain.Apply(ctx, links, track.OriginAdHocMulti)
	tracks := source.AdHocTracks(accepted, track.OriginAdHocMulti)

	err := m.playAdHoc(source.ModeMultiple, tracks, func(s *source.Sources, enriched []track.Track) {
		s.AdHocMultiple = enriched
	})
	if err != nil {
		return 0, err
	}

	zlog.Info().Msgf("playing multiple links: submitted=%d accepted=%d rejected=%d", len(links), len(tracks), len(rejected))
	return len(tracks), nil
}

// playAdHoc installs pending ad hoc tracks, starts playing them and enriches
// them in the background.
func (m *Manager) playAdHoc(mode source.Mode, tracks []track.Track, set func(*source.Sources, []track.Track)) error {
	if m.ctx.Err() != nil {
		return ErrNotRunning
	}

	token := m.stateMgr.Begin(state.ScopeAdHoc)
	pending := m.cache.ApplyCached(tracks)

	m.applyMu.Lock()
	m.stateMgr.SetMode(mode)
	_, p, _ := m.stateMgr.Commit(token, func(s *source.Sources) {
		set(s, pending)
	})
	err := m.playback.Replace(p, true)
	m.applyMu.Unlock()
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return nil
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		enriched := m.cache.EnrichAll(m.ctx, tracks)
		m.commit(token, mode, func(s *source.Sources) {
			set(s, enriched)
		})
	}()
	return nil
}

// SaveTrack saves link to the personal list and reloads it. Without a
// credential no request is sent.
func (m *Manager) SaveTrack(ctx context.Context, link string) error {
	return m.save(ctx, link, false)
}

// SaveGlobalTrack saves link as a global entry. Only administrators may do this.
func (m *Manager) SaveGlobalTrack(ctx context.Context, link string) error {
	return m.save(ctx, link, true)
}

func (m *Manager) save(ctx context.Context, link string, global bool) error {
	credential := m.identity.Token()
	if credential == "" {
		zlog.Info().Msg("save rejected, login required")
		return ErrLoginRequired
	}

	accepted, rejected := m.filterChain.Apply(ctx, []string{link}, track.OriginAdHocSingle)
	if len(accepted) == 0 {
		zlog.Info().Msgf("save rejected: link=%q code=%s", link, rejected[0].Code)
		return ErrNoValidLinks
	}
	link = accepted[0]

	meta := m.cache.Enrich(ctx, link)
	ns := song.NewSong{
		YouTubeURL: link,
		Title:      meta.DisplayName,
		Artist:     meta.Artist,
		Thumbnail:  meta.ThumbnailURL,
	}

	var err error
	if global {
		_, err = m.songs.CreateGlobal(ctx, credential, ns)
	} else {
		_, err = m.songs.Create(ctx, credential, ns)
	}
	if err != nil {
		zlog.Warn().Msgf("failed to save song: link=%s global=%t error=%v", link, global, err)
		if errors.Is(err, songapi.ErrForbidden) {
			return errors.Mark(err, ErrNotAdmin)
		}
		return errors.Mark(err, ErrFetchFailed)
	}

	zlog.Info().Msgf("song saved: link=%s global=%t", link, global)

	if err := m.RefreshPersonal(ctx, ""); err != nil {
		zlog.Warn().Msgf("failed to reload personal songs after save: error=%v", err)
	}
	return nil
}

// LoginURL returns the external login endpoint.
func (m *Manager) LoginURL() string {
	return m.identity.LoginURL()
}

// BeginLogin navigates to the external login endpoint.
func (m *Manager) BeginLogin(nav identity.Navigator) {
	m.identity.BeginLogin(nav)
}

// ConsumeRedirect stores a credential carried by the location and, when a new
// one was stored, loads the personal list.
func (m *Manager) ConsumeRedirect(ctx context.Context, loc identity.Location) (bool, error) {
	consumed, err := m.identity.ConsumeRedirectCredential(loc)
	if err != nil || !consumed {
		return consumed, err
	}

	if err := m.RefreshPersonal(ctx, ""); err != nil {
		zlog.Warn().Msgf("failed to load personal songs after login: error=%v", err)
	}
	return true, nil
}

// Logout clears the credential, drops the personal list and falls back to
// the static list.
func (m *Manager) Logout() error {
	if err := m.identity.Logout(); err != nil {
		return err
	}

	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	p := m.stateMgr.ClearPersonal()
	return m.playback.Replace(p, false)
}

// Authenticated reports whether a credential is held.
func (m *Manager) Authenticated() bool {
	return m.identity.Authenticated()
}

// Play starts playback.
func (m *Manager) Play() error {
	return m.playback.Play()
}

// Pause pauses playback.
func (m *Manager) Pause() error {
	return m.playback.Pause()
}

// TogglePlayPause flips between playing and paused.
func (m *Manager) TogglePlayPause() error {
	return m.playback.TogglePlayPause()
}

// Next moves to the next track.
func (m *Manager) Next() error {
	return m.playback.Next()
}

// Previous moves to the previous track.
func (m *Manager) Previous() error {
	return m.playback.Previous()
}

// SelectTrack plays the entry at index.
func (m *Manager) SelectTrack(index int) error {
	return m.playback.Select(index)
}

// Seek moves the position to fraction of the current track.
func (m *Manager) Seek(fraction float64) error {
	return m.playback.Seek(fraction)
}

// SetVolume sets the volume.
func (m *Manager) SetVolume(volume float64) error {
	return m.playback.SetVolume(volume)
}

// SetShuffle enables or disables shuffle.
func (m *Manager) SetShuffle(enabled bool) {
	m.playback.SetShuffle(enabled)
}

// SetRepeat enables or disables repeat.
func (m *Manager) SetRepeat(enabled bool) {
	m.playback.SetRepeat(enabled)
}

// DispatchWidgetEvent forwards an event reported by the browser-side widget.
func (m *Manager) DispatchWidgetEvent(e widget.Event) {
	m.host.Dispatch(e)
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// Close stops the session.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.cancel()
		m.host.Close()
		m.playback.Close()
		m.wg.Wait()
		m.notification.Close()
		close(m.done)
		zlog.Info().Msg("session closed")
	})
}

// commit applies update when token is still current and refreshes the
// controller when mode is the active one. It reports whether the update was
// applied.
func (m *Manager) commit(token state.Token, mode source.Mode, update func(*source.Sources)) bool {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	active, p, ok := m.stateMgr.Commit(token, update)
	if !ok {
		zlog.Debug().Msgf("discarded stale result: scope=%s generation=%d", token.Scope, token.Generation)
		return false
	}
	if active != mode {
		return true
	}
	m.refreshLocked(p)
	return true
}

// refreshLocked hands p to the controller. Must be called with m.applyMu held.
func (m *Manager) refreshLocked(p playlist.Playlist) {
	if err := m.playback.Refresh(p); err != nil && !errors.Is(err, playback.ErrClosed) {
		zlog.Warn().Msgf("failed to refresh sequence: error=%v", err)
	}
}

// playbackLoop broadcasts playback events as status notifications.
func (m *Manager) playbackLoop() {
	events := m.playback.Events()
	for {
		select {
		case <-m.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			m.handlePlaybackEvent(event)
		}
	}
}

// handlePlaybackEvent handles playback events.
func (m *Manager) handlePlaybackEvent(event playback.Event) {
	if event.Type != playback.EventProgress {
		zlog.Debug().Msgf("playback event: type=%s index=%d state=%s", event.Type, event.Status.Index, event.Status.State)
	}

	status := Status{
		SessionID:     m.stateMgr.GetSessionID(),
		Mode:          m.stateMgr.GetMode(),
		Authenticated: m.identity.Authenticated(),
		Playback:      event.Status,
		Tracks:        m.playback.GetSequence().Tracks(),
	}
	m.notification.BroadcastStatus(ToWire(status))
}
