package playerv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// conn holds what every typed client needs to issue calls.
type conn struct {
	httpClient connect.HTTPClient
	baseURL    string
	header     http.Header
	opts       []connect.ClientOption
}

func newConn(httpClient connect.HTTPClient, baseURL string, opts []connect.ClientOption) conn {
	return conn{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		header:     make(http.Header),
		opts:       append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...),
	}
}

func unary[Req, Res any](ctx context.Context, c conn, procedure string, msg *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, c.opts...)
	req := connect.NewRequest(msg)
	for k, v := range c.header {
		req.Header()[k] = v
	}
	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// PlayerClient calls the player service.
type PlayerClient struct {
	conn conn
}

// NewPlayerClient creates a player service client.
func NewPlayerClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerClient {
	return &PlayerClient{conn: newConn(httpClient, baseURL, opts)}
}

// GetStatus returns the current status.
func (c *PlayerClient) GetStatus(ctx context.Context) (*Status, error) {
	resp, err := unary[Empty, GetStatusResponse](ctx, c.conn, PlayerServiceGetStatusProcedure, &Empty{})
	if err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// SelectMode switches the list mode.
func (c *PlayerClient) SelectMode(ctx context.Context, mode string) (*Result, error) {
	return unary[SelectModeRequest, Result](ctx, c.conn, PlayerServiceSelectModeProcedure, &SelectModeRequest{Mode: mode})
}

// Play starts playback.
func (c *PlayerClient) Play(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, PlayerServicePlayProcedure, &Empty{})
}

// Pause pauses playback.
func (c *PlayerClient) Pause(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, PlayerServicePauseProcedure, &Empty{})
}

// TogglePlayPause flips between playing and paused.
func (c *PlayerClient) TogglePlayPause(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, PlayerServiceTogglePlayPauseProcedure, &Empty{})
}

// Next moves to the next track.
func (c *PlayerClient) Next(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, PlayerServiceNextProcedure, &Empty{})
}

// Previous moves to the previous track.
func (c *PlayerClient) Previous(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, PlayerServicePreviousProcedure, &Empty{})
}

// SelectTrack plays the entry at index.
func (c *PlayerClient) SelectTrack(ctx context.Context, index int) (*Result, error) {
	return unary[SelectTrackRequest, Result](ctx, c.conn, PlayerServiceSelectTrackProcedure, &SelectTrackRequest{Index: index})
}

// Seek moves the position.
func (c *PlayerClient) Seek(ctx context.Context, fraction float64) (*Result, error) {
	return unary[SeekRequest, Result](ctx, c.conn, PlayerServiceSeekProcedure, &SeekRequest{Fraction: fraction})
}

// SetVolume sets the volume.
func (c *PlayerClient) SetVolume(ctx context.Context, volume float64) (*Result, error) {
	return unary[SetVolumeRequest, Result](ctx, c.conn, PlayerServiceSetVolumeProcedure, &SetVolumeRequest{Volume: volume})
}

// SetShuffle enables or disables shuffle.
func (c *PlayerClient) SetShuffle(ctx context.Context, enabled bool) (*Result, error) {
	return unary[SetFlagRequest, Result](ctx, c.conn, PlayerServiceSetShuffleProcedure, &SetFlagRequest{Enabled: enabled})
}

// SetRepeat enables or disables repeat.
func (c *PlayerClient) SetRepeat(ctx context.Context, enabled bool) (*Result, error) {
	return unary[SetFlagRequest, Result](ctx, c.conn, PlayerServiceSetRepeatProcedure, &SetFlagRequest{Enabled: enabled})
}

// PlaySingle plays one link.
func (c *PlayerClient) PlaySingle(ctx context.Context, link string) (*Result, error) {
	return unary[PlaySingleRequest, Result](ctx, c.conn, PlayerServicePlaySingleProcedure, &PlaySingleRequest{Link: link})
}

// PlayMultiple plays a list of links.
func (c *PlayerClient) PlayMultiple(ctx context.Context, links []string) (*Result, error) {
	return unary[PlayMultipleRequest, Result](ctx, c.conn, PlayerServicePlayMultipleProcedure, &PlayMultipleRequest{Links: links})
}

// SearchPersonal re-fetches the personal list filtered by title.
func (c *PlayerClient) SearchPersonal(ctx context.Context, search string) (*Result, error) {
	return unary[SearchPersonalRequest, Result](ctx, c.conn, PlayerServiceSearchPersonalProcedure, &SearchPersonalRequest{Search: search})
}

// SaveTrack saves a link to the personal list.
func (c *PlayerClient) SaveTrack(ctx context.Context, link string) (*Result, error) {
	return unary[SaveTrackRequest, Result](ctx, c.conn, PlayerServiceSaveTrackProcedure, &SaveTrackRequest{Link: link})
}

// SaveGlobalTrack saves a link visible to everyone.
func (c *PlayerClient) SaveGlobalTrack(ctx context.Context, link string) (*Result, error) {
	return unary[SaveTrackRequest, Result](ctx, c.conn, PlayerServiceSaveGlobalTrackProcedure, &SaveTrackRequest{Link: link})
}

// Subscribe opens the notification stream.
func (c *PlayerClient) Subscribe(ctx context.Context) (*connect.ServerStreamForClient[Notification], error) {
	client := connect.NewClient[Empty, Notification](c.conn.httpClient, c.conn.baseURL+PlayerServiceSubscribeProcedure, c.conn.opts...)
	return client.CallServerStream(ctx, connect.NewRequest(&Empty{}))
}

// SessionClient calls the session service.
type SessionClient struct {
	conn conn
}

// NewSessionClient creates a session service client.
func NewSessionClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SessionClient {
	return &SessionClient{conn: newConn(httpClient, baseURL, opts)}
}

// GetSession returns the session info.
func (c *SessionClient) GetSession(ctx context.Context) (*SessionInfo, error) {
	return unary[Empty, SessionInfo](ctx, c.conn, SessionServiceGetSessionProcedure, &Empty{})
}

// LoginURL returns the external login URL.
func (c *SessionClient) LoginURL(ctx context.Context) (string, error) {
	resp, err := unary[Empty, LoginURLResponse](ctx, c.conn, SessionServiceLoginURLProcedure, &Empty{})
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// Logout clears the stored credential.
func (c *SessionClient) Logout(ctx context.Context) (*Result, error) {
	return unary[Empty, Result](ctx, c.conn, SessionServiceLogoutProcedure, &Empty{})
}

// WidgetClient reports media widget events. Every call carries the widget token.
type WidgetClient struct {
	conn conn
}

// NewWidgetClient creates a widget service client.
func NewWidgetClient(httpClient connect.HTTPClient, baseURL, token string, opts ...connect.ClientOption) *WidgetClient {
	c := newConn(httpClient, baseURL, opts)
	c.header.Set(WidgetTokenHeader, token)
	return &WidgetClient{conn: c}
}

// ReportReady reports that the embed finished loading.
func (c *WidgetClient) ReportReady(ctx context.Context, instance uint64) error {
	_, err := unary[WidgetReport, Empty](ctx, c.conn, WidgetServiceReportReadyProcedure, &WidgetReport{Instance: instance})
	return err
}

// ReportProgress reports the played fraction.
func (c *WidgetClient) ReportProgress(ctx context.Context, instance uint64, fraction float64) error {
	_, err := unary[WidgetReport, Empty](ctx, c.conn, WidgetServiceReportProgressProcedure, &WidgetReport{Instance: instance, Fraction: fraction})
	return err
}

// ReportDuration reports the media duration.
func (c *WidgetClient) ReportDuration(ctx context.Context, instance uint64, seconds float64) error {
	_, err := unary[WidgetReport, Empty](ctx, c.conn, WidgetServiceReportDurationProcedure, &WidgetReport{Instance: instance, Seconds: seconds})
	return err
}

// ReportPlayState reports a play/pause change inside the embed.
func (c *WidgetClient) ReportPlayState(ctx context.Context, instance uint64, playing bool) error {
	_, err := unary[WidgetReport, Empty](ctx, c.conn, WidgetServiceReportPlayStateProcedure, &WidgetReport{Instance: instance, Playing: playing})
	return err
}

// ReportEnded reports the end of the media.
func (c *WidgetClient) ReportEnded(ctx context.Context, instance uint64) error {
	_, err := unary[WidgetReport, Empty](ctx, c.conn, WidgetServiceReportEndedProcedure, &WidgetReport{Instance: instance})
	return err
}
