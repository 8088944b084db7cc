package connect

import (
	"context"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/session"
	"github.com/osa030/harmony/internal/infra/config"
)

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	session *session.Manager
	config  *config.Config
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(session *session.Manager, cfg *config.Config) *PlayerService {
	return &PlayerService{
		session: session,
		config:  cfg,
	}
}

// Ensure PlayerService implements the interface.
var _ playerv1.PlayerServiceHandler = (*PlayerService)(nil)

// GetStatus returns the current status.
func (s *PlayerService) GetStatus(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.GetStatusResponse], error) {
	return connect.NewResponse(&playerv1.GetStatusResponse{
		Status: session.ToWire(s.session.GetStatus()),
	}), nil
}

// SelectMode switches the list mode.
func (s *PlayerService) SelectMode(
	ctx context.Context,
	req *connect.Request[playerv1.SelectModeRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.SelectMode(ctx, req.Msg.Mode)), nil
}

// Play starts playback.
func (s *PlayerService) Play(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.Play()), nil
}

// Pause pauses playback.
func (s *PlayerService) Pause(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.Pause()), nil
}

// TogglePlayPause flips between playing and paused.
func (s *PlayerService) TogglePlayPause(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.TogglePlayPause()), nil
}

// Next moves to the next track.
func (s *PlayerService) Next(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.Next()), nil
}

// Previous moves to the previous track.
func (s *PlayerService) Previous(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.Previous()), nil
}

// SelectTrack plays the entry at index.
func (s *PlayerService) SelectTrack(
	ctx context.Context,
	req *connect.Request[playerv1.SelectTrackRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.SelectTrack(req.Msg.Index)), nil
}

// Seek moves the position.
func (s *PlayerService) Seek(
	ctx context.Context,
	req *connect.Request[playerv1.SeekRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.Seek(req.Msg.Fraction)), nil
}

// SetVolume sets the volume.
func (s *PlayerService) SetVolume(
	ctx context.Context,
	req *connect.Request[playerv1.SetVolumeRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.SetVolume(req.Msg.Volume)), nil
}

// SetShuffle enables or disables shuffle.
func (s *PlayerService) SetShuffle(
	ctx context.Context,
	req *connect.Request[playerv1.SetFlagRequest],
) (*connect.Response[playerv1.Result], error) {
	s.session.SetShuffle(req.Msg.Enabled)
	return s.result(nil), nil
}

// SetRepeat enables or disables repeat.
func (s *PlayerService) SetRepeat(
	ctx context.Context,
	req *connect.Request[playerv1.SetFlagRequest],
) (*connect.Response[playerv1.Result], error) {
	s.session.SetRepeat(req.Msg.Enabled)
	return s.result(nil), nil
}

// PlaySingle plays one link.
func (s *PlayerService) PlaySingle(
	ctx context.Context,
	req *connect.Request[playerv1.PlaySingleRequest],
) (*connect.Response[playerv1.Result], error) {
	accepted, err := s.session.PlaySingle(ctx, req.Msg.Link)
	return s.playResult(accepted, err), nil
}

// PlayMultiple plays a list of links.
func (s *PlayerService) PlayMultiple(
	ctx context.Context,
	req *connect.Request[playerv1.PlayMultipleRequest],
) (*connect.Response[playerv1.Result], error) {
	accepted, err := s.session.PlayMultiple(ctx, req.Msg.Links)
	return s.playResult(accepted, err), nil
}

// SearchPersonal re-fetches the personal list filtered by title.
func (s *PlayerService) SearchPersonal(
	ctx context.Context,
	req *connect.Request[playerv1.SearchPersonalRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.result(s.session.SearchPersonal(ctx, req.Msg.Search)), nil
}

// SaveTrack saves a link to the personal list.
func (s *PlayerService) SaveTrack(
	ctx context.Context,
	req *connect.Request[playerv1.SaveTrackRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.savedResult(s.session.SaveTrack(ctx, req.Msg.Link)), nil
}

// SaveGlobalTrack saves a link visible to everyone.
func (s *PlayerService) SaveGlobalTrack(
	ctx context.Context,
	req *connect.Request[playerv1.SaveTrackRequest],
) (*connect.Response[playerv1.Result], error) {
	return s.savedResult(s.session.SaveGlobalTrack(ctx, req.Msg.Link)), nil
}

// Subscribe streams the initial status followed by notifications. The
// subscription is registered before the status is read, so nothing broadcast
// in between is lost.
func (s *PlayerService) Subscribe(
	ctx context.Context,
	req *connect.Request[playerv1.Empty],
	stream *connect.ServerStream[playerv1.Notification],
) error {
	notifManager := s.session.GetNotificationManager()

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := notifManager.Subscribe(adapter, func() *playerv1.Notification {
		status := session.ToWire(s.session.GetStatus())
		return &playerv1.Notification{
			Type:   playerv1.NotificationInitialState,
			Status: &status,
		}
	})
	zlog.Debug().Msgf("subscriber joined: subscription=%s", subscriptionID)

	select {
	case <-ctx.Done():
	case <-s.session.Done():
	}

	notifManager.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("subscriber left: subscription=%s", subscriptionID)
	return nil
}

func (s *PlayerService) result(err error) *connect.Response[playerv1.Result] {
	return connect.NewResponse(newResult(s.config, err, "success"))
}

func (s *PlayerService) savedResult(err error) *connect.Response[playerv1.Result] {
	return connect.NewResponse(newResult(s.config, err, "saved"))
}

// playResult reports a successful play with no accepted link as a notice.
func (s *PlayerService) playResult(accepted int, err error) *connect.Response[playerv1.Result] {
	if err == nil && accepted == 0 {
		return connect.NewResponse(&playerv1.Result{
			Success: true,
			Code:    "no_valid_links",
			Message: s.config.GetMessage("no_valid_links"),
		})
	}
	return s.result(err)
}

// newResult builds the result of an operation. successCode names the message
// used when err is nil.
func newResult(cfg *config.Config, err error, successCode string) *playerv1.Result {
	if err == nil {
		return &playerv1.Result{
			Success: true,
			Code:    successCode,
			Message: cfg.GetMessage(successCode),
		}
	}

	code := session.Code(err)
	zlog.Debug().Msgf("operation failed: code=%s error=%v", code, err)
	return &playerv1.Result{
		Success: false,
		Code:    code,
		Message: cfg.GetMessage(code),
	}
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	stream *connect.ServerStream[playerv1.Notification]
}

func (a *notificationStreamAdapter) Send(notification *playerv1.Notification) error {
	return a.stream.Send(notification)
}
