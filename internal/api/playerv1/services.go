package playerv1

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// Service names
const (
	PlayerServiceName  = "harmony.player.v1.PlayerService"
	SessionServiceName = "harmony.player.v1.SessionService"
	WidgetServiceName  = "harmony.player.v1.WidgetService"
)

// PlayerService procedures
const (
	PlayerServiceGetStatusProcedure       = "/harmony.player.v1.PlayerService/GetStatus"
	PlayerServiceSelectModeProcedure      = "/harmony.player.v1.PlayerService/SelectMode"
	PlayerServicePlayProcedure            = "/harmony.player.v1.PlayerService/Play"
	PlayerServicePauseProcedure           = "/harmony.player.v1.PlayerService/Pause"
	PlayerServiceTogglePlayPauseProcedure = "/harmony.player.v1.PlayerService/TogglePlayPause"
	PlayerServiceNextProcedure            = "/harmony.player.v1.PlayerService/Next"
	PlayerServicePreviousProcedure        = "/harmony.player.v1.PlayerService/Previous"
	PlayerServiceSelectTrackProcedure     = "/harmony.player.v1.PlayerService/SelectTrack"
	PlayerServiceSeekProcedure            = "/harmony.player.v1.PlayerService/Seek"
	PlayerServiceSetVolumeProcedure       = "/harmony.player.v1.PlayerService/SetVolume"
	PlayerServiceSetShuffleProcedure      = "/harmony.player.v1.PlayerService/SetShuffle"
	PlayerServiceSetRepeatProcedure       = "/harmony.player.v1.PlayerService/SetRepeat"
	PlayerServicePlaySingleProcedure      = "/harmony.player.v1.PlayerService/PlaySingle"
	PlayerServicePlayMultipleProcedure    = "/harmony.player.v1.PlayerService/PlayMultiple"
	PlayerServiceSearchPersonalProcedure  = "/harmony.player.v1.PlayerService/SearchPersonal"
	PlayerServiceSaveTrackProcedure       = "/harmony.player.v1.PlayerService/SaveTrack"
	PlayerServiceSaveGlobalTrackProcedure = "/harmony.player.v1.PlayerService/SaveGlobalTrack"
	PlayerServiceSubscribeProcedure       = "/harmony.player.v1.PlayerService/Subscribe"
)

// SessionService procedures
const (
	SessionServiceGetSessionProcedure = "/harmony.player.v1.SessionService/GetSession"
	SessionServiceLoginURLProcedure   = "/harmony.player.v1.SessionService/LoginURL"
	SessionServiceLogoutProcedure     = "/harmony.player.v1.SessionService/Logout"
)

// WidgetService procedures
const (
	WidgetServiceReportReadyProcedure     = "/harmony.player.v1.WidgetService/ReportReady"
	WidgetServiceReportProgressProcedure  = "/harmony.player.v1.WidgetService/ReportProgress"
	WidgetServiceReportDurationProcedure  = "/harmony.player.v1.WidgetService/ReportDuration"
	WidgetServiceReportPlayStateProcedure = "/harmony.player.v1.WidgetService/ReportPlayState"
	WidgetServiceReportEndedProcedure     = "/harmony.player.v1.WidgetService/ReportEnded"
)

// PlayerServiceHandler is implemented by the player service.
type PlayerServiceHandler interface {
	GetStatus(context.Context, *connect.Request[Empty]) (*connect.Response[GetStatusResponse], error)
	SelectMode(context.Context, *connect.Request[SelectModeRequest]) (*connect.Response[Result], error)
	Play(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
	Pause(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
	TogglePlayPause(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
	Next(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
	Previous(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
	SelectTrack(context.Context, *connect.Request[SelectTrackRequest]) (*connect.Response[Result], error)
	Seek(context.Context, *connect.Request[SeekRequest]) (*connect.Response[Result], error)
	SetVolume(context.Context, *connect.Request[SetVolumeRequest]) (*connect.Response[Result], error)
	SetShuffle(context.Context, *connect.Request[SetFlagRequest]) (*connect.Response[Result], error)
	SetRepeat(context.Context, *connect.Request[SetFlagRequest]) (*connect.Response[Result], error)
	PlaySingle(context.Context, *connect.Request[PlaySingleRequest]) (*connect.Response[Result], error)
	PlayMultiple(context.Context, *connect.Request[PlayMultipleRequest]) (*connect.Response[Result], error)
	SearchPersonal(context.Context, *connect.Request[SearchPersonalRequest]) (*connect.Response[Result], error)
	SaveTrack(context.Context, *connect.Request[SaveTrackRequest]) (*connect.Response[Result], error)
	SaveGlobalTrack(context.Context, *connect.Request[SaveTrackRequest]) (*connect.Response[Result], error)
	Subscribe(context.Context, *connect.Request[Empty], *connect.ServerStream[Notification]) error
}

// SessionServiceHandler is implemented by the session service.
type SessionServiceHandler interface {
	GetSession(context.Context, *connect.Request[Empty]) (*connect.Response[SessionInfo], error)
	LoginURL(context.Context, *connect.Request[Empty]) (*connect.Response[LoginURLResponse], error)
	Logout(context.Context, *connect.Request[Empty]) (*connect.Response[Result], error)
}

// WidgetServiceHandler is implemented by the widget service.
type WidgetServiceHandler interface {
	ReportReady(context.Context, *connect.Request[WidgetReport]) (*connect.Response[Empty], error)
	ReportProgress(context.Context, *connect.Request[WidgetReport]) (*connect.Response[Empty], error)
	ReportDuration(context.Context, *connect.Request[WidgetReport]) (*connect.Response[Empty], error)
	ReportPlayState(context.Context, *connect.Request[WidgetReport]) (*connect.Response[Empty], error)
	ReportEnded(context.Context, *connect.Request[WidgetReport]) (*connect.Response[Empty], error)
}

// NewPlayerServiceHandler builds an HTTP handler for the player service and
// returns the path to mount it on.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	return "/" + PlayerServiceName + "/", route(map[string]http.Handler{
		PlayerServiceGetStatusProcedure:       connect.NewUnaryHandler(PlayerServiceGetStatusProcedure, svc.GetStatus, opts...),
		PlayerServiceSelectModeProcedure:      connect.NewUnaryHandler(PlayerServiceSelectModeProcedure, svc.SelectMode, opts...),
		PlayerServicePlayProcedure:            connect.NewUnaryHandler(PlayerServicePlayProcedure, svc.Play, opts...),
		PlayerServicePauseProcedure:           connect.NewUnaryHandler(PlayerServicePauseProcedure, svc.Pause, opts...),
		PlayerServiceTogglePlayPauseProcedure: connect.NewUnaryHandler(PlayerServiceTogglePlayPauseProcedure, svc.TogglePlayPause, opts...),
		PlayerServiceNextProcedure:            connect.NewUnaryHandler(PlayerServiceNextProcedure, svc.Next, opts...),
		PlayerServicePreviousProcedure:        connect.NewUnaryHandler(PlayerServicePreviousProcedure, svc.Previous, opts...),
		PlayerServiceSelectTrackProcedure:     connect.NewUnaryHandler(PlayerServiceSelectTrackProcedure, svc.SelectTrack, opts...),
		PlayerServiceSeekProcedure:            connect.NewUnaryHandler(PlayerServiceSeekProcedure, svc.Seek, opts...),
		PlayerServiceSetVolumeProcedure:       connect.NewUnaryHandler(PlayerServiceSetVolumeProcedure, svc.SetVolume, opts...),
		PlayerServiceSetShuffleProcedure:      connect.NewUnaryHandler(PlayerServiceSetShuffleProcedure, svc.SetShuffle, opts...),
		PlayerServiceSetRepeatProcedure:       connect.NewUnaryHandler(PlayerServiceSetRepeatProcedure, svc.SetRepeat, opts...),
		PlayerServicePlaySingleProcedure:      connect.NewUnaryHandler(PlayerServicePlaySingleProcedure, svc.PlaySingle, opts...),
		PlayerServicePlayMultipleProcedure:    connect.NewUnaryHandler(PlayerServicePlayMultipleProcedure, svc.PlayMultiple, opts...),
		PlayerServiceSearchPersonalProcedure:  connect.NewUnaryHandler(PlayerServiceSearchPersonalProcedure, svc.SearchPersonal, opts...),
		PlayerServiceSaveTrackProcedure:       connect.NewUnaryHandler(PlayerServiceSaveTrackProcedure, svc.SaveTrack, opts...),
		PlayerServiceSaveGlobalTrackProcedure: connect.NewUnaryHandler(PlayerServiceSaveGlobalTrackProcedure, svc.SaveGlobalTrack, opts...),
		PlayerServiceSubscribeProcedure:       connect.NewServerStreamHandler(PlayerServiceSubscribeProcedure, svc.Subscribe, opts...),
	})
}

// NewSessionServiceHandler builds an HTTP handler for the session service.
func NewSessionServiceHandler(svc SessionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	return "/" + SessionServiceName + "/", route(map[string]http.Handler{
		SessionServiceGetSessionProcedure: connect.NewUnaryHandler(SessionServiceGetSessionProcedure, svc.GetSession, opts...),
		SessionServiceLoginURLProcedure:   connect.NewUnaryHandler(SessionServiceLoginURLProcedure, svc.LoginURL, opts...),
		SessionServiceLogoutProcedure:     connect.NewUnaryHandler(SessionServiceLogoutProcedure, svc.Logout, opts...),
	})
}

// NewWidgetServiceHandler builds an HTTP handler for the widget service.
func NewWidgetServiceHandler(svc WidgetServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	return "/" + WidgetServiceName + "/", route(map[string]http.Handler{
		WidgetServiceReportReadyProcedure:     connect.NewUnaryHandler(WidgetServiceReportReadyProcedure, svc.ReportReady, opts...),
		WidgetServiceReportProgressProcedure:  connect.NewUnaryHandler(WidgetServiceReportProgressProcedure, svc.ReportProgress, opts...),
		WidgetServiceReportDurationProcedure:  connect.NewUnaryHandler(WidgetServiceReportDurationProcedure, svc.ReportDuration, opts...),
		WidgetServiceReportPlayStateProcedure: connect.NewUnaryHandler(WidgetServiceReportPlayStateProcedure, svc.ReportPlayState, opts...),
		WidgetServiceReportEndedProcedure:     connect.NewUnaryHandler(WidgetServiceReportEndedProcedure, svc.ReportEnded, opts...),
	})
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
