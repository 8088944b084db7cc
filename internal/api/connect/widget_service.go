package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	playerv1 "github.com/osa030/harmony/internal/api/playerv1"
	"github.com/osa030/harmony/internal/app/session"
	"github.com/osa030/harmony/internal/app/widget"
)

var errMissingInstance = errors.New("widget instance is required")

// WidgetService implements the WidgetService RPC used by the browser-side embed.
type WidgetService struct {
	session *session.Manager
}

// NewWidgetService creates a new WidgetService.
func NewWidgetService(session *session.Manager) *WidgetService {
	return &WidgetService{session: session}
}

// Ensure WidgetService implements the interface.
var _ playerv1.WidgetServiceHandler = (*WidgetService)(nil)

// ReportReady reports that the embed finished loading.
func (s *WidgetService) ReportReady(
	ctx context.Context,
	req *connect.Request[playerv1.WidgetReport],
) (*connect.Response[playerv1.Empty], error) {
	return s.dispatch(req.Msg, widget.EventReady)
}

// ReportProgress reports the played fraction.
func (s *WidgetService) ReportProgress(
	ctx context.Context,
	req *connect.Request[playerv1.WidgetReport],
) (*connect.Response[playerv1.Empty], error) {
	return s.dispatch(req.Msg, widget.EventProgress)
}

// ReportDuration reports the media duration.
func (s *WidgetService) ReportDuration(
	ctx context.Context,
	req *connect.Request[playerv1.WidgetReport],
) (*connect.Response[playerv1.Empty], error) {
	return s.dispatch(req.Msg, widget.EventDuration)
}

// ReportPlayState reports a play/pause change inside the embed.
func (s *WidgetService) ReportPlayState(
	ctx context.Context,
	req *connect.Request[playerv1.WidgetReport],
) (*connect.Response[playerv1.Empty], error) {
	return s.dispatch(req.Msg, widget.EventPlayState)
}

// ReportEnded reports the end of the media.
func (s *WidgetService) ReportEnded(
	ctx context.Context,
	req *connect.Request[playerv1.WidgetReport],
) (*connect.Response[playerv1.Empty], error) {
	return s.dispatch(req.Msg, widget.EventEnded)
}

func (s *WidgetService) dispatch(report *playerv1.WidgetReport, kind widget.EventKind) (*connect.Response[playerv1.Empty], error) {
	if report.Instance == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingInstance)
	}
	s.session.DispatchWidgetEvent(widget.Event{
		Instance: report.Instance,
		Kind:     kind,
		Fraction: report.Fraction,
		Seconds:  report.Seconds,
		Playing:  report.Playing,
	})
	return connect.NewResponse(&playerv1.Empty{}), nil
}
